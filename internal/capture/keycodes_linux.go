//go:build linux

package capture

import "legato/internal/keymap"

// keyCodes maps Linux input event codes (input-event-codes.h, a
// stable kernel ABI) to canonical key identifiers. Codes outside the
// table are ignored by the source.
var keyCodes = map[uint16]keymap.KeyID{
	1:  "esc",
	2:  "1", 3: "2", 4: "3", 5: "4", 6: "5",
	7:  "6", 8: "7", 9: "8", 10: "9", 11: "0",
	12: "-", 13: "=", 14: "backspace",
	15: "tab",
	16: "q", 17: "w", 18: "e", 19: "r", 20: "t",
	21: "y", 22: "u", 23: "i", 24: "o", 25: "p",
	26: "[", 27: "]", 28: "enter",
	29: "left ctrl",
	30: "a", 31: "s", 32: "d", 33: "f", 34: "g",
	35: "h", 36: "j", 37: "k", 38: "l",
	39: ";", 40: "'",
	42: "left shift", 43: "\\",
	44: "z", 45: "x", 46: "c", 47: "v", 48: "b",
	49: "n", 50: "m",
	51: ",", 52: ".", 53: "/",
	54: "right shift",
	56: "left alt", 57: "space",
	59: "f1", 60: "f2", 61: "f3", 62: "f4", 63: "f5",
	64: "f6", 65: "f7", 66: "f8", 67: "f9", 68: "f10",
	87: "f11", 88: "f12",
	100: "right alt",
}

// keyName resolves an event code to its canonical key id.
func keyName(code uint16) (keymap.KeyID, bool) {
	k, ok := keyCodes[code]
	return k, ok
}
