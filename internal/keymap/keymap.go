// Package keymap defines canonical key identifiers and the fixed
// physical-layout ordering used to sort piano-roll rows.
package keymap

import "strings"

// KeyID is a canonical, lower-case key identifier (e.g. "a", "space",
// "left shift"). All components exchange keys in this form.
type KeyID string

// unrankedBase is the rank assigned to keys not present in the layout
// table. They sort after every ranked key, alphabetically.
const unrankedBase = 1000

// layoutRank maps each recognized key to its position in a fixed
// HHKB-style row/column ordering. Row order: esc row, number row, QWERTY
// row, home row, bottom row, modifiers, function keys.
var layoutRank = map[KeyID]int{
	"esc": 0,
	"1":   1, "2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7, "8": 8,
	"9": 9, "0": 10, "-": 11, "=": 12, "backspace": 13,
	"tab": 20, "q": 21, "w": 22, "e": 23, "r": 24, "t": 25, "y": 26,
	"u": 27, "i": 28, "o": 29, "p": 30, "[": 31, "]": 32, "\\": 33,
	"left ctrl": 40, "a": 41, "s": 42, "d": 43, "f": 44, "g": 45,
	"h": 46, "j": 47, "k": 48, "l": 49, ";": 50, "'": 51, "enter": 52,
	"left shift": 60, "z": 61, "x": 62, "c": 63, "v": 64, "b": 65,
	"n": 66, "m": 67, ",": 68, ".": 69, "/": 70, "right shift": 71,
	"left alt": 80, "space": 81, "right alt": 82,
	"f1": 100, "f2": 101, "f3": 102, "f4": 103, "f5": 104, "f6": 105,
	"f7": 106, "f8": 107, "f9": 108, "f10": 109, "f11": 110, "f12": 111,
}

// Normalize converts a raw key name into its canonical KeyID.
func Normalize(raw string) KeyID {
	return KeyID(strings.ToLower(strings.TrimSpace(raw)))
}

// Rank returns the layout-order sort rank for a key. Unknown keys rank
// after all known keys so newly seen identifiers still get a stable row.
func Rank(k KeyID) int {
	if r, ok := layoutRank[k]; ok {
		return r
	}
	return unrankedBase
}

// Less orders two keys by layout rank, breaking ties lexically so the
// ordering is total even for unranked keys.
func Less(a, b KeyID) bool {
	ra, rb := Rank(a), Rank(b)
	if ra != rb {
		return ra < rb
	}
	return a < b
}

// Label returns the display label for a key (upper-cased canonical id).
func Label(k KeyID) string {
	return strings.ToUpper(string(k))
}

// Known reports whether the key appears in the layout table.
func Known(k KeyID) bool {
	_, ok := layoutRank[k]
	return ok
}
