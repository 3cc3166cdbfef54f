package protocol

import (
	"unicode"
	"unicode/utf8"
)

// keysyms maps browser key names to the X keysym names the source injects.
// Printable characters are sent as-is and need no entry.
var keysyms = map[string]string{
	" ":          "KP_Space",
	"Shift":      "Shift_L",
	"Alt":        "Alt_L",
	"Enter":      "Return",
	"Backspace":  "BackSpace",
	"CapsLock":   "Caps_Lock",
	"Tab":        "Tab",
	"Control":    "Control_L",
	"ArrowLeft":  "Left",
	"ArrowRight": "Right",
	"ArrowUp":    "Up",
	"ArrowDown":  "Down",
	"PageUp":     "KP_Page_Up",
	"PageDown":   "KP_Page_Down",
}

// KeySymbol resolves a key name to its wire symbol. Unknown keys that are
// not a single printable character resolve to "".
func KeySymbol(key string) string {
	if sym, ok := keysyms[key]; ok {
		return sym
	}
	if utf8.RuneCountInString(key) == 1 {
		r, _ := utf8.DecodeRuneInString(key)
		if r != utf8.RuneError && unicode.IsPrint(r) {
			return key
		}
	}
	return ""
}

// MappedKeys returns a copy of the named key table.
func MappedKeys() map[string]string {
	out := make(map[string]string, len(keysyms))
	for k, v := range keysyms {
		out[k] = v
	}
	return out
}
