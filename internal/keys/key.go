package keys

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the three representable key variants.
type Kind uint8

const (
	// KindNone is the zero value: no key bound.
	KindNone Kind = iota
	// KindName is a named non-printable key, e.g. "esc" or "backspace".
	KindName
	// KindCode is a platform virtual key code.
	KindCode
	// KindChar is a literal character key.
	KindChar
)

// Key identifies a physical keyboard key. The zero value means "unmapped".
// Keys are comparable; equality is structural on (kind, value).
type Key struct {
	Kind Kind
	Name string
	Code uint16
	Char rune
}

// Named returns a Key for a named non-printable key. Unknown names yield
// the zero Key.
func Named(name string) Key {
	name = canonicalName(name)
	if name == "" {
		return Key{}
	}
	return Key{Kind: KindName, Name: name}
}

// Code returns a Key for a platform virtual key code.
func Code(code uint16) Key {
	return Key{Kind: KindCode, Code: code}
}

// Char returns a Key for a literal character key.
func Char(c rune) Key {
	return Key{Kind: KindChar, Char: c}
}

// IsZero reports whether the key is unmapped.
func (k Key) IsZero() bool {
	return k.Kind == KindNone
}

// String returns the tagged serialized form: "KEY:<name>", "VK:<int>",
// "CHAR:<char>", or "" for the zero Key.
func (k Key) String() string {
	switch k.Kind {
	case KindName:
		return "KEY:" + k.Name
	case KindCode:
		return "VK:" + strconv.Itoa(int(k.Code))
	case KindChar:
		return "CHAR:" + string(k.Char)
	default:
		return ""
	}
}

// Display returns a human-readable hint for the UI.
func (k Key) Display() string {
	switch k.Kind {
	case KindName:
		return "Key." + k.Name
	case KindCode:
		return fmt.Sprintf("VK %d", k.Code)
	case KindChar:
		return "'" + string(k.Char) + "'"
	default:
		return "(unmapped)"
	}
}

// Parse decodes the tagged string form. Malformed or unrecognized input
// yields the zero Key, never an error: a binding that cannot be decoded
// behaves as unmapped.
func Parse(s string) Key {
	switch {
	case s == "":
		return Key{}
	case strings.HasPrefix(s, "KEY:"):
		return Named(s[len("KEY:"):])
	case strings.HasPrefix(s, "VK:"):
		n, err := strconv.Atoi(s[len("VK:"):])
		if err != nil || n < 0 || n > 0xFFFF {
			return Key{}
		}
		return Code(uint16(n))
	case strings.HasPrefix(s, "CHAR:"):
		r := []rune(s[len("CHAR:"):])
		if len(r) != 1 {
			return Key{}
		}
		return Char(r[0])
	default:
		return Key{}
	}
}

// MarshalText implements encoding.TextMarshaler using the tagged form.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Undecodable input
// resets the key to unmapped.
func (k *Key) UnmarshalText(b []byte) error {
	*k = Parse(string(b))
	return nil
}

// keyNames maps accepted spellings (lowercase) to the canonical name.
var keyNames = map[string]string{
	"esc":          "esc",
	"escape":       "esc",
	"enter":        "enter",
	"return":       "enter",
	"tab":          "tab",
	"backspace":    "backspace",
	"bs":           "backspace",
	"delete":       "delete",
	"del":          "delete",
	"insert":       "insert",
	"ins":          "insert",
	"home":         "home",
	"end":          "end",
	"page_up":      "page_up",
	"pageup":       "page_up",
	"page_down":    "page_down",
	"pagedown":     "page_down",
	"up":           "up",
	"down":         "down",
	"left":         "left",
	"right":        "right",
	"space":        "space",
	"shift":        "shift",
	"shift_r":      "shift_r",
	"ctrl":         "ctrl",
	"ctrl_r":       "ctrl_r",
	"alt":          "alt",
	"alt_r":        "alt_r",
	"alt_gr":       "alt_gr",
	"cmd":          "cmd",
	"super":        "cmd",
	"caps_lock":    "caps_lock",
	"capslock":     "caps_lock",
	"num_lock":     "num_lock",
	"numlock":      "num_lock",
	"scroll_lock":  "scroll_lock",
	"scrolllock":   "scroll_lock",
	"print_screen": "print_screen",
	"printscreen":  "print_screen",
	"pause":        "pause",
	"menu":         "menu",
	"f1":           "f1",
	"f2":           "f2",
	"f3":           "f3",
	"f4":           "f4",
	"f5":           "f5",
	"f6":           "f6",
	"f7":           "f7",
	"f8":           "f8",
	"f9":           "f9",
	"f10":          "f10",
	"f11":          "f11",
	"f12":          "f12",
}

func canonicalName(name string) string {
	return keyNames[strings.ToLower(strings.TrimSpace(name))]
}
