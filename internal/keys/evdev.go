package keys

import "github.com/holoplot/go-evdev"

// charCodes maps evdev key codes to the unshifted character they produce
// on a US layout. Characters are what profiles bind against, so the same
// profile keeps working across physical keyboards.
var charCodes = map[evdev.EvCode]rune{
	evdev.KEY_A: 'a', evdev.KEY_B: 'b', evdev.KEY_C: 'c', evdev.KEY_D: 'd',
	evdev.KEY_E: 'e', evdev.KEY_F: 'f', evdev.KEY_G: 'g', evdev.KEY_H: 'h',
	evdev.KEY_I: 'i', evdev.KEY_J: 'j', evdev.KEY_K: 'k', evdev.KEY_L: 'l',
	evdev.KEY_M: 'm', evdev.KEY_N: 'n', evdev.KEY_O: 'o', evdev.KEY_P: 'p',
	evdev.KEY_Q: 'q', evdev.KEY_R: 'r', evdev.KEY_S: 's', evdev.KEY_T: 't',
	evdev.KEY_U: 'u', evdev.KEY_V: 'v', evdev.KEY_W: 'w', evdev.KEY_X: 'x',
	evdev.KEY_Y: 'y', evdev.KEY_Z: 'z',

	evdev.KEY_1: '1', evdev.KEY_2: '2', evdev.KEY_3: '3', evdev.KEY_4: '4',
	evdev.KEY_5: '5', evdev.KEY_6: '6', evdev.KEY_7: '7', evdev.KEY_8: '8',
	evdev.KEY_9: '9', evdev.KEY_0: '0',

	evdev.KEY_MINUS:      '-',
	evdev.KEY_EQUAL:      '=',
	evdev.KEY_LEFTBRACE:  '[',
	evdev.KEY_RIGHTBRACE: ']',
	evdev.KEY_SEMICOLON:  ';',
	evdev.KEY_APOSTROPHE: '\'',
	evdev.KEY_GRAVE:      '`',
	evdev.KEY_BACKSLASH:  '\\',
	evdev.KEY_COMMA:      ',',
	evdev.KEY_DOT:        '.',
	evdev.KEY_SLASH:      '/',
}

// namedCodes maps evdev key codes to canonical key names.
var namedCodes = map[evdev.EvCode]string{
	evdev.KEY_ESC:        "esc",
	evdev.KEY_ENTER:      "enter",
	evdev.KEY_TAB:        "tab",
	evdev.KEY_BACKSPACE:  "backspace",
	evdev.KEY_DELETE:     "delete",
	evdev.KEY_INSERT:     "insert",
	evdev.KEY_HOME:       "home",
	evdev.KEY_END:        "end",
	evdev.KEY_PAGEUP:     "page_up",
	evdev.KEY_PAGEDOWN:   "page_down",
	evdev.KEY_UP:         "up",
	evdev.KEY_DOWN:       "down",
	evdev.KEY_LEFT:       "left",
	evdev.KEY_RIGHT:      "right",
	evdev.KEY_SPACE:      "space",
	evdev.KEY_LEFTSHIFT:  "shift",
	evdev.KEY_RIGHTSHIFT: "shift_r",
	evdev.KEY_LEFTCTRL:   "ctrl",
	evdev.KEY_RIGHTCTRL:  "ctrl_r",
	evdev.KEY_LEFTALT:    "alt",
	evdev.KEY_RIGHTALT:   "alt_gr",
	evdev.KEY_LEFTMETA:   "cmd",
	evdev.KEY_RIGHTMETA:  "cmd",
	evdev.KEY_CAPSLOCK:   "caps_lock",
	evdev.KEY_NUMLOCK:    "num_lock",
	evdev.KEY_SCROLLLOCK: "scroll_lock",
	evdev.KEY_SYSRQ:      "print_screen",
	evdev.KEY_PAUSE:      "pause",
	evdev.KEY_COMPOSE:    "menu",
	evdev.KEY_F1:         "f1",
	evdev.KEY_F2:         "f2",
	evdev.KEY_F3:         "f3",
	evdev.KEY_F4:         "f4",
	evdev.KEY_F5:         "f5",
	evdev.KEY_F6:         "f6",
	evdev.KEY_F7:         "f7",
	evdev.KEY_F8:         "f8",
	evdev.KEY_F9:         "f9",
	evdev.KEY_F10:        "f10",
	evdev.KEY_F11:        "f11",
	evdev.KEY_F12:        "f12",
}

// FromEvdev translates an evdev key code into a Key. Printable keys
// become CHAR keys, known specials become KEY names, and anything else
// falls back to a VK code so it still round-trips through a profile.
func FromEvdev(code evdev.EvCode) Key {
	if c, ok := charCodes[code]; ok {
		return Char(c)
	}
	if name, ok := namedCodes[code]; ok {
		return Named(name)
	}
	return Code(uint16(code))
}
