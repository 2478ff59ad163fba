// Package icons selects the glyphs used for playback state and queue modes.
package icons

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the icon characters for the current style.
type Icons struct {
	Play      string
	Pause     string
	Stop      string
	Playing   string // queue marker of the current track
	Shuffle   string
	RepeatAll string
	RepeatOne string
}

var (
	nerdIcons = Icons{
		Play:      "\uf04b", // nf-fa-play
		Pause:     "\uf04c", // nf-fa-pause
		Stop:      "\uf04d", // nf-fa-stop
		Playing:   "󰝚",      // nf-md-music_note
		Shuffle:   "󰒟",      // nf-md-shuffle
		RepeatAll: "󰑖",      // nf-md-repeat
		RepeatOne: "󰑘",      // nf-md-repeat_once
	}

	unicodeIcons = Icons{
		Play:      "▶",
		Pause:     "⏸",
		Stop:      "⏹",
		Playing:   "▶",
		Shuffle:   "🔀",
		RepeatAll: "🔁",
		RepeatOne: "🔂",
	}

	noneIcons = Icons{
		Play:      ">",
		Pause:     "=",
		Stop:      "#",
		Playing:   ">",
		Shuffle:   "[S]",
		RepeatAll: "[R]",
		RepeatOne: "[1]",
	}

	// current holds the active icon set
	current = noneIcons
)

// Init initializes the icons based on the style.
// Call this once at startup with the config value. Unknown styles select
// plain ASCII.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleUnicode:
		current = unicodeIcons
	case StyleNone:
		current = noneIcons
	default:
		current = noneIcons
	}
}

// Current returns the active icon set.
func Current() Icons {
	return current
}

func Play() string { return current.Play }

func Pause() string { return current.Pause }

func Stop() string { return current.Stop }

// Playing marks the current track in a list.
func Playing() string { return current.Playing }

// Shuffle returns the shuffle icon.
func Shuffle() string { return current.Shuffle }

// RepeatAll returns the repeat all icon.
func RepeatAll() string { return current.RepeatAll }

// RepeatOne returns the repeat one icon.
func RepeatOne() string { return current.RepeatOne }
