// Package ui provides shared UI constants and utilities.
package ui

// Layout constants for consistent sizing across UI components.
const (
	// ScrollMargin is the number of items to keep visible above/below the cursor.
	ScrollMargin = 3

	// BorderHeight is the space consumed by a standard panel border.
	BorderHeight = 2

	// HeaderHeight is the space for header + separator in panels.
	HeaderHeight = 2

	// PanelOverhead is the total vertical overhead (border + header + separator).
	PanelOverhead = BorderHeight + HeaderHeight
)

// Base provides focus and size management for component models.
type Base struct {
	width, height int
	focused       bool
}

func (b *Base) SetFocused(focused bool) { b.focused = focused }

func (b Base) IsFocused() bool { return b.focused }

func (b *Base) SetSize(width, height int) {
	b.width = width
	b.height = height
}

func (b Base) Width() int { return b.width }

func (b Base) Height() int { return b.height }
