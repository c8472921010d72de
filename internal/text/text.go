// Package text implements the inline colour-escape contract shared by the
// mission core and its render collaborators. Strings carry ESC markers that
// switch the draw colour mid-string; markers contribute zero width.
package text

import "strings"

// Esc starts an inline colour sequence. The marker consumes two characters
// (marker + code), or one when the marker is the last character of the string.
const Esc = '\x1b'

// Colour codes understood after an Esc marker.
const (
	CodeRed   = 'r'
	CodeGreen = 'g'
	CodeBlue  = 'b'
	CodeReset = '0'
)

// Font supplies per-glyph advance widths and the line height, in pixels.
// Glyph atlas generation is the render collaborator's concern.
type Font interface {
	Advance(c byte) int
	LineHeight() int
}

// Renderer is the draw capability the core consumes. Implementations live in
// the render layer; colour is the base colour, escape markers override it.
type Renderer interface {
	DrawText(f Font, x, y int, colour string, text string)
}

// Width returns the pixel width of text, skipping escape sequences.
func Width(f Font, text string) int {
	n := 0
	for i := 0; i < len(text); i++ {
		if text[i] == Esc {
			if i+1 < len(text) {
				i++
			}
			continue
		}
		n += f.Advance(text[i])
	}
	return n
}

// Fit returns the number of leading characters of text that fit into maxWidth
// pixels, breaking at the last space when the text overflows. It stops at the
// first newline. Escape sequences and tabs contribute no width.
func Fit(f Font, text string, maxWidth int) int {
	lastSpace := 0
	n := 0
	i := 0
	for i < len(text) && text[i] != '\n' {
		if text[i] == '\t' {
			i++
			continue
		}
		if text[i] == Esc {
			if i+1 < len(text) {
				i += 2
			} else {
				i++
			}
			continue
		}

		n += f.Advance(text[i])

		if text[i] == ' ' {
			lastSpace = i
		}
		if n > maxWidth {
			return lastSpace
		}
		i++
	}
	return i
}

// Height returns the pixel height of text wrapped into maxWidth.
func Height(f Font, text string, maxWidth int) int {
	lines := 0
	pos := 0
	for pos < len(text) {
		fit := Fit(f, text[pos:], maxWidth)
		if fit <= 0 {
			// a single over-wide word with no break point still takes a line
			fit = 1
		}
		pos += fit
		// swallow the break character itself
		if pos < len(text) && (text[pos] == ' ' || text[pos] == '\n') {
			pos++
		}
		lines++
	}
	if lines == 0 {
		lines = 1
	}
	return lines * f.LineHeight()
}

// Strip removes all escape sequences, returning the bare text.
func Strip(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if text[i] == Esc {
			if i+1 < len(text) {
				i++
			}
			continue
		}
		b.WriteByte(text[i])
	}
	return b.String()
}

// Segment is a run of text drawn in a single colour. Colour is one of the
// Code* constants, or 0 for the caller's base colour.
type Segment struct {
	Colour byte
	Text   string
}

// Segments splits text into colour runs for renderers that cannot track the
// escape state machine themselves.
func Segments(text string) []Segment {
	var segs []Segment
	var cur strings.Builder
	colour := byte(0)

	flush := func() {
		if cur.Len() > 0 {
			segs = append(segs, Segment{Colour: colour, Text: cur.String()})
			cur.Reset()
		}
	}

	for i := 0; i < len(text); i++ {
		if text[i] == Esc {
			if i+1 < len(text) {
				i++
				flush()
				switch text[i] {
				case CodeRed, CodeGreen, CodeBlue:
					colour = text[i]
				case CodeReset:
					colour = 0
				}
			}
			continue
		}
		cur.WriteByte(text[i])
	}
	flush()
	return segs
}
