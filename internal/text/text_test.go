package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fixedFont gives every glyph the same advance, which keeps the width
// arithmetic in tests trivial.
type fixedFont struct {
	adv    int
	height int
}

func (f fixedFont) Advance(c byte) int { return f.adv }
func (f fixedFont) LineHeight() int    { return f.height }

func TestWidth_PlainText(t *testing.T) {
	f := fixedFont{adv: 7, height: 12}
	assert.Equal(t, 35, Width(f, "cargo"))
	assert.Equal(t, 0, Width(f, ""))
}

func TestWidth_EscapeSequencesAreZeroWidth(t *testing.T) {
	f := fixedFont{adv: 7, height: 12}

	// marker + code consume two characters, no width
	assert.Equal(t, 35, Width(f, "ca\x1brrgo"))
	// reset marker
	assert.Equal(t, 35, Width(f, "\x1bgcargo\x1b0"))
	// marker at end of string consumes one character
	assert.Equal(t, 35, Width(f, "cargo\x1b"))
}

func TestFit_BreaksAtLastSpace(t *testing.T) {
	f := fixedFont{adv: 10, height: 12}

	// "deliver the goods": width 50 fits "deliv" before overflow at index 5,
	// but there is no space yet, so Fit reports 0
	assert.Equal(t, 0, Fit(f, "deliver", 50))

	// with a space in range, break there
	n := Fit(f, "go to Em 5", 70)
	assert.Equal(t, 5, n) // breaks at the space after "to"
}

func TestFit_StopsAtNewline(t *testing.T) {
	f := fixedFont{adv: 1, height: 12}
	assert.Equal(t, 3, Fit(f, "abc\ndef", 100))
}

func TestHeight_WrapsLines(t *testing.T) {
	f := fixedFont{adv: 10, height: 16}

	// everything fits on one line
	assert.Equal(t, 16, Height(f, "short", 100))

	// two words forced onto two lines
	assert.Equal(t, 32, Height(f, "alpha beta", 50))

	// explicit newline
	assert.Equal(t, 32, Height(f, "alpha\nbeta", 1000))
}

func TestStrip(t *testing.T) {
	assert.Equal(t, "cargo", Strip("\x1brcargo\x1b0"))
	assert.Equal(t, "cargo", Strip("cargo\x1b"))
	assert.Equal(t, "plain", Strip("plain"))
}

func TestSegments(t *testing.T) {
	segs := Segments("no \x1brdanger\x1b0 here")
	assert.Equal(t, []Segment{
		{Colour: 0, Text: "no "},
		{Colour: 'r', Text: "danger"},
		{Colour: 0, Text: " here"},
	}, segs)
}

func TestSegments_TrailingMarker(t *testing.T) {
	segs := Segments("done\x1b")
	assert.Equal(t, []Segment{{Colour: 0, Text: "done"}}, segs)
}
