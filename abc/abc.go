// Package abc renders piano-roll rectangles as ABC notation.
package abc

import (
	"strconv"
	"strings"

	"github.com/andaloo23/music-copilot/chord"
	"github.com/andaloo23/music-copilot/constants"
	"github.com/andaloo23/music-copilot/model"
	"github.com/andaloo23/music-copilot/note"
)

// Header is emitted before every tune: 4/4, eighth note default length, C major.
const Header = "X:1\nT:Music Piece\nM:4/4\nL:1/8\nK:C\n|"

const BarLine = " |"

// Token renders a chord, or a single note when it has one member.
func Token(c model.Chord) string {
	duration := chord.Duration(c)
	if len(c) > 1 {
		var b strings.Builder
		b.WriteString("[")
		for _, n := range c {
			b.WriteString(n.Note)
		}
		b.WriteString("]")
		b.WriteString(strconv.Itoa(duration))
		return b.String()
	}
	if duration > 1 {
		return c[0].Note + strconv.Itoa(duration)
	}
	return c[0].Note
}

// Render writes the tune body for already processed notes.
func Render(notes []model.ProcessedNote) string {
	var b strings.Builder
	b.WriteString(Header)

	currentMeasure := 0
	for _, c := range chord.GetChords(notes) {
		b.WriteString(Token(c))

		// overflow carries into the next bar
		currentMeasure += chord.Duration(c)
		if currentMeasure >= constants.MeasureLength {
			b.WriteString(BarLine)
			currentMeasure %= constants.MeasureLength
		}
	}

	if currentMeasure != 0 {
		b.WriteString(BarLine)
	}
	return b.String()
}

// Convert turns rectangles into an ABC tune. Any bad rectangle fails
// the whole conversion.
func Convert(rects []model.Rectangle) (string, error) {
	notes, err := note.FromRectangles(rects)
	if err != nil {
		return "", err
	}
	return Render(notes), nil
}
