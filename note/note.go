package note

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/andaloo23/music-copilot/constants"
	"github.com/andaloo23/music-copilot/model"
	"github.com/andaloo23/music-copilot/util"
)

var ErrPitchOutOfRange = errors.New("pitch index out of range")

// Labels is the pitch class cycle, ordered so index == semitones above C.
var Labels = [12]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

var abcSymbols = map[string]string{
	"C": "C", "Db": "_D", "D": "D", "Eb": "_E", "E": "E", "F": "F",
	"Gb": "_G", "G": "G", "Ab": "_A", "A": "A", "Bb": "_B", "B": "B",
}

// AbcSymbol returns the ABC spelling of a pitch class label.
func AbcSymbol(label string) (string, bool) {
	s, ok := abcSymbols[label]
	return s, ok
}

// Row is the grid row of a pixel offset. Rows grow downward and
// are negative above the grid.
func Row(top int) int {
	return util.FloorDiv(top-constants.TopPadding, constants.LineSpacing)
}

// Screen rows grow downward while pitch grows upward, so row 0 is B.
func pitchIndex(row int) int {
	return util.FloorMod(11-util.FloorMod(row, 12), 12)
}

func octave(row int) int {
	return constants.BaseOctave - util.FloorDiv(row, 12)
}

// Pitch maps a top offset to a pitch class index and octave.
func Pitch(top int) (int, int, error) {
	row := Row(top)
	idx := pitchIndex(row)
	if idx < 0 || idx >= len(Labels) {
		return 0, 0, fmt.Errorf("%w: %d for top %dpx", ErrPitchOutOfRange, idx, top)
	}
	return idx, octave(row), nil
}

func Duration(width int) int {
	return util.FloorDiv(width, constants.PixelsPerUnit)
}

// FromRectangle derives the pitch, duration and start of a rectangle.
func FromRectangle(r model.Rectangle) (model.ProcessedNote, error) {
	var n model.ProcessedNote

	top, err := util.ParsePx(r.Top)
	if err != nil {
		return n, fmt.Errorf("top: %w", err)
	}
	left, err := util.ParsePx(r.Left)
	if err != nil {
		return n, fmt.Errorf("left: %w", err)
	}
	width, err := util.ParsePx(r.Width)
	if err != nil {
		return n, fmt.Errorf("width: %w", err)
	}

	idx, oct, err := Pitch(top)
	if err != nil {
		return n, err
	}
	symbol, ok := AbcSymbol(Labels[idx])
	if !ok {
		return n, fmt.Errorf("%w: no symbol for %v", ErrPitchOutOfRange, Labels[idx])
	}

	n.Note = symbol + strconv.Itoa(oct)
	n.Duration = Duration(width)
	n.Start = left
	n.PitchClass = idx
	n.Octave = oct
	return n, nil
}

// FromRectangles processes every rectangle, failing on the first bad one.
func FromRectangles(rects []model.Rectangle) ([]model.ProcessedNote, error) {
	res := make([]model.ProcessedNote, 0, len(rects))
	for i, r := range rects {
		n, err := FromRectangle(r)
		if err != nil {
			return nil, fmt.Errorf("rectangle %d: %w", i, err)
		}
		res = append(res, n)
	}
	return res, nil
}
