package chord

import (
	"sort"

	"github.com/andaloo23/music-copilot/model"
)

// SortByStart orders notes left to right. Notes with the same start
// keep their input order.
func SortByStart(notes []model.ProcessedNote) {
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Start < notes[j].Start
	})
}

// Group splits sorted notes into chords of equal start offset.
func Group(sorted []model.ProcessedNote) []model.Chord {
	var chords []model.Chord
	for i := 0; i < len(sorted); {
		j := i + 1
		for j < len(sorted) && sorted[j].Start == sorted[i].Start {
			j++
		}
		chords = append(chords, sorted[i:j])
		i = j
	}
	return chords
}

// Duration of a chord is the duration of its first note; the other
// members don't add to it.
func Duration(c model.Chord) int {
	if len(c) == 0 {
		return 0
	}
	return c[0].Duration
}

// GetChords sorts a copy of notes and groups it.
func GetChords(notes []model.ProcessedNote) []model.Chord {
	sorted := make([]model.ProcessedNote, len(notes))
	copy(sorted, notes)
	SortByStart(sorted)
	return Group(sorted)
}
