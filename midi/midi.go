package midi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/andaloo23/music-copilot/chord"
	"github.com/andaloo23/music-copilot/constants"
	"github.com/andaloo23/music-copilot/model"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

var ErrKeyOutOfRange = errors.New("midi key out of range")

// Key numbers pitches so that C5 is middle C (60).
func Key(n model.ProcessedNote) (uint8, error) {
	key := n.Octave*12 + n.PitchClass
	if key < 0 || key > 127 {
		return 0, fmt.Errorf("%w: %v is %d", ErrKeyOutOfRange, n.Note, key)
	}
	return uint8(key), nil
}

// FromNotes lays chords end to end on a single track, like the ABC
// output does. Every member of a chord sounds for the chord's duration.
func FromNotes(notes []model.ProcessedNote) (*smf.SMF, error) {
	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName("Music Piece"))
	track.Add(0, smf.MetaMeter(4, 4))
	track.Add(0, smf.MetaTempo(120))

	for _, c := range chord.GetChords(notes) {
		duration := chord.Duration(c)
		if duration <= 0 {
			continue
		}

		keys := make([]uint8, 0, len(c))
		for _, n := range c {
			key, err := Key(n)
			if err != nil {
				return nil, err
			}
			keys = append(keys, key)
		}

		for _, key := range keys {
			track.Add(0, gomidi.NoteOn(0, key, constants.DefaultVelocity))
		}
		for i, key := range keys {
			var delta uint32
			if i == 0 {
				delta = uint32(duration * constants.TicksPerUnit)
			}
			track.Add(delta, gomidi.NoteOff(0, key))
		}
	}
	track.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(constants.TicksPerQuarter)
	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("could not add track: %w", err)
	}
	return s, nil
}

// Write renders notes as a standard midi file.
func Write(w io.Writer, notes []model.ProcessedNote) error {
	s, err := FromNotes(notes)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("could not write midi: %w", err)
	}
	return nil
}

// Bytes is Write into a buffer.
func Bytes(notes []model.ProcessedNote) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, notes); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Read(r io.Reader) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if p := recover(); p != nil {
			s, e = nil, fmt.Errorf("error parsing midi file: %v", p)
		}
	}()

	res, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing midi file: %w", err)
	}
	if res == nil {
		return nil, errors.New("error parsing midi file: no data")
	}
	return res, nil
}

func ReadMidiFile(filepath string) (*smf.SMF, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("error reading midi file: %w", err)
	}
	return Read(bytes.NewReader(dat))
}
