package midi

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/andaloo23/music-copilot/model"
	"github.com/stretchr/testify/assert"
	"gitlab.com/gomidi/midi/v2/smf"
)

type noteOn struct {
	tick int64
	key  uint8
}

func noteOns(s *smf.SMF) []noteOn {
	var res []noteOn
	for _, track := range s.Tracks {
		var absTicks int64
		for _, evt := range track {
			absTicks += int64(evt.Delta)
			var ch, key, vel uint8
			if evt.Message.GetNoteOn(&ch, &key, &vel) {
				res = append(res, noteOn{tick: absTicks, key: key})
			}
		}
	}
	return res
}

func lastTick(s *smf.SMF) int64 {
	var absTicks int64
	for _, evt := range s.Tracks[0] {
		absTicks += int64(evt.Delta)
	}
	return absTicks
}

var sampleNotes = []model.ProcessedNote{
	{Note: "G5", Duration: 1, Start: 40, PitchClass: 7, Octave: 5},
	{Note: "C5", Duration: 2, Start: 0, PitchClass: 0, Octave: 5},
	{Note: "E5", Duration: 2, Start: 0, PitchClass: 4, Octave: 5},
	{Note: "B5", Duration: 0, Start: 20, PitchClass: 11, Octave: 5},
}

func TestKey(t *testing.T) {
	assert := assert.New(t)

	key, err := Key(model.ProcessedNote{Note: "C5", PitchClass: 0, Octave: 5})
	assert.NoError(err)
	assert.Equal(uint8(60), key)

	key, err = Key(model.ProcessedNote{Note: "_B4", PitchClass: 10, Octave: 4})
	assert.NoError(err)
	assert.Equal(uint8(58), key)

	_, err = Key(model.ProcessedNote{Note: "C11", PitchClass: 0, Octave: 11})
	assert.ErrorIs(err, ErrKeyOutOfRange)
}

func TestWriteAndReadBack(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, sampleNotes)
	assert.NoError(t, err)

	s, err := Read(bytes.NewReader(buf.Bytes()))
	assert.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(smf.MetricTicks(96), s.TimeFormat)
	assert.Equal([]noteOn{{0, 60}, {0, 64}, {96, 67}}, noteOns(s))
	assert.Equal(int64(144), lastTick(s))
}

func TestEmptyNotesStillWriteAFile(t *testing.T) {
	b, err := Bytes(nil)
	assert.NoError(t, err)

	s, err := Read(bytes.NewReader(b))
	assert.NoError(t, err)
	assert.Empty(t, noteOns(s))
}

func TestOutOfRangeFailsWholeExport(t *testing.T) {
	_, err := Bytes([]model.ProcessedNote{{Note: "C11", Duration: 1, Octave: 11}})
	assert.ErrorIs(t, err, ErrKeyOutOfRange)
}

func TestReadMidiFile(t *testing.T) {
	b, err := Bytes(sampleNotes)
	assert.NoError(t, err)

	path := filepath.Join(t.TempDir(), "tune.mid")
	assert.NoError(t, os.WriteFile(path, b, 0644))

	s, err := ReadMidiFile(path)
	assert.NoError(t, err)
	assert.Len(t, noteOns(s), 3)

	_, err = ReadMidiFile(filepath.Join(t.TempDir(), "missing.mid"))
	assert.Error(t, err)
}

func TestReadCorruptedNeverReturnsNil(t *testing.T) {
	valid, err := Bytes(sampleNotes)
	assert.NoError(t, err)

	for i := range valid {
		for _, b := range []byte{0x00, 0x07, 0x7f, 0x80, 0xa1, 0xff} {
			corrupted := append([]byte(nil), valid...)
			corrupted[i] = b

			s, err := Read(bytes.NewReader(corrupted))
			if err == nil && s == nil {
				t.Fatalf("byte %d set to %#x: no smf and no error", i, b)
			}
		}
	}

	for n := 0; n < len(valid); n++ {
		s, err := Read(bytes.NewReader(valid[:n]))
		if err == nil && s == nil {
			t.Fatalf("truncated to %d bytes: no smf and no error", n)
		}
	}
}
