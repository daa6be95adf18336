package model

// Rectangle is a note block as positioned by the frontend, e.g.
// {"top": "121px", "left": "46px", "width": "24px"}.
type Rectangle struct {
	Top   string `json:"top"`
	Left  string `json:"left"`
	Width string `json:"width"`

	// NOTE: sent by the frontend but not used for conversion
	Note   string `json:"note,omitempty"`
	Octave string `json:"octave,omitempty"`
}

type ProcessedNote struct {
	Note     string `json:"note"`
	Duration int    `json:"duration"`
	Start    int    `json:"start"`

	PitchClass int `json:"-"`
	Octave     int `json:"-"`
}

// Notes sharing a start offset, in input order.
type Chord = []ProcessedNote
