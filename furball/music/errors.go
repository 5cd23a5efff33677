package music

import "errors"

const (
	MaxInstruments = 254
	MaxWavetables  = 255
	MaxSpeeds      = 16
	MaxOrderLength = 256
	MaxPatternRows = 256
)

var (
	ErrTooManyInstruments   = errors.New("too many instruments")
	ErrTooManyWavetables    = errors.New("too many wavetables")
	ErrUnsupportedWavetable = errors.New("unsupported wavetable")
	ErrInvalidNote          = errors.New("invalid note")
	ErrInvalidEffect        = errors.New("invalid effect")
	ErrOrderLength          = errors.New("order lists differ in length")
	ErrPatternLength        = errors.New("invalid pattern length")
	ErrTooManyEffects       = errors.New("too many effects on a row")
	ErrInvalidSpeeds        = errors.New("invalid speed table")
	ErrInvalidTempo         = errors.New("invalid virtual tempo")
	ErrUnknownPattern       = errors.New("unknown pattern")
	ErrUnknownInstrument    = errors.New("unknown instrument kind")
)
