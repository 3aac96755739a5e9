// internal/engine/errors.go
package engine

import (
	"errors"

	"github.com/adequatepilot/nav-scoring-sub000/internal/track"
)

// ErrEmptyTrack mirrors track.ErrEmptyTrack at the engine boundary so callers
// only need to match engine errors. Fatal: no valid GPS data to score.
var ErrEmptyTrack = track.ErrEmptyTrack

// ErrStartGateNotFound means no qualifying departure from the start gate was
// detected anywhere in the track. Fatal: without t=0 no leg can be timed.
var ErrStartGateNotFound = errors.New("could not detect departure from start gate")

// ErrInvalidEstimate means a supplied estimate or actual is negative,
// non-finite, or the leg-time list doesn't match the checkpoint count.
// Checked before any computation begins.
var ErrInvalidEstimate = errors.New("invalid flight plan or actuals value")
