// Package metrics records spell-check observability data. Components take a
// Recorder; NoopRecorder is used when metrics are not configured.
package metrics

import (
	"time"

	"github.com/NivBraz/speller/pkg/wordset"
)

// Phase names the timed stages of a run.
type Phase string

const (
	PhaseLoad   Phase = "load"
	PhaseCheck  Phase = "check"
	PhaseSize   Phase = "size"
	PhaseUnload Phase = "unload"
)

type Recorder interface {
	ObservePhaseDuration(phase Phase, d time.Duration)
	AddWordsLoaded(n int)
	AddChecks(hits, misses int)
	IncTextResult(success bool)
	SetTableStats(s wordset.Stats)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObservePhaseDuration(Phase, time.Duration) {}
func (NoopRecorder) AddWordsLoaded(int)                        {}
func (NoopRecorder) AddChecks(int, int)                        {}
func (NoopRecorder) IncTextResult(bool)                        {}
func (NoopRecorder) SetTableStats(wordset.Stats)               {}
