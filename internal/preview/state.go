// Package preview owns the lifecycle of a single inline file preview.
package preview

import (
	"github.com/kk-code-lab/rpeek/internal/archive"
	"github.com/kk-code-lab/rpeek/internal/filetype"
	"github.com/kk-code-lab/rpeek/internal/model"
)

// Status is the lifecycle position of a preview session.
type Status int

const (
	StatusClosed Status = iota
	StatusIdle
	StatusLoading
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "closed"
	}
}

// State is a snapshot of a session. Text and Entries are only set when
// Status is StatusReady; Err and ErrorMessage only when it is StatusError.
type State struct {
	Status         Status
	Ref            model.FileRef
	Classification filetype.Classification
	Strategy       filetype.Strategy

	Text    string
	Entries []archive.Entry

	Err          error
	ErrorMessage string
}

// HasPayload reports whether fetched content is attached to the state.
func (s State) HasPayload() bool {
	return s.Status == StatusReady && s.Strategy.NeedsFetch()
}

func cloneState(src State) State {
	out := src
	if len(src.Entries) > 0 {
		out.Entries = append([]archive.Entry(nil), src.Entries...)
	}
	return out
}

// UserMessage is the generic failure text shown for a strategy.
func UserMessage(strategy filetype.Strategy) string {
	if strategy == filetype.StrategyArchive {
		return "failed to load archive contents"
	}
	return "failed to load file contents"
}
