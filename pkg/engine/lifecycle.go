package engine

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/pkg/state"
)

// Phase is the initialization state of a Form.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInitializing
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseInitializing:
		return "initializing"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Phase reports the current lifecycle phase.
func (f *Form) Phase() Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

// Init rebuilds the value object from prior state: required paths are seeded
// from carried-over values or their defaults, and carried-over list entries
// become the active optional fields. Calling Init while the same form is
// initializing returns ErrInitializing and leaves the form untouched.
func (f *Form) Init(prior map[string]any) error {
	f.mu.Lock()
	if f.phase == PhaseInitializing {
		f.mu.Unlock()
		f.cfg.logger.Debug("engine: rejected re-entrant init", zap.String("prefix", f.cfg.prefix))
		return ErrInitializing
	}
	f.phase = PhaseInitializing
	f.mu.Unlock()

	values := state.New(prior)
	f.required.seed(values)
	if f.optional.listPath != "" {
		f.optional.normalise(values)
	}

	f.mu.Lock()
	f.values = values
	f.phase = PhaseReady
	f.mu.Unlock()
	return nil
}

// Reset discards every entered value and reseeds the form from defaults. All
// optional fields become inactive.
func (f *Form) Reset() error {
	return f.Init(nil)
}
