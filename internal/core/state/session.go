package state

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/scribe/internal/core/codec"
	"github.com/colonyops/scribe/internal/core/repair"
	"github.com/colonyops/scribe/internal/core/report"
	"github.com/colonyops/scribe/internal/core/storage"
	"github.com/colonyops/scribe/internal/core/validate"
)

// Defaults seeds a fresh report record when the store holds none. Values
// come from the configuration subsystem.
type Defaults struct {
	Priority report.Priority
	Category string
}

// Session wraps the pure reducer with store synchronization. State flows
// outward (state -> store) on every mutating action and inward
// (store -> state) only at Load. Persistence is best-effort: a failed
// write is logged and discarded, never rolled back into the state.
type Session struct {
	store    storage.Adapter
	state    State
	defaults Defaults
	log      zerolog.Logger
}

// NewSession creates a session over the given store.
func NewSession(store storage.Adapter, defaults Defaults, log zerolog.Logger) *Session {
	return &Session{
		store:    store,
		defaults: defaults,
		log:      log,
	}
}

// Load validates the store, repairs it if validation fails, and loads the
// surviving records into memory. The repair result is returned so callers
// can show the audit trail.
func (s *Session) Load() (repair.Result, error) {
	var repaired repair.Result

	check, err := validate.Store(s.store)
	if err != nil {
		return repaired, fmt.Errorf("load session: %w", err)
	}
	if !check.IsValid {
		repaired, err = repair.Run(s.store)
		if err != nil {
			return repaired, fmt.Errorf("load session: %w", err)
		}
		for _, action := range repaired.Actions {
			s.log.Warn().Str("action", action).Msg("repaired persisted state")
		}
	}

	st := State{Report: report.ReportRecord{
		Priority: s.defaults.Priority,
		Category: s.defaults.Category,
	}}

	if raw, ok, err := s.store.Get(storage.KeyRuleSets); err != nil {
		return repaired, fmt.Errorf("load session: %w", err)
	} else if ok {
		sets, err := codec.DecodeRuleSets(raw)
		if err != nil {
			return repaired, fmt.Errorf("load session: %w", err)
		}
		st.RuleSets = sets
	}

	if raw, ok, err := s.store.Get(storage.KeyChecklist); err != nil {
		return repaired, fmt.Errorf("load session: %w", err)
	} else if ok {
		items, err := codec.DecodeChecklist(raw)
		if err != nil {
			return repaired, fmt.Errorf("load session: %w", err)
		}
		st.Checklist = items
	}

	if raw, ok, err := s.store.Get(storage.KeyReport); err != nil {
		return repaired, fmt.Errorf("load session: %w", err)
	} else if ok {
		rec, err := codec.DecodeReport(raw)
		if err != nil {
			return repaired, fmt.Errorf("load session: %w", err)
		}
		st.Report = rec
	}

	s.state = st
	return repaired, nil
}

// State returns a snapshot of the current working state.
func (s *Session) State() State {
	return s.state
}

// Dispatch applies an action to the state and executes its persistence
// effects. The state update always wins: effect failures are logged, the
// in-memory change stands.
func (s *Session) Dispatch(a Action) {
	next, effects := Reduce(s.state, a)
	s.state = next

	for _, effect := range effects {
		if err := s.runEffect(effect); err != nil {
			var quota *storage.QuotaExceededError
			if errors.As(err, &quota) {
				s.log.Warn().Err(err).Msg("store quota exceeded, in-memory state unaffected")
				continue
			}
			s.log.Error().Err(err).Msg("persist failed, in-memory state unaffected")
		}
	}
}

// ClearAll resets the working state and removes every persisted key.
func (s *Session) ClearAll() error {
	s.state = State{Report: report.ReportRecord{
		Priority: s.defaults.Priority,
		Category: s.defaults.Category,
	}}

	for _, key := range storage.Keys() {
		if err := s.store.Remove(key); err != nil {
			return fmt.Errorf("clear all: %w", err)
		}
	}
	return nil
}

func (s *Session) runEffect(effect Effect) error {
	switch effect {
	case EffectPersistRuleSets:
		encoded, err := codec.EncodeRuleSets(s.state.RuleSets)
		if err != nil {
			return err
		}
		return s.store.Set(storage.KeyRuleSets, encoded)

	case EffectPersistChecklist:
		encoded, err := codec.EncodeChecklist(s.state.Checklist)
		if err != nil {
			return err
		}
		return s.store.Set(storage.KeyChecklist, encoded)

	case EffectPersistReport:
		encoded, err := codec.EncodeReport(s.state.Report)
		if err != nil {
			return err
		}
		return s.store.Set(storage.KeyReport, encoded)

	default:
		return fmt.Errorf("unknown effect %d", effect)
	}
}
