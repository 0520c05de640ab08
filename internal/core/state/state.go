// Package state holds the session's working state: a pure reducer over a
// closed action set, plus a Session orchestrator that mirrors mutations
// into the store as fire-and-forget effects.
package state

import "github.com/colonyops/scribe/internal/core/report"

// State is the in-memory working state for the current session. It is the
// authoritative source for the session; the store holds a best-effort
// mirror.
type State struct {
	RuleSets          []report.RuleSet
	SelectedRuleSetID string
	Checklist         []report.ChecklistItem
	Report            report.ReportRecord

	// GeneratedDoc caches the last generated document. It is derived
	// state: any checklist or report mutation clears it.
	GeneratedDoc string
}

// Effect names a persistence side effect the reducer requests. Effects are
// executed by the Session, never by the reducer itself.
type Effect int

const (
	EffectPersistRuleSets Effect = iota
	EffectPersistChecklist
	EffectPersistReport
)

// Action is the closed set of state transitions.
type Action interface {
	isAction()
}

// SelectRuleSet derives a fresh all-unchecked checklist from the rule set
// with the given ID. Selecting an unknown ID clears the selection.
type SelectRuleSet struct {
	ID string
}

// ClearSelection drops the current rule set selection and its checklist.
type ClearSelection struct{}

// ReplaceChecklist swaps the whole checklist, e.g. after a toggle.
type ReplaceChecklist struct {
	Items []report.ChecklistItem
}

// ReplaceReport swaps the whole report record.
type ReplaceReport struct {
	Record report.ReportRecord
}

// SetGeneratedDocument caches a generated document.
type SetGeneratedDocument struct {
	Text string
}

// ReplaceRuleSets swaps the available rule sets, e.g. after an import.
type ReplaceRuleSets struct {
	Sets []report.RuleSet
}

func (SelectRuleSet) isAction()        {}
func (ClearSelection) isAction()       {}
func (ReplaceChecklist) isAction()     {}
func (ReplaceReport) isAction()        {}
func (SetGeneratedDocument) isAction() {}
func (ReplaceRuleSets) isAction()      {}

// Reduce applies one action and returns the new state plus the effects the
// caller should execute. It never touches the store.
func Reduce(s State, a Action) (State, []Effect) {
	switch act := a.(type) {
	case SelectRuleSet:
		s.SelectedRuleSetID = ""
		s.Checklist = nil
		for _, rs := range s.RuleSets {
			if rs.ID == act.ID {
				s.SelectedRuleSetID = rs.ID
				s.Checklist = report.NewChecklist(rs)
				break
			}
		}
		s.GeneratedDoc = ""
		return s, []Effect{EffectPersistChecklist}

	case ClearSelection:
		s.SelectedRuleSetID = ""
		s.Checklist = nil
		s.GeneratedDoc = ""
		return s, []Effect{EffectPersistChecklist}

	case ReplaceChecklist:
		s.Checklist = act.Items
		s.GeneratedDoc = ""
		return s, []Effect{EffectPersistChecklist}

	case ReplaceReport:
		s.Report = act.Record
		s.GeneratedDoc = ""
		return s, []Effect{EffectPersistReport}

	case SetGeneratedDocument:
		s.GeneratedDoc = act.Text
		return s, nil

	case ReplaceRuleSets:
		s.RuleSets = act.Sets
		return s, []Effect{EffectPersistRuleSets}

	default:
		return s, nil
	}
}
