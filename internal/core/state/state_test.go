package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/scribe/internal/core/report"
)

func sampleRuleSet() report.RuleSet {
	return report.RuleSet{
		ID:      "rs1",
		Name:    "Release Checks",
		Version: "1.0.0",
		Rules: []report.Rule{
			{ID: "r1", Text: "Check A", Category: "X"},
			{ID: "r2", Text: "Check B", Category: "Y"},
			{ID: "r3", Text: "Check C", Category: "X"},
		},
	}
}

func TestReduceSelectRuleSet(t *testing.T) {
	rs := sampleRuleSet()
	initial := State{RuleSets: []report.RuleSet{rs}, GeneratedDoc: "stale"}

	next, effects := Reduce(initial, SelectRuleSet{ID: "rs1"})

	assert.Equal(t, "rs1", next.SelectedRuleSetID)
	assert.Equal(t, []Effect{EffectPersistChecklist}, effects)
	assert.Empty(t, next.GeneratedDoc)

	require.Len(t, next.Checklist, len(rs.Rules), "one item per rule")
	for i, item := range next.Checklist {
		assert.Equal(t, rs.Rules[i].ID, item.ID, "same order, same ids")
		assert.Equal(t, rs.Rules[i].Text, item.Text)
		assert.Equal(t, rs.Rules[i].Category, item.Category)
		assert.False(t, item.Checked, "derived items start unchecked")
	}
}

func TestReduceSelectUnknownRuleSet(t *testing.T) {
	initial := State{
		RuleSets:          []report.RuleSet{sampleRuleSet()},
		SelectedRuleSetID: "rs1",
		Checklist:         []report.ChecklistItem{{ID: "r1", Checked: true}},
	}

	next, effects := Reduce(initial, SelectRuleSet{ID: "nope"})

	assert.Empty(t, next.SelectedRuleSetID, "unknown id clears the selection")
	assert.Empty(t, next.Checklist)
	assert.Equal(t, []Effect{EffectPersistChecklist}, effects)
}

func TestReduceClearSelection(t *testing.T) {
	initial := State{
		SelectedRuleSetID: "rs1",
		Checklist:         []report.ChecklistItem{{ID: "r1"}},
		GeneratedDoc:      "doc",
	}

	next, effects := Reduce(initial, ClearSelection{})

	assert.Empty(t, next.SelectedRuleSetID)
	assert.Empty(t, next.Checklist)
	assert.Empty(t, next.GeneratedDoc)
	assert.Equal(t, []Effect{EffectPersistChecklist}, effects)
}

func TestReduceClearsGeneratedDoc(t *testing.T) {
	base := State{GeneratedDoc: "doc"}

	t.Run("checklist mutation", func(t *testing.T) {
		next, effects := Reduce(base, ReplaceChecklist{Items: []report.ChecklistItem{{ID: "r1", Checked: true}}})
		assert.Empty(t, next.GeneratedDoc)
		assert.Equal(t, []Effect{EffectPersistChecklist}, effects)
	})

	t.Run("report mutation", func(t *testing.T) {
		next, effects := Reduce(base, ReplaceReport{Record: report.ReportRecord{IssueKey: "PROJ-1"}})
		assert.Empty(t, next.GeneratedDoc)
		assert.Equal(t, []Effect{EffectPersistReport}, effects)
		assert.Equal(t, "PROJ-1", next.Report.IssueKey)
	})

	t.Run("rule set replacement keeps it", func(t *testing.T) {
		next, effects := Reduce(base, ReplaceRuleSets{Sets: []report.RuleSet{sampleRuleSet()}})
		assert.Equal(t, "doc", next.GeneratedDoc)
		assert.Equal(t, []Effect{EffectPersistRuleSets}, effects)
	})
}

func TestReduceSetGeneratedDocument(t *testing.T) {
	next, effects := Reduce(State{}, SetGeneratedDocument{Text: "# doc"})
	assert.Equal(t, "# doc", next.GeneratedDoc)
	assert.Empty(t, effects, "caching the document persists nothing")
}

func TestReduceIsPure(t *testing.T) {
	initial := State{RuleSets: []report.RuleSet{sampleRuleSet()}}

	_, _ = Reduce(initial, SelectRuleSet{ID: "rs1"})

	assert.Empty(t, initial.SelectedRuleSetID, "input state is not mutated")
	assert.Empty(t, initial.Checklist)
}
