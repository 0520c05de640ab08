package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/scribe/internal/core/codec"
	"github.com/colonyops/scribe/internal/core/report"
	"github.com/colonyops/scribe/internal/core/storage"
	"github.com/colonyops/scribe/internal/store/memstore"
)

func TestStoreCleanWritePaths(t *testing.T) {
	st := memstore.New()

	sets := []report.RuleSet{{
		ID:      "rs1",
		Name:    "Review",
		Version: "1.0.0",
		Rules:   []report.Rule{{ID: "r1", Text: "Check A", Category: "X"}},
	}}
	encoded, err := codec.EncodeRuleSets(sets)
	require.NoError(t, err)
	require.NoError(t, st.Set(storage.KeyRuleSets, encoded))

	encoded, err = codec.EncodeChecklist(report.NewChecklist(sets[0]))
	require.NoError(t, err)
	require.NoError(t, st.Set(storage.KeyChecklist, encoded))

	encoded, err = codec.EncodeReport(report.ReportRecord{
		IssueKey: "PROJ-1",
		Priority: report.PriorityMedium,
		Category: "Bug",
	})
	require.NoError(t, err)
	require.NoError(t, st.Set(storage.KeyReport, encoded))

	res, err := Store(st)
	require.NoError(t, err)
	assert.True(t, res.IsValid, "documented write paths must validate clean, got %v", res.Errors)
	assert.Empty(t, res.Errors)
}

func TestStoreEmptyIsValid(t *testing.T) {
	res, err := Store(memstore.New())
	require.NoError(t, err)
	assert.True(t, res.IsValid, "absent keys are not defects")
}

func TestRuleSetsText(t *testing.T) {
	t.Run("scalar container", func(t *testing.T) {
		res := RuleSetsText(`"not an array"`)
		assert.False(t, res.IsValid)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, report.ErrorType, res.Errors[0].Kind)
	})

	t.Run("empty rules array", func(t *testing.T) {
		res := RuleSetsText(`[{"id":"rs1","name":"Empty","version":"1.0.0","rules":[]}]`)
		assert.False(t, res.IsValid)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, report.ErrorSize, res.Errors[0].Kind)
		assert.Equal(t, "rulesets[0].rules", res.Errors[0].FieldPath)
	})

	t.Run("rules not an array", func(t *testing.T) {
		res := RuleSetsText(`[{"id":"rs1","name":"Bad","rules":"oops"}]`)
		assert.False(t, res.IsValid)
		assert.Equal(t, "rulesets[0].rules", res.Errors[0].FieldPath)
	})

	t.Run("missing rule fields", func(t *testing.T) {
		res := RuleSetsText(`[{"id":"rs1","name":"Partial","rules":[{"id":"r1","text":"","category":"X"}]}]`)
		assert.False(t, res.IsValid)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, report.ErrorRequired, res.Errors[0].Kind)
		assert.Equal(t, "rulesets[0].rules[0].text", res.Errors[0].FieldPath)
	})
}

func TestChecklistText(t *testing.T) {
	t.Run("checked must be strictly boolean", func(t *testing.T) {
		res := ChecklistText(`[{"id":"r1","text":"Check A","checked":"true"}]`)
		assert.False(t, res.IsValid)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, report.ErrorType, res.Errors[0].Kind)
		assert.Equal(t, "checklist[0].checked", res.Errors[0].FieldPath)
	})

	t.Run("valid item", func(t *testing.T) {
		res := ChecklistText(`[{"id":"r1","text":"Check A","checked":false,"category":"X"}]`)
		assert.True(t, res.IsValid, "got %v", res.Errors)
	})

	t.Run("non-object element", func(t *testing.T) {
		res := ChecklistText(`[42]`)
		assert.False(t, res.IsValid)
	})
}

func TestReportText(t *testing.T) {
	t.Run("priority outside enum", func(t *testing.T) {
		res := ReportText(`{"issueKey":"PROJ-1","attachments":[],"description":"","priority":"urgent","category":"Bug"}`)
		assert.False(t, res.IsValid)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0].Message, "urgent")
	})

	t.Run("wrong-typed priority", func(t *testing.T) {
		res := ReportText(`{"issueKey":"PROJ-1","attachments":[],"description":"","priority":3,"category":"Bug"}`)
		assert.False(t, res.IsValid)
	})

	t.Run("issue key format", func(t *testing.T) {
		res := ReportText(`{"issueKey":"lowercase-1","attachments":[],"description":"","priority":"low","category":""}`)
		assert.False(t, res.IsValid)
		assert.Equal(t, report.ErrorFormat, res.Errors[0].Kind)
	})

	t.Run("empty issue key is allowed", func(t *testing.T) {
		res := ReportText(`{"issueKey":"","attachments":[],"description":"","priority":"low","category":""}`)
		assert.True(t, res.IsValid, "got %v", res.Errors)
	})

	t.Run("attachments must be an array of strings", func(t *testing.T) {
		res := ReportText(`{"issueKey":"","attachments":[1,2],"description":"","priority":"low","category":""}`)
		assert.False(t, res.IsValid)
	})

	t.Run("corrupted text", func(t *testing.T) {
		res := ReportText(`not valid structured text`)
		assert.False(t, res.IsValid)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, report.ErrorType, res.Errors[0].Kind)
	})
}

func TestIssueKey(t *testing.T) {
	assert.NoError(t, IssueKey("PROJ-42"))
	assert.Error(t, IssueKey(""))
	assert.Error(t, IssueKey("proj-42"))
	assert.Error(t, IssueKey("PROJ42"))
}
