package codec

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/scribe/internal/core/report"
)

func TestRuleSetsRoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	sets := []report.RuleSet{
		{
			ID:      "rs1",
			Name:    "UI Review",
			Version: "1.2.0",
			Rules: []report.Rule{
				{ID: "r1", Text: "Check A", Category: "X", Priority: 1},
				{ID: "r2", Text: "Check B", Category: "Y", Description: "long form"},
			},
			CreatedAt: created,
			UpdatedAt: created.Add(time.Hour),
		},
	}

	encoded, err := EncodeRuleSets(sets)
	require.NoError(t, err, "EncodeRuleSets")

	decoded, err := DecodeRuleSets(encoded)
	require.NoError(t, err, "DecodeRuleSets")

	require.Len(t, decoded, 1)
	assert.Equal(t, sets[0].ID, decoded[0].ID)
	assert.Equal(t, sets[0].Rules, decoded[0].Rules)
	assert.True(t, decoded[0].CreatedAt.Equal(created), "CreatedAt must round-trip exactly")
	assert.True(t, decoded[0].UpdatedAt.Equal(created.Add(time.Hour)), "UpdatedAt must round-trip exactly")
}

func TestChecklistRoundTrip(t *testing.T) {
	items := []report.ChecklistItem{
		{ID: "r1", Text: "Check A", Checked: true, Category: "X"},
		{ID: "r2", Text: "Check B"},
	}

	encoded, err := EncodeChecklist(items)
	require.NoError(t, err, "EncodeChecklist")

	decoded, err := DecodeChecklist(encoded)
	require.NoError(t, err, "DecodeChecklist")
	assert.Equal(t, items, decoded)
}

func TestReportAttachmentsAreLossy(t *testing.T) {
	rec := report.ReportRecord{
		IssueKey: "PROJ-1",
		Attachments: []report.Attachment{
			report.NewPendingAttachment("shot.png", "image/png", []byte{0x89, 0x50}),
		},
		Description:   "steps to reproduce",
		Priority:      report.PriorityHigh,
		Category:      "Bug",
		RelatedIssues: []string{"PROJ-2"},
	}

	encoded, err := EncodeReport(rec)
	require.NoError(t, err, "EncodeReport")
	assert.NotContains(t, encoded, "image/png", "payload metadata must not persist")

	decoded, err := DecodeReport(encoded)
	require.NoError(t, err, "DecodeReport")

	assert.Equal(t, rec.IssueKey, decoded.IssueKey)
	assert.Equal(t, rec.Priority, decoded.Priority)
	assert.Equal(t, rec.RelatedIssues, decoded.RelatedIssues)

	require.Len(t, decoded.Attachments, 1)
	got := decoded.Attachments[0]
	assert.Equal(t, "shot.png", got.Name)
	assert.Equal(t, report.AttachmentRestored, got.State(), "decoded attachments are name-only")
	_, ok := got.Payload()
	assert.False(t, ok, "restored attachments must not fabricate payloads")
}

func TestDecodeMalformed(t *testing.T) {
	t.Run("rulesets", func(t *testing.T) {
		_, err := DecodeRuleSets("{not json")
		var decodeErr *DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Equal(t, "rulesets", decodeErr.Family)
	})

	t.Run("report", func(t *testing.T) {
		rec, err := DecodeReport(`["not","an","object"]`)
		var decodeErr *DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Equal(t, "report", decodeErr.Family)
		assert.Equal(t, report.ReportRecord{}, rec, "failed decode must not partially populate")
	})

	t.Run("wrapped parse error is preserved", func(t *testing.T) {
		_, err := DecodeChecklist("???")
		require.Error(t, err)
		assert.True(t, errors.Unwrap(err) != nil, "DecodeError must carry the parse error")
	})
}
