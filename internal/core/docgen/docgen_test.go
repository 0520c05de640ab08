package docgen

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/scribe/internal/core/report"
)

func fixedClock() *Generator {
	g := New()
	g.Now = func() time.Time { return time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC) }
	return g
}

func TestGenerateDeterministic(t *testing.T) {
	g := fixedClock()
	items := []report.ChecklistItem{
		{ID: "r1", Text: "Check A", Checked: true, Category: "X"},
		{ID: "r2", Text: "Check B", Category: "Y"},
	}
	rec := report.ReportRecord{IssueKey: "PROJ-1", Priority: report.PriorityHigh, Category: "Bug"}

	first := g.Generate(items, rec)
	second := g.Generate(items, rec)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("generate is not deterministic (-first +second):\n%s", diff)
	}
}

func TestGenerateSingleMarkerDiff(t *testing.T) {
	g := fixedClock()
	items := []report.ChecklistItem{
		{ID: "r1", Text: "Check A", Category: "X"},
		{ID: "r2", Text: "Check B", Category: "X"},
	}
	rec := report.ReportRecord{Priority: report.PriorityLow}

	before := g.Generate(items, rec)

	items[0].Checked = true
	after := g.Generate(items, rec)

	require.Equal(t, len(before), len(after), "only a marker character may change")
	diffs := 0
	for i := range before {
		if before[i] != after[i] {
			diffs++
			assert.Equal(t, byte(' '), before[i])
			assert.Equal(t, byte('x'), after[i])
		}
	}
	assert.Equal(t, 1, diffs, "exactly one character differs")
}

func TestGenerateScenario(t *testing.T) {
	g := fixedClock()
	items := []report.ChecklistItem{
		{ID: "r1", Text: "Check A", Checked: true, Category: "X"},
	}
	rec := report.ReportRecord{
		IssueKey: "PROJ-1",
		Priority: report.PriorityHigh,
		Category: "Bug",
	}

	doc := g.Generate(items, rec)

	assert.True(t, strings.HasPrefix(doc, "# バグレポート\n"), "fixed top-level heading")
	assert.Contains(t, doc, "## 基本情報")
	assert.Contains(t, doc, "* **課題番号**: PROJ-1")
	assert.Contains(t, doc, "* **優先度**: 高")
	assert.Contains(t, doc, "* **カテゴリ**: Bug")
	assert.Contains(t, doc, "* **作成日時**: 2026-08-29 10:30:00")
	assert.Contains(t, doc, "### X\n* [x] Check A")
	assert.Contains(t, doc, "添付ファイルはありません。")
	assert.Contains(t, doc, "詳細説明はありません。")
	assert.NotContains(t, doc, "## 関連課題", "no related-issues section without related issues")
}

func TestGenerateCategoryGrouping(t *testing.T) {
	g := fixedClock()
	items := []report.ChecklistItem{
		{ID: "r1", Text: "First Y", Category: "Y"},
		{ID: "r2", Text: "No category"},
		{ID: "r3", Text: "First X", Category: "X"},
		{ID: "r4", Text: "Second Y", Category: "Y"},
	}

	doc := g.Generate(items, report.ReportRecord{Priority: report.PriorityLow})

	yIdx := strings.Index(doc, "### Y")
	defaultIdx := strings.Index(doc, "### その他")
	xIdx := strings.Index(doc, "### X")
	require.True(t, yIdx > 0 && defaultIdx > 0 && xIdx > 0, "all category headings present")
	assert.Less(t, yIdx, defaultIdx, "first-seen order")
	assert.Less(t, defaultIdx, xIdx, "first-seen order")

	ySection := doc[yIdx:defaultIdx]
	assert.Contains(t, ySection, "First Y")
	assert.Contains(t, ySection, "Second Y", "same-category items group together")
}

func TestGenerateOptionalSections(t *testing.T) {
	g := fixedClock()

	t.Run("filled sections replace placeholders", func(t *testing.T) {
		rec := report.ReportRecord{
			Priority:    report.PriorityMedium,
			Description: "It crashes on save.",
			Attachments: []report.Attachment{
				report.NewPendingAttachment("crash.png", "image/png", []byte{1}),
				report.RestoredAttachment("log.txt"),
			},
			RelatedIssues: []string{"PROJ-2", "", "PROJ-3"},
		}

		doc := g.Generate(nil, rec)

		assert.Contains(t, doc, "* crash.png")
		assert.Contains(t, doc, "* log.txt")
		assert.NotContains(t, doc, "添付ファイルはありません。")
		assert.Contains(t, doc, "It crashes on save.")
		assert.Contains(t, doc, "## 関連課題")
		assert.Contains(t, doc, "[[PROJ-2]] [[PROJ-3]]", "empty related ids are skipped")
	})

	t.Run("blank related ids suppress the section", func(t *testing.T) {
		doc := g.Generate(nil, report.ReportRecord{
			Priority:      report.PriorityMedium,
			RelatedIssues: []string{"", "  "},
		})
		assert.NotContains(t, doc, "## 関連課題")
	})

	t.Run("section count is stable", func(t *testing.T) {
		empty := g.Generate(nil, report.ReportRecord{Priority: report.PriorityLow})
		full := g.Generate(
			[]report.ChecklistItem{{ID: "r1", Text: "Check A", Category: "X"}},
			report.ReportRecord{Priority: report.PriorityLow, Description: "text"},
		)
		assert.Equal(t, strings.Count(empty, "-----"), strings.Count(full, "-----"))
	})
}

func TestGenerateTimestampWindow(t *testing.T) {
	// Two calls inside the same second produce identical output even with a
	// live clock reading.
	g := New()
	base := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	ns := 0
	g.Now = func() time.Time {
		ns += 1000
		return base.Add(time.Duration(ns))
	}

	rec := report.ReportRecord{Priority: report.PriorityLow}
	assert.Equal(t, g.Generate(nil, rec), g.Generate(nil, rec))
}
