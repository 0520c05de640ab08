// Package docgen renders the final markdown document from a checklist and
// a report record. Output is deterministic for identical inputs except for
// one embedded wall-clock timestamp in the basic-information block.
package docgen

import (
	"strings"
	"time"

	"github.com/colonyops/scribe/internal/core/report"
)

// Fixed document structure. Empty optional sections render a placeholder
// sentence instead of disappearing, so the section count stays stable;
// only the related-issues section is conditional.
const (
	title = "# バグレポート"

	sectionBasicInfo   = "## 基本情報"
	sectionChecklist   = "## チェックリスト結果"
	sectionAttachments = "## 添付ファイル"
	sectionDescription = "## 詳細説明"
	sectionRelated     = "## 関連課題"

	labelIssueKey  = "課題番号"
	labelPriority  = "優先度"
	labelCategory  = "カテゴリ"
	labelTimestamp = "作成日時"

	placeholderAttachments = "添付ファイルはありません。"
	placeholderDescription = "詳細説明はありません。"
	placeholderChecklist   = "チェック項目はありません。"

	defaultCategory = "その他"
	separator       = "-----"

	timestampLayout = "2006-01-02 15:04:05"
)

// priorityLabels is the closed three-entry lookup from priority values to
// their display form.
var priorityLabels = map[report.Priority]string{
	report.PriorityLow:    "低",
	report.PriorityMedium: "中",
	report.PriorityHigh:   "高",
}

// Generator renders documents. Now is injectable so tests can pin the
// embedded timestamp.
type Generator struct {
	Now func() time.Time
}

// New creates a Generator using the wall clock.
func New() *Generator {
	return &Generator{Now: time.Now}
}

// Generate renders the report document.
func (g *Generator) Generate(items []report.ChecklistItem, rec report.ReportRecord) string {
	var b strings.Builder

	b.WriteString(title + "\n\n")

	g.writeBasicInfo(&b, rec)
	b.WriteString(separator + "\n")
	writeChecklist(&b, items)
	b.WriteString(separator + "\n")
	writeAttachments(&b, rec)
	b.WriteString(separator + "\n")
	writeDescription(&b, rec)
	writeRelatedIssues(&b, rec)

	return b.String()
}

func (g *Generator) writeBasicInfo(b *strings.Builder, rec report.ReportRecord) {
	b.WriteString(sectionBasicInfo + "\n")
	b.WriteString("* **" + labelIssueKey + "**: " + rec.IssueKey + "\n")
	b.WriteString("* **" + labelPriority + "**: " + priorityLabel(rec.Priority) + "\n")
	b.WriteString("* **" + labelCategory + "**: " + rec.Category + "\n")
	b.WriteString("* **" + labelTimestamp + "**: " + g.Now().Format(timestampLayout) + "\n")
}

// writeChecklist groups items by category in first-seen order. Items with
// no category fall into the fixed default bucket.
func writeChecklist(b *strings.Builder, items []report.ChecklistItem) {
	b.WriteString(sectionChecklist + "\n")

	if len(items) == 0 {
		b.WriteString(placeholderChecklist + "\n")
		return
	}

	var order []string
	grouped := make(map[string][]report.ChecklistItem)
	for _, item := range items {
		cat := item.Category
		if cat == "" {
			cat = defaultCategory
		}
		if _, seen := grouped[cat]; !seen {
			order = append(order, cat)
		}
		grouped[cat] = append(grouped[cat], item)
	}

	for _, cat := range order {
		b.WriteString("### " + cat + "\n")
		for _, item := range grouped[cat] {
			marker := " "
			if item.Checked {
				marker = "x"
			}
			b.WriteString("* [" + marker + "] " + item.Text + "\n")
		}
	}
}

func writeAttachments(b *strings.Builder, rec report.ReportRecord) {
	b.WriteString(sectionAttachments + "\n")

	if len(rec.Attachments) == 0 {
		b.WriteString(placeholderAttachments + "\n")
		return
	}
	for _, name := range rec.AttachmentNames() {
		b.WriteString("* " + name + "\n")
	}
}

func writeDescription(b *strings.Builder, rec report.ReportRecord) {
	b.WriteString(sectionDescription + "\n")

	if strings.TrimSpace(rec.Description) == "" {
		b.WriteString(placeholderDescription + "\n")
		return
	}
	b.WriteString(rec.Description + "\n")
}

// writeRelatedIssues emits the only conditional section: it appears when
// at least one non-empty related issue identifier exists.
func writeRelatedIssues(b *strings.Builder, rec report.ReportRecord) {
	var tokens []string
	for _, id := range rec.RelatedIssues {
		if strings.TrimSpace(id) == "" {
			continue
		}
		tokens = append(tokens, "[["+id+"]]")
	}
	if len(tokens) == 0 {
		return
	}

	b.WriteString(separator + "\n")
	b.WriteString(sectionRelated + "\n")
	b.WriteString(strings.Join(tokens, " ") + "\n")
}

func priorityLabel(p report.Priority) string {
	if label, ok := priorityLabels[p]; ok {
		return label
	}
	return string(p)
}
