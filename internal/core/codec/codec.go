// Package codec encodes and decodes record families to and from the UTF-8
// JSON text held by the store. Time fields round-trip via RFC 3339.
// Attachment payloads are encoded name-only: decoding yields restored
// (name-only) attachments, never fabricated binaries.
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/colonyops/scribe/internal/core/report"
)

// DecodeError reports malformed persisted text for a record family. The
// decoder never partially populates a record: on error the result is the
// zero value.
type DecodeError struct {
	Family string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Family, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// wireReport is the persisted shape of a ReportRecord. Attachments decay
// to names; the binary payload has process lifetime only.
type wireReport struct {
	IssueKey      string          `json:"issueKey"`
	Attachments   []string        `json:"attachments"`
	Description   string          `json:"description"`
	Priority      report.Priority `json:"priority"`
	Category      string          `json:"category"`
	RelatedIssues []string        `json:"relatedIssues,omitempty"`
}

// EncodeRuleSets serializes rule sets to store text.
func EncodeRuleSets(sets []report.RuleSet) (string, error) {
	if sets == nil {
		sets = []report.RuleSet{}
	}
	return marshal("rulesets", sets)
}

// DecodeRuleSets parses store text into rule sets.
func DecodeRuleSets(raw string) ([]report.RuleSet, error) {
	var sets []report.RuleSet
	if err := json.Unmarshal([]byte(raw), &sets); err != nil {
		return nil, &DecodeError{Family: "rulesets", Err: err}
	}
	return sets, nil
}

// EncodeChecklist serializes checklist items to store text.
func EncodeChecklist(items []report.ChecklistItem) (string, error) {
	if items == nil {
		items = []report.ChecklistItem{}
	}
	return marshal("checklist", items)
}

// DecodeChecklist parses store text into checklist items.
func DecodeChecklist(raw string) ([]report.ChecklistItem, error) {
	var items []report.ChecklistItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, &DecodeError{Family: "checklist", Err: err}
	}
	return items, nil
}

// EncodeReport serializes a report record to store text. Attachment
// payloads are dropped; only names are written.
func EncodeReport(rec report.ReportRecord) (string, error) {
	return marshal("report", toWire(rec))
}

// DecodeReport parses store text into a report record. Attachments come
// back in the restored state: name only, no payload.
func DecodeReport(raw string) (report.ReportRecord, error) {
	var w wireReport
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return report.ReportRecord{}, &DecodeError{Family: "report", Err: err}
	}
	return fromWire(w), nil
}

func toWire(rec report.ReportRecord) wireReport {
	names := rec.AttachmentNames()
	if names == nil {
		names = []string{}
	}
	return wireReport{
		IssueKey:      rec.IssueKey,
		Attachments:   names,
		Description:   rec.Description,
		Priority:      rec.Priority,
		Category:      rec.Category,
		RelatedIssues: rec.RelatedIssues,
	}
}

func fromWire(w wireReport) report.ReportRecord {
	attachments := make([]report.Attachment, 0, len(w.Attachments))
	for _, name := range w.Attachments {
		attachments = append(attachments, report.RestoredAttachment(name))
	}
	return report.ReportRecord{
		IssueKey:      w.IssueKey,
		Attachments:   attachments,
		Description:   w.Description,
		Priority:      w.Priority,
		Category:      w.Category,
		RelatedIssues: w.RelatedIssues,
	}
}

func marshal(family string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", family, err)
	}
	return string(data), nil
}
