// Package report defines the domain types for an in-progress issue report:
// rule sets, checklists derived from them, and the report record itself.
package report

import (
	"regexp"
	"time"
)

var issueKeyPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]*-[0-9]+$`)

// ValidIssueKey reports whether key matches the PROJECT-NUMBER convention
// expected by the external tracker (e.g. "PROJ-42").
func ValidIssueKey(key string) bool {
	return issueKeyPattern.MatchString(key)
}

// Priority is the closed three-value priority of a report record.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the three allowed values.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Rule is a single evaluation rule within a RuleSet. Rules are immutable
// once a RuleSet snapshot has been used to derive a checklist.
type Rule struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Category    string `json:"category"`
	Priority    int    `json:"priority,omitempty"`
	Description string `json:"description,omitempty"`
}

// RuleSet is a named, versioned collection of rules. RuleSets are mutated
// only by whole-record replacement; there are no partial rule edits.
type RuleSet struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Version     string    `json:"version"`
	Rules       []Rule    `json:"rules"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ChecklistItem is a session-local copy of a rule, derived at selection time.
// Edits to the originating RuleSet never retroactively affect it. The only
// mutation is toggling Checked.
type ChecklistItem struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Checked  bool   `json:"checked"`
	Category string `json:"category,omitempty"`
}

// NewChecklist derives a fresh checklist from a RuleSet, one item per rule,
// same order, all unchecked.
func NewChecklist(rs RuleSet) []ChecklistItem {
	items := make([]ChecklistItem, 0, len(rs.Rules))
	for _, r := range rs.Rules {
		items = append(items, ChecklistItem{
			ID:       r.ID,
			Text:     r.Text,
			Category: r.Category,
		})
	}
	return items
}

// AttachmentState distinguishes attachments captured in this process from
// attachments whose payload was lost across a reload.
type AttachmentState string

const (
	// AttachmentPending means the binary payload is held in memory and can
	// be submitted to the tracker.
	AttachmentPending AttachmentState = "pending"
	// AttachmentRestored means only the name survived a reload; the payload
	// must be re-supplied before submission.
	AttachmentRestored AttachmentState = "restored"
)

// Attachment is a binary blob attached to a report. Payloads have process
// lifetime only: persistence keeps the name, never the bytes.
type Attachment struct {
	Name     string
	Size     int64
	MimeType string

	state   AttachmentState
	payload []byte
}

// NewPendingAttachment creates an attachment holding an in-memory payload.
func NewPendingAttachment(name, mimeType string, payload []byte) Attachment {
	return Attachment{
		Name:     name,
		Size:     int64(len(payload)),
		MimeType: mimeType,
		state:    AttachmentPending,
		payload:  payload,
	}
}

// RestoredAttachment creates a name-only attachment, as produced when
// decoding persisted state.
func RestoredAttachment(name string) Attachment {
	return Attachment{Name: name, state: AttachmentRestored}
}

// State returns whether the attachment payload is available.
func (a Attachment) State() AttachmentState {
	if a.state == "" {
		return AttachmentRestored
	}
	return a.state
}

// Payload returns the binary payload. ok is false for restored attachments.
func (a Attachment) Payload() ([]byte, bool) {
	if a.State() != AttachmentPending {
		return nil, false
	}
	return a.payload, true
}

// ReportRecord is the in-progress issue report being composed by the user.
type ReportRecord struct {
	IssueKey      string
	Attachments   []Attachment
	Description   string
	Priority      Priority
	Category      string
	RelatedIssues []string
}

// AttachmentNames returns the names of all attachments, in order.
func (r ReportRecord) AttachmentNames() []string {
	names := make([]string, 0, len(r.Attachments))
	for _, a := range r.Attachments {
		names = append(names, a.Name)
	}
	return names
}
