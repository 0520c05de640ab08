// Package bundle packages all record families into a single portable
// document and imports them back, element by element.
package bundle

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/colonyops/scribe/internal/core/codec"
	"github.com/colonyops/scribe/internal/core/report"
	"github.com/colonyops/scribe/internal/core/storage"
	"github.com/colonyops/scribe/internal/core/validate"
)

// FormatVersion identifies the bundle format written by Export. Import
// treats a mismatch as a non-fatal warning.
const FormatVersion = "1.0.0"

// Bundle is the export document: a format version, a timestamp, and one
// field per record family.
type Bundle struct {
	Version    string                 `json:"version"`
	ExportedAt time.Time              `json:"exportedAt"`
	RuleSets   []report.RuleSet       `json:"ruleSets"`
	Report     *json.RawMessage       `json:"report,omitempty"`
	Checklist  []report.ChecklistItem `json:"checklist"`
}

// ImportResult reports a best-effort import. Success is true only when no
// element failed; partial success is normal, not a failure mode.
type ImportResult struct {
	Success  bool
	Errors   []string
	Warnings []string
}

// Packager moves record families between the store and bundle documents.
type Packager struct {
	store storage.Adapter
	now   func() time.Time
}

// New creates a Packager over the given store.
func New(store storage.Adapter) *Packager {
	return &Packager{store: store, now: time.Now}
}

// Export serializes all persisted record families plus the format version
// and a current timestamp into one document.
func (p *Packager) Export() (string, error) {
	b := Bundle{
		Version:    FormatVersion,
		ExportedAt: p.now(),
		RuleSets:   []report.RuleSet{},
		Checklist:  []report.ChecklistItem{},
	}

	if raw, ok, err := p.store.Get(storage.KeyRuleSets); err != nil {
		return "", fmt.Errorf("export: %w", err)
	} else if ok {
		sets, err := codec.DecodeRuleSets(raw)
		if err != nil {
			return "", fmt.Errorf("export: %w", err)
		}
		b.RuleSets = sets
	}

	if raw, ok, err := p.store.Get(storage.KeyChecklist); err != nil {
		return "", fmt.Errorf("export: %w", err)
	} else if ok {
		items, err := codec.DecodeChecklist(raw)
		if err != nil {
			return "", fmt.Errorf("export: %w", err)
		}
		b.Checklist = items
	}

	if raw, ok, err := p.store.Get(storage.KeyReport); err != nil {
		return "", fmt.Errorf("export: %w", err)
	} else if ok {
		// Persisted report text is already the wire shape; embed verbatim.
		msg := json.RawMessage(raw)
		b.Report = &msg
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}

	return string(data), nil
}

// Import parses a bundle document and imports each family element by
// element. An invalid rule set is skipped and reported; its siblings still
// import. Imported rule sets merge with existing ones by identifier.
func (p *Packager) Import(text string) (ImportResult, error) {
	var res ImportResult

	var raw struct {
		Version    string            `json:"version"`
		ExportedAt string            `json:"exportedAt"`
		RuleSets   []json.RawMessage `json:"ruleSets"`
		Report     *json.RawMessage  `json:"report"`
		Checklist  []json.RawMessage `json:"checklist"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("bundle is not valid JSON: %v", err))
		return res, nil
	}

	if raw.Version != FormatVersion {
		res.Warnings = append(res.Warnings, fmt.Sprintf("bundle version %q does not match current format %q", raw.Version, FormatVersion))
	}

	if err := p.importRuleSets(raw.RuleSets, &res); err != nil {
		return res, err
	}
	if err := p.importChecklist(raw.Checklist, &res); err != nil {
		return res, err
	}
	if err := p.importReport(raw.Report, &res); err != nil {
		return res, err
	}

	res.Success = len(res.Errors) == 0
	return res, nil
}

func (p *Packager) importRuleSets(elems []json.RawMessage, res *ImportResult) error {
	if len(elems) == 0 {
		return nil
	}

	existing, err := p.loadRuleSets()
	if err != nil {
		return err
	}

	imported := 0
	for i, elem := range elems {
		var rs report.RuleSet
		if err := json.Unmarshal(elem, &rs); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("rule set %d: %v", i, err))
			continue
		}
		if errs := validate.RuleSet(rs, fmt.Sprintf("ruleSets[%d]", i)); len(errs) > 0 {
			res.Errors = append(res.Errors, fmt.Sprintf("rule set %q: %s", rs.Name, errs[0].Message))
			continue
		}

		existing = upsert(existing, rs)
		imported++
	}

	if imported == 0 {
		return nil
	}
	return p.saveRuleSets(existing, res)
}

func (p *Packager) importChecklist(elems []json.RawMessage, res *ImportResult) error {
	if len(elems) == 0 {
		return nil
	}

	items := make([]report.ChecklistItem, 0, len(elems))
	for i, elem := range elems {
		if errs := validate.ChecklistElement(elem, fmt.Sprintf("checklist[%d]", i)); len(errs) > 0 {
			res.Errors = append(res.Errors, fmt.Sprintf("checklist item %d: %s", i, errs[0].Message))
			continue
		}
		var item report.ChecklistItem
		if err := json.Unmarshal(elem, &item); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("checklist item %d: %v", i, err))
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil
	}

	encoded, err := codec.EncodeChecklist(items)
	if err != nil {
		return fmt.Errorf("import checklist: %w", err)
	}
	return p.setOrWarn(storage.KeyChecklist, encoded, res)
}

func (p *Packager) importReport(elem *json.RawMessage, res *ImportResult) error {
	if elem == nil {
		return nil
	}

	if errs := validate.ReportObject(*elem, "report"); len(errs) > 0 {
		res.Errors = append(res.Errors, fmt.Sprintf("report record: %s", errs[0].Message))
		return nil
	}

	return p.setOrWarn(storage.KeyReport, string(*elem), res)
}

// setOrWarn writes through the store adapter, degrading a quota failure
// to a warning: the import itself still counts as applied in memory terms,
// durability is best-effort.
func (p *Packager) setOrWarn(key storage.Key, value string, res *ImportResult) error {
	err := p.store.Set(key, value)
	if err == nil {
		return nil
	}
	var quota *storage.QuotaExceededError
	if errors.As(err, &quota) {
		res.Warnings = append(res.Warnings, quota.Error())
		return nil
	}
	return fmt.Errorf("import %s: %w", key, err)
}

func (p *Packager) loadRuleSets() ([]report.RuleSet, error) {
	raw, ok, err := p.store.Get(storage.KeyRuleSets)
	if err != nil {
		return nil, fmt.Errorf("import rule sets: %w", err)
	}
	if !ok {
		return nil, nil
	}
	sets, err := codec.DecodeRuleSets(raw)
	if err != nil {
		// Unreadable existing data loses to the import; repair would have
		// removed it anyway.
		return nil, nil
	}
	return sets, nil
}

func (p *Packager) saveRuleSets(sets []report.RuleSet, res *ImportResult) error {
	encoded, err := codec.EncodeRuleSets(sets)
	if err != nil {
		return fmt.Errorf("import rule sets: %w", err)
	}
	return p.setOrWarn(storage.KeyRuleSets, encoded, res)
}

// upsert replaces a rule set with the same ID or appends.
func upsert(sets []report.RuleSet, rs report.RuleSet) []report.RuleSet {
	for i, s := range sets {
		if s.ID == rs.ID {
			sets[i] = rs
			return sets
		}
	}
	return append(sets, rs)
}
