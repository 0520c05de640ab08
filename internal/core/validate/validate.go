// Package validate inspects persisted record families for structural and
// type correctness. Raw store text decodes into untrusted JSON shapes
// which are checked field by field before anything converts to a domain
// type. Validation never mutates; defects come back as a list.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/scribe/internal/core/report"
	"github.com/colonyops/scribe/internal/core/storage"
)

// Result is the outcome of validating one or more record families.
type Result struct {
	IsValid bool
	Errors  []report.ValidationError
}

func result(errs []report.ValidationError) Result {
	return Result{IsValid: len(errs) == 0, Errors: errs}
}

// Store validates every record family present in the store. Absent keys
// are skipped; only written data is checked.
func Store(st storage.Adapter) (Result, error) {
	var errs []report.ValidationError

	checks := []struct {
		key storage.Key
		fn  func(string) Result
	}{
		{storage.KeyRuleSets, RuleSetsText},
		{storage.KeyChecklist, ChecklistText},
		{storage.KeyReport, ReportText},
	}

	for _, c := range checks {
		raw, ok, err := st.Get(c.key)
		if err != nil {
			return Result{}, fmt.Errorf("validate store: %w", err)
		}
		if !ok {
			continue
		}
		errs = append(errs, c.fn(raw).Errors...)
	}

	return result(errs), nil
}

// RuleSetsText validates the persisted rule set family.
func RuleSetsText(raw string) Result {
	elems, errs := familyArray(raw, "rulesets")
	if errs != nil {
		return result(errs)
	}
	for i, elem := range elems {
		errs = append(errs, RuleSetElement(elem, fmt.Sprintf("rulesets[%d]", i))...)
	}
	return result(errs)
}

// ChecklistText validates the persisted checklist family.
func ChecklistText(raw string) Result {
	elems, errs := familyArray(raw, "checklist")
	if errs != nil {
		return result(errs)
	}
	for i, elem := range elems {
		errs = append(errs, ChecklistElement(elem, fmt.Sprintf("checklist[%d]", i))...)
	}
	return result(errs)
}

// ReportText validates the persisted report record.
func ReportText(raw string) Result {
	return result(ReportObject([]byte(raw), "report"))
}

// RuleSetElement validates a single untrusted rule set element.
func RuleSetElement(raw json.RawMessage, path string) []report.ValidationError {
	obj, ok := asObject(raw)
	if !ok {
		return []report.ValidationError{typeErr(path, "rule set must be an object")}
	}

	var errs []report.ValidationError
	errs = append(errs, requireString(obj, path, "id")...)
	errs = append(errs, requireString(obj, path, "name")...)
	errs = append(errs, optionalString(obj, path, "version")...)

	rules, ok := asArray(obj["rules"])
	if !ok {
		return append(errs, typeErr(path+".rules", "rules must be an array"))
	}
	if len(rules) == 0 {
		return append(errs, report.ValidationError{
			FieldPath: path + ".rules",
			Message:   "rule set must contain at least one rule",
			Kind:      report.ErrorSize,
		})
	}

	for i, rule := range rules {
		rulePath := fmt.Sprintf("%s.rules[%d]", path, i)
		robj, ok := asObject(rule)
		if !ok {
			errs = append(errs, typeErr(rulePath, "rule must be an object"))
			continue
		}
		errs = append(errs, requireString(robj, rulePath, "id")...)
		errs = append(errs, requireString(robj, rulePath, "text")...)
		errs = append(errs, requireString(robj, rulePath, "category")...)
	}

	return errs
}

// ChecklistElement validates a single untrusted checklist item.
func ChecklistElement(raw json.RawMessage, path string) []report.ValidationError {
	obj, ok := asObject(raw)
	if !ok {
		return []report.ValidationError{typeErr(path, "checklist item must be an object")}
	}

	var errs []report.ValidationError
	errs = append(errs, requireString(obj, path, "id")...)
	errs = append(errs, requireString(obj, path, "text")...)
	errs = append(errs, optionalString(obj, path, "category")...)

	// checked must be strictly boolean, never a truthy string or number
	if _, ok := asBool(obj["checked"]); !ok {
		errs = append(errs, typeErr(path+".checked", "checked must be a boolean"))
	}

	return errs
}

// ReportObject validates the untrusted report record shape.
func ReportObject(raw []byte, path string) []report.ValidationError {
	obj, ok := asObject(raw)
	if !ok {
		return []report.ValidationError{typeErr(path, "report record is not a valid object: "+parseDetail(raw))}
	}

	var errs []report.ValidationError

	key, ok := asString(obj["issueKey"])
	if !ok {
		errs = append(errs, typeErr(path+".issueKey", "issueKey must be a string"))
	} else if key != "" && !report.ValidIssueKey(key) {
		errs = append(errs, report.ValidationError{
			FieldPath: path + ".issueKey",
			Message:   fmt.Sprintf("issue key %q does not match PROJECT-NUMBER", key),
			Kind:      report.ErrorFormat,
		})
	}

	errs = append(errs, optionalString(obj, path, "description")...)
	errs = append(errs, optionalString(obj, path, "category")...)
	errs = append(errs, stringArray(obj, path, "attachments")...)
	errs = append(errs, stringArray(obj, path, "relatedIssues")...)

	prio, ok := asString(obj["priority"])
	if !ok {
		errs = append(errs, typeErr(path+".priority", "priority must be a string"))
	} else if !report.Priority(prio).Valid() {
		errs = append(errs, report.ValidationError{
			FieldPath: path + ".priority",
			Message:   fmt.Sprintf("priority %q is not one of low, medium, high", prio),
			Kind:      report.ErrorType,
		})
	}

	return errs
}

// RuleSet validates a decoded rule set, as used by import paths after a
// successful parse. path prefixes the reported field paths.
func RuleSet(rs report.RuleSet, path string) []report.ValidationError {
	var errs []report.ValidationError

	if strings.TrimSpace(rs.Name) == "" {
		errs = append(errs, report.ValidationError{
			FieldPath: path + ".name",
			Message:   "name is required",
			Kind:      report.ErrorRequired,
		})
	}
	if len(rs.Rules) == 0 {
		errs = append(errs, report.ValidationError{
			FieldPath: path + ".rules",
			Message:   "rule set must contain at least one rule",
			Kind:      report.ErrorSize,
		})
	}
	for i, r := range rs.Rules {
		rulePath := fmt.Sprintf("%s.rules[%d]", path, i)
		if strings.TrimSpace(r.ID) == "" {
			errs = append(errs, report.ValidationError{FieldPath: rulePath + ".id", Message: "id is required", Kind: report.ErrorRequired})
		}
		if strings.TrimSpace(r.Text) == "" {
			errs = append(errs, report.ValidationError{FieldPath: rulePath + ".text", Message: "text is required", Kind: report.ErrorRequired})
		}
		if strings.TrimSpace(r.Category) == "" {
			errs = append(errs, report.ValidationError{FieldPath: rulePath + ".category", Message: "category is required", Kind: report.ErrorRequired})
		}
	}

	return errs
}

// IssueKey validates an issue key against the PROJECT-NUMBER convention.
func IssueKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("issue key is required")
	}
	if !report.ValidIssueKey(key) {
		return fmt.Errorf("issue key must match PROJECT-NUMBER (e.g. PROJ-42)")
	}
	return nil
}

// IssueKeyField returns a criterio validator result for issue key fields.
func IssueKeyField(field, key string) error {
	return criterio.Run(field, key, IssueKey)
}

// familyArray parses a family's raw text as a JSON array. A scalar or an
// unparseable blob yields a single family-level type error.
func familyArray(raw, family string) ([]json.RawMessage, []report.ValidationError) {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return nil, []report.ValidationError{typeErr(family, family+" data is not a valid array: "+err.Error())}
	}
	return elems, nil
}

func requireString(obj map[string]json.RawMessage, path, field string) []report.ValidationError {
	s, ok := asString(obj[field])
	if !ok {
		return []report.ValidationError{typeErr(path+"."+field, field+" must be a string")}
	}
	if strings.TrimSpace(s) == "" {
		return []report.ValidationError{{
			FieldPath: path + "." + field,
			Message:   field + " is required",
			Kind:      report.ErrorRequired,
		}}
	}
	return nil
}

func optionalString(obj map[string]json.RawMessage, path, field string) []report.ValidationError {
	raw, present := obj[field]
	if !present {
		return nil
	}
	if _, ok := asString(raw); !ok {
		return []report.ValidationError{typeErr(path+"."+field, field+" must be a string")}
	}
	return nil
}

func stringArray(obj map[string]json.RawMessage, path, field string) []report.ValidationError {
	raw, present := obj[field]
	if !present {
		return nil
	}
	elems, ok := asArray(raw)
	if !ok {
		return []report.ValidationError{typeErr(path+"."+field, field+" must be an array")}
	}
	var errs []report.ValidationError
	for i, e := range elems {
		if _, ok := asString(e); !ok {
			errs = append(errs, typeErr(fmt.Sprintf("%s.%s[%d]", path, field, i), "must be a string"))
		}
	}
	return errs
}

func typeErr(path, msg string) report.ValidationError {
	return report.ValidationError{FieldPath: path, Message: msg, Kind: report.ErrorType}
}

func parseDetail(raw []byte) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err.Error()
	}
	return "expected an object"
}

func asObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	if raw == nil {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	if obj == nil {
		return nil, false
	}
	return obj, true
}

func asArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	if raw == nil {
		return nil, false
	}
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "[") {
		return nil, false
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil, false
	}
	return arr, true
}

func asString(raw json.RawMessage) (string, bool) {
	if raw == nil {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func asBool(raw json.RawMessage) (bool, bool) {
	if raw == nil {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, false
	}
	return b, true
}
