// Package repair applies lossy-but-minimal corrections to persisted data
// that fails validation. Families that decode keep their valid elements;
// families that cannot be parsed at all lose their key. Every corrective
// action is recorded as a human-readable audit string.
package repair

import (
	"encoding/json"
	"fmt"

	"github.com/colonyops/scribe/internal/core/storage"
	"github.com/colonyops/scribe/internal/core/validate"
)

// Result reports what a repair pass did. A second pass over unchanged
// data reports Repaired=false with no actions.
type Result struct {
	Repaired bool
	Actions  []string
}

// Run repairs all record families in the store. It is idempotent.
func Run(st storage.Adapter) (Result, error) {
	var res Result

	if err := repairArrayFamily(st, storage.KeyRuleSets, "rulesets", &res, func(elem json.RawMessage, path string) bool {
		return len(validate.RuleSetElement(elem, path)) == 0
	}); err != nil {
		return Result{}, err
	}

	if err := repairArrayFamily(st, storage.KeyChecklist, "checklist", &res, func(elem json.RawMessage, path string) bool {
		return len(validate.ChecklistElement(elem, path)) == 0
	}); err != nil {
		return Result{}, err
	}

	if err := repairReport(st, &res); err != nil {
		return Result{}, err
	}

	return res, nil
}

// repairArrayFamily handles the rulesets and checklist families: drop
// individual invalid elements, or remove the key when the text does not
// parse as an array at all.
func repairArrayFamily(st storage.Adapter, key storage.Key, family string, res *Result, valid func(json.RawMessage, string) bool) error {
	raw, ok, err := st.Get(key)
	if err != nil {
		return fmt.Errorf("repair %s: %w", family, err)
	}
	if !ok {
		return nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		if err := st.Remove(key); err != nil {
			return fmt.Errorf("repair %s: %w", family, err)
		}
		res.record(fmt.Sprintf("removed unreadable %s data (parse error: %v)", family, err))
		return nil
	}

	kept := make([]json.RawMessage, 0, len(elems))
	dropped := 0
	for i, elem := range elems {
		if valid(elem, fmt.Sprintf("%s[%d]", family, i)) {
			kept = append(kept, elem)
			continue
		}
		dropped++
		res.record(fmt.Sprintf("dropped invalid %s element at index %d", family, i))
	}

	if dropped == 0 {
		return nil
	}

	data, err := json.Marshal(kept)
	if err != nil {
		return fmt.Errorf("repair %s: %w", family, err)
	}
	if err := st.Set(key, string(data)); err != nil {
		return fmt.Errorf("repair %s: %w", family, err)
	}

	return nil
}

// repairReport handles the single-record report family. There is no
// element granularity to fall back on: a record that fails validation is
// dropped whole, including a wrong-typed priority field.
func repairReport(st storage.Adapter, res *Result) error {
	raw, ok, err := st.Get(storage.KeyReport)
	if err != nil {
		return fmt.Errorf("repair report: %w", err)
	}
	if !ok {
		return nil
	}

	if errs := validate.ReportObject([]byte(raw), "report"); len(errs) > 0 {
		if err := st.Remove(storage.KeyReport); err != nil {
			return fmt.Errorf("repair report: %w", err)
		}
		res.record(fmt.Sprintf("removed invalid report record (%s)", errs[0].Message))
	}

	return nil
}

func (r *Result) record(action string) {
	r.Repaired = true
	r.Actions = append(r.Actions, action)
}
