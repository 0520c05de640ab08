package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/colonyops/scribe/internal/core/report"
	"github.com/colonyops/scribe/internal/core/state"
	"github.com/colonyops/scribe/internal/core/styles"
	"github.com/colonyops/scribe/internal/core/validate"
)

type RulesCmd struct {
	flags *Flags
}

func NewRulesCmd(flags *Flags) *RulesCmd {
	return &RulesCmd{flags: flags}
}

// authoredRuleSet is the file shape accepted by `rules import`. Rule set
// authoring itself happens elsewhere; this command only ingests the result.
type authoredRuleSet struct {
	ID          string         `yaml:"id" json:"id"`
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description" json:"description"`
	Version     string         `yaml:"version" json:"version"`
	Rules       []authoredRule `yaml:"rules" json:"rules"`
}

type authoredRule struct {
	ID          string `yaml:"id" json:"id"`
	Text        string `yaml:"text" json:"text"`
	Category    string `yaml:"category" json:"category"`
	Priority    int    `yaml:"priority" json:"priority"`
	Description string `yaml:"description" json:"description"`
}

func (cmd *RulesCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "rules",
		Usage: "Manage evaluation rule sets",
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Import rule sets from a YAML or JSON file",
				UsageText: "scribe rules import <file>",
				Action:    cmd.runImport,
			},
			{
				Name:   "list",
				Usage:  "List available rule sets",
				Action: cmd.runList,
			},
			{
				Name:      "delete",
				Usage:     "Delete a rule set by identifier",
				UsageText: "scribe rules delete <id>",
				Action:    cmd.runDelete,
			},
		},
	})
	return app
}

func (cmd *RulesCmd) runImport(_ context.Context, c *cli.Command) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("usage: scribe rules import <file>")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read rules file: %w", err)
	}

	var authored []authoredRuleSet
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &authored)
	default:
		err = yaml.Unmarshal(data, &authored)
	}
	if err != nil {
		return fmt.Errorf("parse rules file: %w", err)
	}
	if len(authored) == 0 {
		return fmt.Errorf("rules file contains no rule sets")
	}

	now := time.Now()
	sets := cmd.flags.Session.State().RuleSets
	imported := 0
	for i, a := range authored {
		rs := toRuleSet(a, now)
		if errs := validate.RuleSet(rs, fmt.Sprintf("ruleSets[%d]", i)); len(errs) > 0 {
			fmt.Fprintln(c.Root().ErrWriter, styles.Error.Render(fmt.Sprintf("skipped rule set %q: %s", rs.Name, errs[0].Message)))
			continue
		}
		sets = upsertRuleSet(sets, rs)
		imported++
	}

	if imported == 0 {
		return fmt.Errorf("no valid rule sets in %s", path)
	}

	cmd.flags.Session.Dispatch(state.ReplaceRuleSets{Sets: sets})
	fmt.Fprintln(c.Root().Writer, styles.Success.Render(fmt.Sprintf("imported %d rule set(s)", imported)))
	return nil
}

func (cmd *RulesCmd) runList(_ context.Context, c *cli.Command) error {
	w := c.Root().Writer
	st := cmd.flags.Session.State()

	if len(st.RuleSets) == 0 {
		fmt.Fprintln(w, styles.Muted.Render("no rule sets; use 'scribe rules import <file>'"))
		return nil
	}

	for _, rs := range st.RuleSets {
		marker := "  "
		if rs.ID == st.SelectedRuleSetID {
			marker = "* "
		}
		fmt.Fprintf(w, "%s%s  %s (v%s, %d rules)\n", marker, rs.ID, rs.Name, rs.Version, len(rs.Rules))
	}
	return nil
}

// runDelete removes a rule set by whole-record deletion. An in-progress
// checklist derived from it is untouched.
func (cmd *RulesCmd) runDelete(_ context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("usage: scribe rules delete <id>")
	}

	st := cmd.flags.Session.State()
	kept := make([]report.RuleSet, 0, len(st.RuleSets))
	for _, rs := range st.RuleSets {
		if rs.ID != id {
			kept = append(kept, rs)
		}
	}
	if len(kept) == len(st.RuleSets) {
		return fmt.Errorf("rule set %q not found", id)
	}

	cmd.flags.Session.Dispatch(state.ReplaceRuleSets{Sets: kept})
	fmt.Fprintln(c.Root().Writer, styles.Success.Render("deleted rule set "+id))
	return nil
}

func toRuleSet(a authoredRuleSet, now time.Time) report.RuleSet {
	id := a.ID
	if id == "" {
		id = uuid.NewString()
	}
	version := a.Version
	if version == "" {
		version = "1.0.0"
	}

	rules := make([]report.Rule, 0, len(a.Rules))
	for _, r := range a.Rules {
		rules = append(rules, report.Rule{
			ID:          r.ID,
			Text:        r.Text,
			Category:    r.Category,
			Priority:    r.Priority,
			Description: r.Description,
		})
	}

	return report.RuleSet{
		ID:          id,
		Name:        a.Name,
		Description: a.Description,
		Version:     version,
		Rules:       rules,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func upsertRuleSet(sets []report.RuleSet, rs report.RuleSet) []report.RuleSet {
	for i, s := range sets {
		if s.ID == rs.ID {
			rs.CreatedAt = s.CreatedAt
			sets[i] = rs
			return sets
		}
	}
	return append(sets, rs)
}
