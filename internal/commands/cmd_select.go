package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/scribe/internal/core/state"
	"github.com/colonyops/scribe/internal/core/styles"
)

type SelectCmd struct {
	flags *Flags
}

func NewSelectCmd(flags *Flags) *SelectCmd {
	return &SelectCmd{flags: flags}
}

func (cmd *SelectCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "select",
			Usage:     "Select a rule set and derive a fresh checklist from it",
			UsageText: "scribe select <ruleset-id>",
			Description: `Derives a new checklist from the rule set's rules, one unchecked item
per rule. The checklist is an independent copy: later edits to the rule
set do not affect it.`,
			Action: cmd.runSelect,
		},
		&cli.Command{
			Name:   "deselect",
			Usage:  "Clear the rule set selection and its checklist",
			Action: cmd.runDeselect,
		},
	)
	return app
}

func (cmd *SelectCmd) runSelect(_ context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("usage: scribe select <ruleset-id>")
	}

	sess := cmd.flags.Session
	found := false
	for _, rs := range sess.State().RuleSets {
		if rs.ID == id {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("rule set %q not found; see 'scribe rules list'", id)
	}

	sess.Dispatch(state.SelectRuleSet{ID: id})
	fmt.Fprintln(c.Root().Writer, styles.Success.Render(fmt.Sprintf("checklist derived: %d item(s)", len(sess.State().Checklist))))
	return nil
}

func (cmd *SelectCmd) runDeselect(_ context.Context, c *cli.Command) error {
	cmd.flags.Session.Dispatch(state.ClearSelection{})
	fmt.Fprintln(c.Root().Writer, styles.Success.Render("selection cleared"))
	return nil
}
