package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/scribe/internal/core/state"
	"github.com/colonyops/scribe/internal/core/styles"
)

type ChecklistCmd struct {
	flags *Flags
}

func NewChecklistCmd(flags *Flags) *ChecklistCmd {
	return &ChecklistCmd{flags: flags}
}

func (cmd *ChecklistCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "checklist",
		Usage: "Show and toggle checklist items",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the current checklist",
				Action: cmd.runShow,
			},
			{
				Name:      "toggle",
				Usage:     "Toggle one item's checked flag",
				UsageText: "scribe checklist toggle <item-id>",
				Action:    cmd.runToggle,
			},
			{
				Name:   "edit",
				Usage:  "Toggle items with an interactive form",
				Action: cmd.runEdit,
			},
		},
	})
	return app
}

func (cmd *ChecklistCmd) runShow(_ context.Context, c *cli.Command) error {
	w := c.Root().Writer
	items := cmd.flags.Session.State().Checklist

	if len(items) == 0 {
		fmt.Fprintln(w, styles.Muted.Render("no checklist; select a rule set with 'scribe select <id>'"))
		return nil
	}

	for _, item := range items {
		marker := "[ ]"
		if item.Checked {
			marker = "[x]"
		}
		category := ""
		if item.Category != "" {
			category = styles.Muted.Render(" (" + item.Category + ")")
		}
		fmt.Fprintf(w, "%s %s  %s%s\n", marker, item.ID, item.Text, category)
	}
	return nil
}

func (cmd *ChecklistCmd) runToggle(_ context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("usage: scribe checklist toggle <item-id>")
	}

	sess := cmd.flags.Session
	items := sess.State().Checklist
	found := false

	clone := append(items[:0:0], items...)
	for i := range clone {
		if clone[i].ID == id {
			clone[i].Checked = !clone[i].Checked
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("checklist item %q not found", id)
	}

	sess.Dispatch(state.ReplaceChecklist{Items: clone})
	fmt.Fprintln(c.Root().Writer, styles.Success.Render("toggled "+id))
	return nil
}

// runEdit opens a multi-select form pre-seeded with the checked items and
// replaces the checklist with whatever the user leaves selected.
func (cmd *ChecklistCmd) runEdit(_ context.Context, c *cli.Command) error {
	sess := cmd.flags.Session
	items := sess.State().Checklist
	if len(items) == 0 {
		fmt.Fprintln(c.Root().Writer, styles.Muted.Render("no checklist; select a rule set first"))
		return nil
	}

	options := make([]huh.Option[string], 0, len(items))
	checked := make([]string, 0, len(items))
	for _, item := range items {
		label := item.Text
		if item.Category != "" {
			label = "[" + item.Category + "] " + item.Text
		}
		options = append(options, huh.NewOption(label, item.ID))
		if item.Checked {
			checked = append(checked, item.ID)
		}
	}

	err := huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[string]().
			Title("Checklist").
			Description("Space toggles, enter confirms").
			Options(options...).
			Value(&checked),
	)).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return fmt.Errorf("form: %w", err)
	}

	selected := make(map[string]bool, len(checked))
	for _, id := range checked {
		selected[id] = true
	}

	clone := append(items[:0:0], items...)
	for i := range clone {
		clone[i].Checked = selected[clone[i].ID]
	}

	sess.Dispatch(state.ReplaceChecklist{Items: clone})
	fmt.Fprintln(c.Root().Writer, styles.Success.Render("checklist updated"))
	return nil
}
