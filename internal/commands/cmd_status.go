package commands

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/scribe/internal/core/styles"
)

type StatusCmd struct {
	flags *Flags
}

func NewStatusCmd(flags *Flags) *StatusCmd {
	return &StatusCmd{flags: flags}
}

func (cmd *StatusCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:   "status",
		Usage:  "Show working state and store usage",
		Action: cmd.run,
	})
	return app
}

func (cmd *StatusCmd) run(_ context.Context, c *cli.Command) error {
	w := c.Root().Writer
	st := cmd.flags.Session.State()

	fmt.Fprintln(w, styles.Header.Render("Working state"))
	fmt.Fprintf(w, "rule sets:    %d\n", len(st.RuleSets))
	fmt.Fprintf(w, "selected:     %s\n", orDash(st.SelectedRuleSetID))
	checked := 0
	for _, item := range st.Checklist {
		if item.Checked {
			checked++
		}
	}
	fmt.Fprintf(w, "checklist:    %d item(s), %d checked\n", len(st.Checklist), checked)
	fmt.Fprintf(w, "issue:        %s\n", orDash(st.Report.IssueKey))
	fmt.Fprintf(w, "attachments:  %d\n", len(st.Report.Attachments))

	usage, err := cmd.flags.Store.Usage()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, styles.Header.Render("Store usage"))
	fmt.Fprintf(w, "used:         %s\n", humanize.Bytes(uint64(usage.UsedBytes)))
	fmt.Fprintf(w, "available:    ~%s %s\n", humanize.Bytes(uint64(usage.EstimatedAvailableBytes)), styles.Muted.Render("(estimate)"))
	fmt.Fprintf(w, "active keys:  %d\n", usage.ActiveKeys)
	return nil
}
