package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/scribe/internal/core/report"
	"github.com/colonyops/scribe/internal/core/state"
	"github.com/colonyops/scribe/internal/core/styles"
	"github.com/colonyops/scribe/internal/core/validate"
)

type ReportCmd struct {
	flags *Flags

	issueKey    string
	priority    string
	category    string
	description string
	relate      []string
}

func NewReportCmd(flags *Flags) *ReportCmd {
	return &ReportCmd{flags: flags}
}

func (cmd *ReportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "report",
		Usage: "Edit the in-progress report record",
		Commands: []*cli.Command{
			{
				Name:  "set",
				Usage: "Set report fields",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "issue",
						Aliases:     []string{"i"},
						Usage:       "issue key (PROJECT-NUMBER, e.g. PROJ-42)",
						Destination: &cmd.issueKey,
					},
					&cli.StringFlag{
						Name:        "priority",
						Aliases:     []string{"p"},
						Usage:       "priority: low, medium, or high",
						Destination: &cmd.priority,
					},
					&cli.StringFlag{
						Name:        "category",
						Aliases:     []string{"c"},
						Usage:       "category label",
						Destination: &cmd.category,
					},
					&cli.StringFlag{
						Name:        "description",
						Aliases:     []string{"d"},
						Usage:       "free-text description",
						Destination: &cmd.description,
					},
					&cli.StringSliceFlag{
						Name:        "relate",
						Aliases:     []string{"r"},
						Usage:       "related issue keys (repeatable)",
						Destination: &cmd.relate,
					},
				},
				Action: cmd.runSet,
			},
			{
				Name:   "edit",
				Usage:  "Edit the report with an interactive form",
				Action: cmd.runEdit,
			},
			{
				Name:   "show",
				Usage:  "Print the current report record",
				Action: cmd.runShow,
			},
		},
	})
	return app
}

func (cmd *ReportCmd) runSet(_ context.Context, c *cli.Command) error {
	sess := cmd.flags.Session
	rec := sess.State().Report

	if cmd.issueKey != "" {
		if err := validate.IssueKeyField("issue", cmd.issueKey); err != nil {
			return err
		}
		rec.IssueKey = cmd.issueKey
	}
	if cmd.priority != "" {
		p := report.Priority(cmd.priority)
		if !p.Valid() {
			return fmt.Errorf("priority must be one of low, medium, high, got %q", cmd.priority)
		}
		rec.Priority = p
	}
	if cmd.category != "" {
		rec.Category = cmd.category
	}
	if cmd.description != "" {
		rec.Description = cmd.description
	}
	if len(cmd.relate) > 0 {
		for _, id := range cmd.relate {
			if err := validate.IssueKeyField("relate", id); err != nil {
				return err
			}
		}
		rec.RelatedIssues = cmd.relate
	}

	sess.Dispatch(state.ReplaceReport{Record: rec})
	fmt.Fprintln(c.Root().Writer, styles.Success.Render("report updated"))
	return nil
}

func (cmd *ReportCmd) runEdit(_ context.Context, c *cli.Command) error {
	sess := cmd.flags.Session
	rec := sess.State().Report

	issueKey := rec.IssueKey
	priority := string(rec.Priority)
	category := rec.Category
	description := rec.Description

	err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Issue key").
			Description("PROJECT-NUMBER, e.g. PROJ-42").
			Validate(validate.IssueKey).
			Value(&issueKey),
		huh.NewSelect[string]().
			Title("Priority").
			Options(
				huh.NewOption("低 (low)", string(report.PriorityLow)),
				huh.NewOption("中 (medium)", string(report.PriorityMedium)),
				huh.NewOption("高 (high)", string(report.PriorityHigh)),
			).
			Value(&priority),
		huh.NewInput().
			Title("Category").
			Value(&category),
		huh.NewText().
			Title("Description").
			Value(&description),
	)).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return fmt.Errorf("form: %w", err)
	}

	rec.IssueKey = issueKey
	rec.Priority = report.Priority(priority)
	rec.Category = category
	rec.Description = description

	sess.Dispatch(state.ReplaceReport{Record: rec})
	fmt.Fprintln(c.Root().Writer, styles.Success.Render("report updated"))
	return nil
}

func (cmd *ReportCmd) runShow(_ context.Context, c *cli.Command) error {
	w := c.Root().Writer
	rec := cmd.flags.Session.State().Report

	fmt.Fprintln(w, styles.Header.Render("Report"))
	fmt.Fprintf(w, "issue:       %s\n", orDash(rec.IssueKey))
	fmt.Fprintf(w, "priority:    %s\n", rec.Priority)
	fmt.Fprintf(w, "category:    %s\n", orDash(rec.Category))
	fmt.Fprintf(w, "description: %s\n", orDash(strings.TrimSpace(rec.Description)))
	fmt.Fprintf(w, "related:     %s\n", orDash(strings.Join(rec.RelatedIssues, ", ")))

	if len(rec.Attachments) == 0 {
		fmt.Fprintf(w, "attachments: -\n")
		return nil
	}
	fmt.Fprintln(w, "attachments:")
	for _, a := range rec.Attachments {
		note := ""
		if a.State() == report.AttachmentRestored {
			note = styles.Warning.Render("  (payload lost on reload, re-attach to submit)")
		}
		fmt.Fprintf(w, "  %s%s\n", a.Name, note)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
