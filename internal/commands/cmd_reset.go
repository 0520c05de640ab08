package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/scribe/internal/core/styles"
)

type ResetCmd struct {
	flags *Flags

	force bool
}

func NewResetCmd(flags *Flags) *ResetCmd {
	return &ResetCmd{flags: flags}
}

func (cmd *ResetCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "reset",
		Usage: "Clear all working state and persisted records",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "force",
				Aliases:     []string{"f"},
				Usage:       "skip the confirmation prompt",
				Destination: &cmd.force,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *ResetCmd) run(_ context.Context, c *cli.Command) error {
	if !cmd.force {
		confirmed := false
		err := huh.NewConfirm().
			Title("Clear all data?").
			Description("Removes rule sets, the checklist, and the report record.").
			Value(&confirmed).
			Run()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("confirm: %w", err)
		}
		if !confirmed {
			return nil
		}
	}

	if err := cmd.flags.Session.ClearAll(); err != nil {
		return err
	}
	fmt.Fprintln(c.Root().Writer, styles.Success.Render("all data cleared"))
	return nil
}
