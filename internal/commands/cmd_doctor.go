package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/scribe/internal/core/repair"
	"github.com/colonyops/scribe/internal/core/styles"
	"github.com/colonyops/scribe/internal/core/validate"
)

type DoctorCmd struct {
	flags *Flags

	fix bool
}

func NewDoctorCmd(flags *Flags) *DoctorCmd {
	return &DoctorCmd{flags: flags}
}

func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "doctor",
		Usage: "Validate persisted state and optionally repair it",
		Description: `Checks every persisted record family for structural and type defects.

With --fix, invalid elements are dropped and unreadable families removed,
keeping as much data as possible. Each corrective action is printed.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "fix",
				Usage:       "repair defects instead of only reporting them",
				Destination: &cmd.fix,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DoctorCmd) run(_ context.Context, c *cli.Command) error {
	w := c.Root().Writer

	res, err := validate.Store(cmd.flags.Store)
	if err != nil {
		return err
	}

	if res.IsValid {
		fmt.Fprintln(w, styles.Success.Render("persisted state is valid"))
		return nil
	}

	fmt.Fprintln(w, styles.Error.Render(fmt.Sprintf("%d validation error(s):", len(res.Errors))))
	for _, e := range res.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}

	if !cmd.fix {
		fmt.Fprintln(w, styles.Muted.Render("run 'scribe doctor --fix' to repair"))
		return nil
	}

	repaired, err := repair.Run(cmd.flags.Store)
	if err != nil {
		return err
	}

	if !repaired.Repaired {
		fmt.Fprintln(w, styles.Muted.Render("nothing to repair"))
		return nil
	}

	fmt.Fprintln(w, styles.Warning.Render("repair actions:"))
	for _, action := range repaired.Actions {
		fmt.Fprintf(w, "  %s\n", action)
	}
	return nil
}
