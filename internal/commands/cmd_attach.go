package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/scribe/internal/core/capture"
	"github.com/colonyops/scribe/internal/core/state"
	"github.com/colonyops/scribe/internal/core/styles"
)

type AttachCmd struct {
	flags *Flags
}

func NewAttachCmd(flags *Flags) *AttachCmd {
	return &AttachCmd{flags: flags}
}

func (cmd *AttachCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "attach",
		Usage:     "Attach files to the report",
		UsageText: "scribe attach <file> [<file>...]",
		Description: `Reads files into in-memory attachments. Binary payloads are not
persisted: after a restart only the names survive and the files must be
attached again before submission.`,
		Action: cmd.run,
	})
	return app
}

func (cmd *AttachCmd) run(_ context.Context, c *cli.Command) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("usage: scribe attach <file> [<file>...]")
	}

	capturer := capture.New(cmd.flags.Config.Attachments.Ignore)
	sess := cmd.flags.Session
	rec := sess.State().Report

	attached := 0
	for _, path := range paths {
		a, err := capturer.FromFile(path)
		if err != nil {
			if errors.Is(err, capture.ErrIgnored) {
				fmt.Fprintln(c.Root().Writer, styles.Muted.Render("skipped (ignored): "+path))
				continue
			}
			return err
		}
		rec.Attachments = append(rec.Attachments, a)
		attached++
	}

	if attached == 0 {
		return nil
	}

	sess.Dispatch(state.ReplaceReport{Record: rec})
	fmt.Fprintln(c.Root().Writer, styles.Success.Render(fmt.Sprintf("attached %d file(s)", attached)))
	return nil
}
