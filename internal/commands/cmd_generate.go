package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/scribe/internal/core/docgen"
	"github.com/colonyops/scribe/internal/core/logging"
	"github.com/colonyops/scribe/internal/core/state"
	"github.com/colonyops/scribe/internal/core/styles"
	"github.com/colonyops/scribe/internal/core/tracker"
)

type GenerateCmd struct {
	flags *Flags

	out    string
	pretty bool
	submit bool
}

func NewGenerateCmd(flags *Flags) *GenerateCmd {
	return &GenerateCmd{flags: flags}
}

func (cmd *GenerateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "generate",
		Usage: "Generate the report document from the current state",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "write the document to a file instead of stdout",
				Destination: &cmd.out,
			},
			&cli.BoolFlag{
				Name:        "pretty",
				Usage:       "render the document for the terminal",
				Destination: &cmd.pretty,
			},
			&cli.BoolFlag{
				Name:        "submit",
				Usage:       "submit the document to the issue tracker",
				Destination: &cmd.submit,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *GenerateCmd) run(ctx context.Context, c *cli.Command) error {
	sess := cmd.flags.Session
	st := sess.State()

	gen := docgen.New()
	doc := gen.Generate(st.Checklist, st.Report)
	sess.Dispatch(state.SetGeneratedDocument{Text: doc})

	if cmd.out != "" {
		if err := os.WriteFile(cmd.out, []byte(doc), 0o644); err != nil {
			return fmt.Errorf("write document: %w", err)
		}
		fmt.Fprintln(c.Root().Writer, styles.Success.Render("wrote "+cmd.out))
	} else if cmd.pretty && term.IsTerminal(int(os.Stdout.Fd())) {
		width, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			width = 0
		}
		rendered, err := styles.RenderMarkdown(doc, width)
		if err != nil {
			return fmt.Errorf("render document: %w", err)
		}
		fmt.Fprint(c.Root().Writer, rendered)
	} else {
		fmt.Fprint(c.Root().Writer, doc)
	}

	if !cmd.submit {
		return nil
	}

	client := tracker.NewStub(logging.Component("tracker"))
	if err := client.Submit(ctx, st.Report.IssueKey, doc); err != nil {
		fmt.Fprintln(c.Root().ErrWriter, styles.Warning.Render("submit failed: "+err.Error()))
	}
	return nil
}
