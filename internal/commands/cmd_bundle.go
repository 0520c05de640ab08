package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/scribe/internal/core/bundle"
	"github.com/colonyops/scribe/internal/core/styles"
)

type BundleCmd struct {
	flags *Flags

	out string
}

func NewBundleCmd(flags *Flags) *BundleCmd {
	return &BundleCmd{flags: flags}
}

func (cmd *BundleCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:  "export",
			Usage: "Export all records to a portable bundle",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:        "out",
					Aliases:     []string{"o"},
					Usage:       "write the bundle to a file instead of stdout",
					Destination: &cmd.out,
				},
			},
			Action: cmd.runExport,
		},
		&cli.Command{
			Name:      "import",
			Usage:     "Import records from a bundle file",
			UsageText: "scribe import <bundle.json>",
			Description: `Imports each record family element by element. Invalid elements are
skipped and reported; valid siblings still import. Partial success is
normal, not a failure.`,
			Action: cmd.runImport,
		},
	)
	return app
}

func (cmd *BundleCmd) runExport(_ context.Context, c *cli.Command) error {
	p := bundle.New(cmd.flags.Store)
	text, err := p.Export()
	if err != nil {
		return err
	}

	if cmd.out == "" {
		fmt.Fprintln(c.Root().Writer, text)
		return nil
	}
	if err := os.WriteFile(cmd.out, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}
	fmt.Fprintln(c.Root().Writer, styles.Success.Render("wrote "+cmd.out))
	return nil
}

func (cmd *BundleCmd) runImport(_ context.Context, c *cli.Command) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("usage: scribe import <bundle.json>")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read bundle: %w", err)
	}

	p := bundle.New(cmd.flags.Store)
	res, err := p.Import(string(data))
	if err != nil {
		return err
	}

	w := c.Root().Writer
	for _, warning := range res.Warnings {
		fmt.Fprintln(w, styles.Warning.Render("warning: "+warning))
	}
	for _, e := range res.Errors {
		fmt.Fprintln(w, styles.Error.Render("error: "+e))
	}

	if res.Success {
		fmt.Fprintln(w, styles.Success.Render("import complete"))
	} else {
		fmt.Fprintln(w, styles.Warning.Render("import finished with errors; valid records were imported"))
	}

	// Reload so the imported records are visible to subsequent state reads
	// within this invocation.
	if _, err := cmd.flags.Session.Load(); err != nil {
		return err
	}
	return nil
}
