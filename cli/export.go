package cli

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/costnote/journal"
)

type ExportCmd struct {
	Vault string `help:"Directory of markdown notes to export." arg:"" type:"existingdir"`
	From  string `help:"Start date of the export range (inclusive)." default:"0001-01-01"`
	To    string `help:"End date of the export range (inclusive)." default:"9999-12-31"`
	Out   string `help:"Write the beancount output to a file instead of stdout." type:"path"`
	Force bool   `help:"Overwrite the output file without confirmation." short:"f"`
}

func (cmd *ExportCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, collector := globals.runContext()
	defer reportTelemetry(ctx, collector)

	from, err := journal.ParseDate(cmd.From)
	if err != nil {
		return fmt.Errorf("invalid --from date: %w", err)
	}
	to, err := journal.ParseDate(cmd.To)
	if err != nil {
		return fmt.Errorf("invalid --to date: %w", err)
	}

	p, err := openPipeline(globals, cmd.Vault, ctx.Stderr)
	if err != nil {
		return err
	}

	if err := p.refresh(runCtx); err != nil {
		return err
	}
	text := p.journal.Export(from, to)

	if cmd.Out == "" {
		_, _ = fmt.Fprint(ctx.Stdout, text)
		return nil
	}

	if _, err := os.Stat(cmd.Out); err == nil && !cmd.Force {
		confirmed, err := promptYesNo(fmt.Sprintf("File %q already exists. Overwrite it?", cmd.Out))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !confirmed {
			return fmt.Errorf("refusing to overwrite %s", cmd.Out)
		}
	}

	if err := os.WriteFile(cmd.Out, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", cmd.Out, err)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Exported %d entries to %s", p.countBetween(from, to), styles.Path(cmd.Out)))

	return nil
}
