package cli

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/robinvdvleuten/costnote/extract"
)

type ScanCmd struct {
	Vault string `help:"Directory of markdown notes to scan." arg:"" type:"existingdir"`
	Dump  bool   `help:"Parse each candidate line and dump the result."`
}

func (cmd *ScanCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, collector := globals.runContext()
	defer reportTelemetry(ctx, collector)

	p, err := openPipeline(globals, cmd.Vault, ctx.Stderr)
	if err != nil {
		return err
	}

	files, err := p.vault.Files(runCtx)
	if err != nil {
		return err
	}

	total := 0
	for _, name := range files {
		text, err := p.vault.ReadFile(name)
		if err != nil {
			return err
		}

		lines := extract.Extract(text)
		if len(lines) == 0 {
			continue
		}

		printInfof(ctx.Stdout, "%s", styles.Path(name))
		for _, line := range lines {
			total++

			if !cmd.Dump {
				_, _ = fmt.Fprintf(ctx.Stdout, "  %s\n", line)
				continue
			}

			result, err := p.parser.Parse(runCtx, p.journal.Resolve(line))
			if err != nil {
				printError(ctx.Stdout, fmt.Sprintf("%s: %v", line, err))
				continue
			}
			repr.New(ctx.Stdout, repr.Indent("  ")).Println(result)
		}
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Found %d candidate lines in %d files", total, len(files)))

	return nil
}
