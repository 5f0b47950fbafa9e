package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/costnote/journal"
)

type WatchCmd struct {
	Vault string `help:"Directory of markdown notes to watch." arg:"" type:"existingdir"`
	From  string `help:"Start date of the export range (inclusive)." default:"0001-01-01"`
	To    string `help:"End date of the export range (inclusive)." default:"9999-12-31"`
	Out   string `help:"Beancount file to rewrite on every change." required:"" type:"path"`
}

func (cmd *WatchCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

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

	export := func() error {
		if err := p.refresh(runCtx); err != nil {
			return err
		}
		text := p.journal.Export(from, to)
		if err := os.WriteFile(cmd.Out, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", cmd.Out, err)
		}

		printInfof(ctx.Stdout, "Exported %d entries to %s", p.countBetween(from, to), styles.Path(cmd.Out))
		return nil
	}

	if err := export(); err != nil {
		return err
	}

	printInfof(ctx.Stdout, "Watching %s for changes (ctrl-c to stop)", styles.Path(p.vault.Root()))

	// The watcher invokes onChange from its own goroutine; funnel changes
	// through a channel so refresh cycles stay serialized here.
	changes := make(chan struct{}, 1)
	onChange := func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}

	done := make(chan error, 1)
	go func() {
		done <- p.vault.Watch(runCtx, onChange)
	}()

	for {
		select {
		case <-changes:
			if err := export(); err != nil {
				printError(ctx.Stderr, err.Error())
			}

		case err := <-done:
			if runCtx.Err() != nil {
				// Interrupted; a clean stop, not a failure.
				return nil
			}
			return err
		}
	}
}
