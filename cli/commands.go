package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/robinvdvleuten/costnote/config"
	"github.com/robinvdvleuten/costnote/costflow"
	"github.com/robinvdvleuten/costnote/extract"
	"github.com/robinvdvleuten/costnote/journal"
	"github.com/robinvdvleuten/costnote/output"
	"github.com/robinvdvleuten/costnote/telemetry"
	"github.com/robinvdvleuten/costnote/vault"
)

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Config    string `help:"Path to the configuration file." type:"path" default:"costnote.yaml"`
	Debug     bool   `help:"Log skipped lines and other debug details."`
	Telemetry bool   `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Export ExportCmd `cmd:"" help:"Export ledger lines from a notes directory as beancount text."`
	Scan   ScanCmd   `cmd:"" help:"List the candidate ledger lines found in a notes directory."`
	Watch  WatchCmd  `cmd:"" help:"Watch a notes directory and re-export on every change."`
}

// runContext returns the context for a command run, with a telemetry
// collector attached when the --telemetry flag is set.
func (g *Globals) runContext() (context.Context, *telemetry.Collector) {
	runCtx := context.Background()

	var collector *telemetry.Collector
	if g.Telemetry {
		collector = telemetry.NewCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)
	}

	return runCtx, collector
}

// logger returns the debug logger, or a no-op logger unless --debug is set.
func (g *Globals) logger(w io.Writer) zerolog.Logger {
	if !g.Debug {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}

// reportTelemetry writes the timing report to stderr. A nil collector
// reports nothing.
func reportTelemetry(ctx *kong.Context, collector *telemetry.Collector) {
	if collector == nil {
		return
	}

	var st *output.Styles
	if output.IsTerminal(os.Stderr) {
		st = styles
	}

	_, _ = fmt.Fprintln(ctx.Stderr)
	collector.Report(ctx.Stderr, st)
}

// pipeline bundles the components every command runs the vault through.
type pipeline struct {
	cfg     *config.Config
	vault   *vault.Vault
	parser  costflow.Parser
	journal *journal.Journal
}

// openPipeline loads the configuration and wires up the vault, parser and
// journal for a notes directory.
func openPipeline(globals *Globals, root string, logw io.Writer) (*pipeline, error) {
	cfg, err := config.Load(globals.Config)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	v, err := vault.Open(root)
	if err != nil {
		return nil, err
	}

	parser := costflow.New(
		costflow.WithCurrency(cfg.Currency),
		costflow.WithDefaultAccount(cfg.DefaultAccount),
		costflow.WithLocation(loc),
	)

	j, err := journal.New(cfg, parser, journal.WithLogger(globals.logger(logw)))
	if err != nil {
		return nil, err
	}

	return &pipeline{cfg: cfg, vault: v, parser: parser, journal: j}, nil
}

// countBetween counts the journal entries dated within [from, to].
func (p *pipeline) countBetween(from, to journal.Date) int {
	count := 0
	for _, entry := range p.journal.Entries() {
		if !entry.Date.Before(from.Time) && !entry.Date.After(to.Time) {
			count++
		}
	}
	return count
}

// refresh repopulates the journal from the vault's markdown files.
func (p *pipeline) refresh(ctx context.Context) error {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("refresh %s", filepath.Base(p.vault.Root())))
	defer timer.End()

	scan := telemetry.StartTimer(ctx, "vault.scan")
	files, err := p.vault.Files(ctx)
	if err != nil {
		scan.End()
		return err
	}

	var lines []string
	for _, name := range files {
		text, err := p.vault.ReadFile(name)
		if err != nil {
			scan.End()
			return err
		}
		lines = append(lines, extract.Extract(text)...)
	}
	scan.End()

	p.journal.Reset()
	return p.journal.Ingest(ctx, lines)
}
