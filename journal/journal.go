// Package journal accumulates parsed ledger entries into an in-memory
// journal and exports them as beancount text over a date range.
//
// The Journal is the aggregate root: it owns its entries exclusively, and a
// refresh cycle is Reset followed by Ingest. Processing is best effort by
// design; lines that fail alias resolution, parsing, or conversion are
// skipped silently (traced at debug level only). The only errors surfaced to
// callers are construction errors from a malformed account mapping and
// context cancellation during ingestion.
//
// Example usage:
//
//	j, err := journal.New(cfg, costflow.New())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	j.Reset()
//	if err := j.Ingest(ctx, extract.Extract(markdown)); err != nil {
//	    log.Fatal(err)
//	}
//
//	text := j.Export(journal.MustParseDate("2023-04-01"), journal.MustParseDate("2023-04-30"))
package journal

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/robinvdvleuten/costnote/config"
	"github.com/robinvdvleuten/costnote/costflow"
	"github.com/robinvdvleuten/costnote/telemetry"
)

// defaultParallelism bounds the concurrent parser calls during Ingest.
const defaultParallelism = 8

// Journal holds the ordered sequence of parsed entries. Entries are kept in
// ingestion order, not sorted by date. Callers must serialize refresh cycles;
// the internal mutex only guards entry access against concurrent readers.
type Journal struct {
	parser  costflow.Parser
	aliases []aliasRule
	limit   int
	log     zerolog.Logger

	mu      sync.Mutex
	entries []*Entry
}

// Option configures a Journal.
type Option func(*Journal)

// WithLogger sets the logger used for debug traces of skipped lines.
func WithLogger(log zerolog.Logger) Option {
	return func(j *Journal) {
		j.log = log
	}
}

// WithParallelism bounds the number of concurrent parser calls.
func WithParallelism(n int) Option {
	return func(j *Journal) {
		if n > 0 {
			j.limit = n
		}
	}
}

// New creates an empty Journal for the given configuration and parser.
// The account-alias mapping is compiled here; a malformed mapping is the one
// processing error that surfaces to the caller.
func New(cfg *config.Config, parser costflow.Parser, opts ...Option) (*Journal, error) {
	rules, err := compileAliases(cfg.Accounts)
	if err != nil {
		return nil, err
	}

	j := &Journal{
		parser:  parser,
		aliases: rules,
		limit:   defaultParallelism,
		log:     zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(j)
	}

	return j, nil
}

// Reset clears the journal to empty. Idempotent; called before each
// re-population pass.
func (j *Journal) Reset() {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.entries = nil
}

// Ingest resolves aliases on each candidate line, parses it, and appends the
// accepted transactions to the journal.
//
// Lines are parsed concurrently but Ingest joins every parse before it
// returns, and entries are appended in input order. A line that fails to
// parse, parses to a non-transaction, or carries an unparseable date is
// skipped without surfacing an error. The returned error is non-nil only
// when ctx is cancelled.
func (j *Journal) Ingest(ctx context.Context, lines []string) error {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("journal.ingest (%d lines)", len(lines)))
	defer timer.End()

	results := make([]costflow.Result, len(lines))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.limit)

	for i, line := range lines {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			resolved := resolveAliases(j.aliases, line)

			result, err := j.parser.Parse(gctx, resolved)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				j.log.Debug().Err(err).Str("line", line).Msg("skipping unparsable line")
				return nil
			}

			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for i, result := range results {
		txn, ok := result.(*costflow.Transaction)
		if !ok {
			if result != nil {
				j.log.Debug().Str("line", lines[i]).Msg("skipping non-transaction line")
			}
			continue
		}

		entry, err := newEntry(txn)
		if err != nil {
			j.log.Debug().Err(err).Str("line", lines[i]).Msg("skipping entry with malformed date")
			continue
		}

		j.mu.Lock()
		j.entries = append(j.entries, entry)
		j.mu.Unlock()
	}

	return nil
}

// Resolve applies the journal's account-alias substitution to a single line.
// Ingest applies the same substitution before parsing; Resolve exposes it so
// callers can inspect what the parser will actually see.
func (j *Journal) Resolve(line string) string {
	return resolveAliases(j.aliases, line)
}

// Export returns the concatenated rendered text of every entry whose date
// falls within [start, end], inclusive on both ends, in journal order. Each
// included entry is followed by a blank line. Export never mutates the
// journal; it returns the empty string when no entries qualify.
func (j *Journal) Export(start, end Date) string {
	j.mu.Lock()
	defer j.mu.Unlock()

	var b strings.Builder
	for _, entry := range j.entries {
		if entry.Date.Before(start.Time) || entry.Date.After(end.Time) {
			continue
		}

		b.WriteString(entry.Output)
		if !strings.HasSuffix(entry.Output, "\n") {
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	return b.String()
}

// Entries returns a snapshot of the journal in ingestion order.
func (j *Journal) Entries() []*Entry {
	j.mu.Lock()
	defer j.mu.Unlock()

	entries := make([]*Entry, len(j.entries))
	copy(entries, j.entries)
	return entries
}

// Len returns the number of entries held by the journal.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()

	return len(j.entries)
}
