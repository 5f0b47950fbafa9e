package journal_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/costnote/config"
	"github.com/robinvdvleuten/costnote/costflow"
	"github.com/robinvdvleuten/costnote/extract"
	"github.com/robinvdvleuten/costnote/journal"
)

// stubParser records the lines it receives and answers from a table. Lines
// without a table entry parse to a transaction dated from the line's first
// token with the raw line as output.
type stubParser struct {
	mu    sync.Mutex
	lines []string

	results map[string]costflow.Result
	errs    map[string]error
	delays  map[string]time.Duration
}

func (s *stubParser) Parse(_ context.Context, line string) (costflow.Result, error) {
	s.mu.Lock()
	s.lines = append(s.lines, line)
	s.mu.Unlock()

	if d, ok := s.delays[line]; ok {
		time.Sleep(d)
	}
	if err, ok := s.errs[line]; ok {
		return nil, err
	}
	if res, ok := s.results[line]; ok {
		return res, nil
	}

	date, _, _ := strings.Cut(line, " ")
	return &costflow.Transaction{Date: date, Narration: line, Output: line + "\n"}, nil
}

func (s *stubParser) seen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]string, len(s.lines))
	copy(lines, s.lines)
	return lines
}

func newJournal(t *testing.T, parser costflow.Parser, accounts map[string]string) *journal.Journal {
	t.Helper()

	cfg := config.Default()
	cfg.Accounts = accounts

	j, err := journal.New(cfg, parser)
	assert.NoError(t, err)
	return j
}

func TestAliasSubstitution(t *testing.T) {
	parser := &stubParser{}
	j := newJournal(t, parser, map[string]string{"food": "Expenses:Needs:Food"})

	err := j.Ingest(context.Background(), []string{"2023-04-01 lunch > food: 200 | foodie: 5"})
	assert.NoError(t, err)

	seen := parser.seen()
	assert.Equal(t, 1, len(seen))
	assert.True(t, strings.Contains(seen[0], "Expenses:Needs:Food: 200"))
	assert.False(t, strings.Contains(seen[0], "food: 200"))

	// Keys that are a prefix of a longer token must not be substituted.
	assert.True(t, strings.Contains(seen[0], "foodie: 5"))
}

func TestNewRejectsMalformedAliases(t *testing.T) {
	tests := []struct {
		name     string
		accounts map[string]string
	}{
		{"empty key", map[string]string{"": "Assets:Cash"}},
		{"key with spaces", map[string]string{"my food": "Expenses:Needs:Food"}},
		{"empty account", map[string]string{"food": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Accounts = tt.accounts

			_, err := journal.New(cfg, &stubParser{})
			assert.Error(t, err)
		})
	}
}

func TestResetThenExportIsEmpty(t *testing.T) {
	j := newJournal(t, &stubParser{}, nil)

	err := j.Ingest(context.Background(), []string{"2023-04-01 coffee"})
	assert.NoError(t, err)
	assert.Equal(t, 1, j.Len())

	j.Reset()
	j.Reset() // Idempotent.

	assert.Equal(t, 0, j.Len())
	assert.Equal(t, "", j.Export(journal.MustParseDate("0001-01-01"), journal.MustParseDate("9999-12-31")))
}

func TestIngestSkipsRejections(t *testing.T) {
	parser := &stubParser{
		results: map[string]costflow.Result{
			"generic": &costflow.Generic{Output: "generic"},
		},
		errs: map[string]error{
			"broken": fmt.Errorf("no postings"),
		},
	}
	j := newJournal(t, parser, nil)

	// Rejections are silently skipped; no error surfaces.
	err := j.Ingest(context.Background(), []string{"broken", "generic", "2023-04-01 coffee"})
	assert.NoError(t, err)
	assert.Equal(t, 1, j.Len())
}

func TestIngestSkipsMalformedDates(t *testing.T) {
	parser := &stubParser{
		results: map[string]costflow.Result{
			"bad": &costflow.Transaction{Date: "not-a-date", Output: "bad\n"},
		},
	}
	j := newJournal(t, parser, nil)

	err := j.Ingest(context.Background(), []string{"bad", "2023-04-01 coffee"})
	assert.NoError(t, err)
	assert.Equal(t, 1, j.Len())
	assert.Equal(t, "2023-04-01", j.Entries()[0].Date.String())
}

func TestIngestPreservesInputOrder(t *testing.T) {
	// Earlier lines finish last; appended order must still match input order.
	parser := &stubParser{
		delays: map[string]time.Duration{
			"2023-04-01 first":  30 * time.Millisecond,
			"2023-04-02 second": 15 * time.Millisecond,
			"2023-04-03 third":  0,
		},
	}
	j := newJournal(t, parser, nil)

	lines := []string{"2023-04-01 first", "2023-04-02 second", "2023-04-03 third"}
	assert.NoError(t, j.Ingest(context.Background(), lines))

	entries := j.Entries()
	assert.Equal(t, 3, len(entries))
	for i, entry := range entries {
		assert.Equal(t, lines[i], entry.Narration)
	}
}

func TestIngestCancelled(t *testing.T) {
	j := newJournal(t, &stubParser{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := j.Ingest(ctx, []string{"2023-04-01 coffee"})
	assert.Error(t, err)
	assert.Equal(t, 0, j.Len())
}

func TestExportRange(t *testing.T) {
	j := newJournal(t, &stubParser{}, nil)

	assert.NoError(t, j.Ingest(context.Background(), []string{
		"2023-04-01 first",
		"2023-04-15 second",
		"2023-04-30 third",
		"2023-05-01 fourth",
	}))

	tests := []struct {
		name     string
		from, to string
		expected []string
	}{
		{"full month", "2023-04-01", "2023-04-30", []string{"first", "second", "third"}},
		{"start bound inclusive", "2023-04-01", "2023-04-01", []string{"first"}},
		{"end bound inclusive", "2023-04-30", "2023-04-30", []string{"third"}},
		{"one day before start", "2023-04-02", "2023-04-30", []string{"second", "third"}},
		{"one day after end", "2023-04-01", "2023-04-29", []string{"first", "second"}},
		{"no matches", "2023-06-01", "2023-06-30", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := j.Export(journal.MustParseDate(tt.from), journal.MustParseDate(tt.to))

			if tt.expected == nil {
				assert.Equal(t, "", got)
				return
			}
			for _, want := range tt.expected {
				assert.True(t, strings.Contains(got, want))
			}

			// Entries are separated (and followed) by a blank line.
			blocks := strings.Split(strings.TrimSuffix(got, "\n"), "\n\n")
			assert.Equal(t, len(tt.expected), len(blocks))
		})
	}
}

func TestExportDoesNotMutate(t *testing.T) {
	j := newJournal(t, &stubParser{}, nil)
	assert.NoError(t, j.Ingest(context.Background(), []string{"2023-04-01 coffee"}))

	from, to := journal.MustParseDate("2023-04-01"), journal.MustParseDate("2023-04-01")
	first := j.Export(from, to)
	second := j.Export(from, to)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, j.Len())
}

func TestEndToEnd(t *testing.T) {
	cfg := config.Default()
	cfg.Accounts = map[string]string{
		"food": "Expenses:Needs:Food",
		"cash": "Assets:Cash",
	}
	assert.NoError(t, cfg.Validate())

	parser := costflow.New(
		costflow.WithCurrency(cfg.Currency),
		costflow.WithDefaultAccount(cfg.DefaultAccount),
	)

	j, err := journal.New(cfg, parser)
	assert.NoError(t, err)

	markdown := `# April

- 2023-04-01 Coffee Shop > food: 150
- not a ledger line
`

	j.Reset()
	assert.NoError(t, j.Ingest(context.Background(), extract.Extract(markdown)))
	assert.Equal(t, 1, j.Len())

	entry := j.Entries()[0]
	assert.Equal(t, "2023-04-01", entry.Date.String())
	assert.Equal(t, "Coffee Shop", entry.Narration)

	day := journal.MustParseDate("2023-04-01")
	got := j.Export(day, day)
	assert.Equal(t, entry.Output+"\n", got)
	assert.True(t, strings.HasSuffix(got, "\n\n"))
	assert.True(t, strings.Contains(got, "Expenses:Needs:Food"))
	assert.True(t, strings.Contains(got, "Assets:Cash"))

	assert.Equal(t, "", j.Export(journal.MustParseDate("2023-04-02"), journal.MustParseDate("2023-04-30")))
}
