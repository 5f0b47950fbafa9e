package journal_test

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/costnote/config"
	"github.com/robinvdvleuten/costnote/costflow"
	"github.com/robinvdvleuten/costnote/journal"
	"github.com/shopspring/decimal"
)

func TestSplit(t *testing.T) {
	parser := &stubParser{
		results: map[string]costflow.Result{
			"txn": &costflow.Transaction{
				Date:   "2023-04-01",
				Output: "txn\n",
				Postings: []costflow.Posting{
					{Account: "Assets:Cash", Amount: decimal.NewFromInt(-200)},
					{Account: "Expenses:Food", Amount: decimal.NewFromInt(200)},
				},
			},
		},
	}

	j, err := journal.New(config.Default(), parser)
	assert.NoError(t, err)
	assert.NoError(t, j.Ingest(context.Background(), []string{"txn"}))

	entry := j.Entries()[0]
	debits, credits := entry.Split()

	assert.Equal(t, 1, len(debits))
	assert.Equal(t, "Expenses:Food", debits[0].Account)
	assert.True(t, debits[0].Amount.Equal(decimal.NewFromInt(200)))

	// Credit amounts are sign-flipped to positive magnitudes.
	assert.Equal(t, 1, len(credits))
	assert.Equal(t, "Assets:Cash", credits[0].Account)
	assert.True(t, credits[0].Amount.Equal(decimal.NewFromInt(200)))

	// The stored postings keep their original signs.
	assert.True(t, entry.Postings[0].Amount.Equal(decimal.NewFromInt(-200)))
}

func TestParseDate(t *testing.T) {
	d, err := journal.ParseDate("2023-04-01")
	assert.NoError(t, err)
	assert.Equal(t, "2023-04-01", d.String())

	_, err = journal.ParseDate("2023-13-01")
	assert.Error(t, err)

	_, err = journal.ParseDate("april fools")
	assert.Error(t, err)
}
