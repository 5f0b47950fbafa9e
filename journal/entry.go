package journal

import (
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/costnote/costflow"
)

// Entry is one successfully parsed transaction held by the Journal. Entries
// are immutable once appended.
type Entry struct {
	Date      Date
	Payee     string
	Narration string
	Tags      []string
	Links     []string
	Postings  []Posting
	Output    string // Rendered beancount block.
}

// Posting is one leg of an entry. Amounts keep their original sign; debits
// are positive, credits negative.
type Posting struct {
	Account string
	Amount  decimal.Decimal
}

// newEntry converts an accepted parser transaction into an Entry. A date the
// parser let through but that does not parse here fails the conversion, and
// the caller skips the entry.
func newEntry(txn *costflow.Transaction) (*Entry, error) {
	date, err := ParseDate(txn.Date)
	if err != nil {
		return nil, err
	}

	postings := make([]Posting, len(txn.Postings))
	for i, p := range txn.Postings {
		postings[i] = Posting{Account: p.Account, Amount: p.Amount}
	}

	return &Entry{
		Date:      date,
		Payee:     txn.Payee,
		Narration: txn.Narration,
		Tags:      txn.Tags,
		Links:     txn.Links,
		Postings:  postings,
		Output:    txn.Output,
	}, nil
}

// Split partitions the entry's postings into debit (amount >= 0) and credit
// (amount < 0) groups. Credit amounts are sign-flipped to positive
// magnitudes. The underlying multiset of (account, signed amount) pairs is
// unchanged; only the grouping differs.
func (e *Entry) Split() (debits, credits []Posting) {
	for _, p := range e.Postings {
		if p.Amount.IsNegative() {
			credits = append(credits, Posting{Account: p.Account, Amount: p.Amount.Neg()})
			continue
		}
		debits = append(debits, p)
	}
	return debits, credits
}
