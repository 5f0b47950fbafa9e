package costflow

import (
	"github.com/shopspring/decimal"
)

// Result is the outcome of parsing a single line. It is a closed union:
// *Transaction for lines that describe a ledger transaction, *Generic for
// well-formed lines that are not transactions. Parse failures are reported
// as errors, not as a Result variant. Callers discriminate with a single
// type switch at the boundary.
type Result interface {
	result()
}

// Generic is a parsed line that carries no transaction, such as a dated line
// without a flow section. Output holds the line as it would be emitted.
type Generic struct {
	Output string
}

func (*Generic) result() {}

// Transaction is a parsed ledger transaction.
//
// Postings keep their signed amounts as written or inferred; the sum of all
// posting amounts is always zero. Output holds the rendered beancount block
// for the transaction.
type Transaction struct {
	Date      string // YYYY-MM-DD
	Payee     string
	Narration string
	Tags      []string
	Links     []string
	Postings  []Posting
	Output    string
}

func (*Transaction) result() {}

// Posting is one leg of a transaction.
type Posting struct {
	Account string
	Amount  decimal.Decimal
}
