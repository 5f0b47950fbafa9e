// Package costflow parses informal one-line ledger entries into beancount
// transactions.
//
// A line has the shape:
//
//	DATE [@payee] narration [#tag ...] [^link ...] > POSTING (>|| POSTING)*
//
// where DATE is YYYY-MM-DD (or "today"/"yesterday", resolved against the
// configured timezone) and each POSTING is an account optionally followed by
// a signed amount:
//
//	2023-04-01 Coffee Shop > Expenses:Needs:Food: 150
//	2023-04-05 @Acme salary #income > Income:Salary: -5000 | Assets:Bank
//
// Amounts are carried as decimals in a single configured currency. At most
// one posting may omit its amount, which is inferred so the transaction
// balances; when every posting carries an amount and the sum is not zero, a
// balancing leg on the configured default account is appended. The rendered
// beancount block is attached to the returned Transaction.
//
// Lines with a valid date but no flow section parse to a Generic result.
// Anything else is an error; callers are expected to treat errors as
// "skip this line", not as failures to surface.
package costflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Parser turns a single line into a Result. Implementations must be safe for
// concurrent use; the journal fans lines out over goroutines.
type Parser interface {
	Parse(ctx context.Context, line string) (Result, error)
}

// LineParser is the default Parser implementation.
type LineParser struct {
	currency       string
	defaultAccount string
	location       *time.Location
	now            func() time.Time
}

var _ Parser = (*LineParser)(nil)

// Option configures a LineParser.
type Option func(*LineParser)

// WithCurrency sets the currency code used for all amounts.
func WithCurrency(currency string) Option {
	return func(p *LineParser) {
		p.currency = currency
	}
}

// WithDefaultAccount sets the account used for appended balancing legs.
func WithDefaultAccount(account string) Option {
	return func(p *LineParser) {
		p.defaultAccount = account
	}
}

// WithLocation sets the timezone used to resolve relative dates.
func WithLocation(loc *time.Location) Option {
	return func(p *LineParser) {
		p.location = loc
	}
}

// WithNow overrides the clock used for relative dates. Intended for tests.
func WithNow(now func() time.Time) Option {
	return func(p *LineParser) {
		p.now = now
	}
}

// New creates a LineParser. Defaults: CNY, Assets:Cash, UTC.
func New(opts ...Option) *LineParser {
	p := &LineParser{
		currency:       "CNY",
		defaultAccount: "Assets:Cash",
		location:       time.UTC,
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Parse parses a single line. See the package documentation for the grammar.
func (p *LineParser) Parse(ctx context.Context, line string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return nil, fmt.Errorf("empty line")
	}

	dateTok := line
	rest := ""
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		dateTok, rest = line[:i], strings.TrimSpace(line[i+1:])
	}

	date, err := p.parseDate(dateTok)
	if err != nil {
		return nil, err
	}

	head, flows, found := strings.Cut(rest, ">")
	if !found {
		return &Generic{Output: line}, nil
	}

	txn := &Transaction{Date: date}
	if err := parseHead(head, txn); err != nil {
		return nil, err
	}

	postings, err := p.parsePostings(flows)
	if err != nil {
		return nil, err
	}
	txn.Postings = postings
	txn.Output = p.render(txn)

	return txn, nil
}

// parseDate resolves a date token to YYYY-MM-DD.
func (p *LineParser) parseDate(tok string) (string, error) {
	switch tok {
	case "today":
		return p.now().In(p.location).Format("2006-01-02"), nil
	case "yesterday":
		return p.now().In(p.location).AddDate(0, 0, -1).Format("2006-01-02"), nil
	}

	if _, err := time.Parse("2006-01-02", tok); err != nil {
		return "", fmt.Errorf("invalid date %q", tok)
	}
	return tok, nil
}

// parseHead fills payee, narration, tags and links from the text between the
// date and the first flow delimiter.
func parseHead(head string, txn *Transaction) error {
	tokens := strings.Fields(head)

	var narration []string
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case strings.HasPrefix(tok, `@"`):
			// Quoted payee: consume tokens until the closing quote.
			payee := []string{strings.TrimPrefix(tok, "@")}
			for !strings.HasSuffix(payee[len(payee)-1], `"`) || payee[len(payee)-1] == `"` {
				i++
				if i >= len(tokens) {
					return fmt.Errorf("unterminated payee quote")
				}
				payee = append(payee, tokens[i])
			}
			txn.Payee = strings.Trim(strings.Join(payee, " "), `"`)
		case strings.HasPrefix(tok, "@"):
			txn.Payee = tok[1:]
		case strings.HasPrefix(tok, "#") && len(tok) > 1:
			txn.Tags = append(txn.Tags, tok[1:])
		case strings.HasPrefix(tok, "^") && len(tok) > 1:
			txn.Links = append(txn.Links, tok[1:])
		default:
			narration = append(narration, tok)
		}
	}

	txn.Narration = strings.Join(narration, " ")
	return nil
}

// parsePostings parses the flow section into balanced postings.
func (p *LineParser) parsePostings(flows string) ([]Posting, error) {
	segments := strings.FieldsFunc(flows, func(r rune) bool {
		return r == '>' || r == '|'
	})

	var (
		postings []Posting
		sum      = decimal.Zero
		inferred = -1
	)

	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			return nil, fmt.Errorf("empty posting segment")
		}

		account, amount, err := splitPosting(segment)
		if err != nil {
			return nil, err
		}
		if !ValidAccount(account) {
			return nil, fmt.Errorf("invalid account %q", account)
		}

		if amount == nil {
			if inferred >= 0 {
				return nil, fmt.Errorf("more than one posting without an amount")
			}
			inferred = len(postings)
			postings = append(postings, Posting{Account: account})
			continue
		}

		sum = sum.Add(*amount)
		postings = append(postings, Posting{Account: account, Amount: *amount})
	}

	if len(postings) == 0 {
		return nil, fmt.Errorf("no postings")
	}

	switch {
	case inferred >= 0 && len(postings) == 1:
		return nil, fmt.Errorf("single posting without an amount")
	case inferred >= 0:
		postings[inferred].Amount = sum.Neg()
	case !sum.IsZero():
		postings = append(postings, Posting{Account: p.defaultAccount, Amount: sum.Neg()})
	}

	return postings, nil
}

// splitPosting splits "Account[: amount]" into its parts. A nil amount means
// the amount was omitted and must be inferred.
func splitPosting(segment string) (string, *decimal.Decimal, error) {
	account := segment

	if i := strings.LastIndex(segment, ":"); i >= 0 {
		tail := strings.TrimSpace(segment[i+1:])
		if amount, err := decimal.NewFromString(tail); err == nil {
			account = strings.TrimSpace(segment[:i])
			return account, &amount, nil
		}
	}

	// Alias substitution leaves a trailing colon when no amount follows.
	account = strings.TrimSuffix(strings.TrimSpace(account), ":")
	if account == "" {
		return "", nil, fmt.Errorf("posting has no account")
	}

	return account, nil, nil
}
