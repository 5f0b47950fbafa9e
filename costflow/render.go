package costflow

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// minimumSpacing is the gap between an account name and its amount.
const minimumSpacing = 2

// render produces the beancount block for a transaction. Postings are
// indented two spaces with amounts right-aligned so the currency codes line
// up, matching bean-format conventions. Account widths are measured with
// runewidth so double-width characters align too.
func (p *LineParser) render(t *Transaction) string {
	var b strings.Builder

	b.WriteString(t.Date)
	b.WriteString(" *")
	if t.Payee != "" {
		fmt.Fprintf(&b, " %q", t.Payee)
	}
	fmt.Fprintf(&b, " %q", t.Narration)
	for _, tag := range t.Tags {
		b.WriteString(" #")
		b.WriteString(tag)
	}
	for _, link := range t.Links {
		b.WriteString(" ^")
		b.WriteString(link)
	}
	b.WriteByte('\n')

	var accountWidth, numWidth int
	for _, posting := range t.Postings {
		if w := runewidth.StringWidth(posting.Account); w > accountWidth {
			accountWidth = w
		}
		if w := len(posting.Amount.String()); w > numWidth {
			numWidth = w
		}
	}

	for _, posting := range t.Postings {
		padding := accountWidth - runewidth.StringWidth(posting.Account) + minimumSpacing
		fmt.Fprintf(&b, "  %s%s%*s %s\n",
			posting.Account,
			strings.Repeat(" ", padding),
			numWidth, posting.Amount.String(),
			p.currency,
		)
	}

	return b.String()
}
