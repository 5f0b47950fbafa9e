package costflow

import (
	"regexp"
	"strings"
)

// accountSegmentRe validates account segments after the root. Segments must
// start with an uppercase letter or digit and may contain alphanumerics and
// hyphens.
var accountSegmentRe = regexp.MustCompile(`^[A-Z0-9][A-Za-z0-9-]*$`)

// ValidAccount reports whether name is a well-formed beancount account:
// at least two colon-separated segments, rooted in one of the five account
// categories.
//
// Example accounts:
//
//	Assets:Cash
//	Expenses:Needs:Food
//	Liabilities:CreditCard:CapitalOne
func ValidAccount(name string) bool {
	parts := strings.Split(name, ":")
	if len(parts) < 2 {
		return false
	}

	switch parts[0] {
	case "Assets", "Liabilities", "Equity", "Income", "Expenses":
	default:
		return false
	}

	for _, segment := range parts[1:] {
		if !accountSegmentRe.MatchString(segment) {
			return false
		}
	}

	return true
}
