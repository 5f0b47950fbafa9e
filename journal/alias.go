package journal

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/exp/slices"
)

// aliasRule rewrites one alias key to its full account path. The pattern
// matches "<key>:" as a whole word, so a key that is a prefix of a longer
// token (food vs foodie) is never substituted.
type aliasRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// aliasKeyRe restricts alias keys to word characters so the \b anchors in
// the compiled pattern are well defined.
var aliasKeyRe = regexp.MustCompile(`^\w+$`)

// compileAliases builds the substitution rules for an account mapping.
// Malformed mappings are construction-time errors; nothing is validated
// again during ingestion.
func compileAliases(accounts map[string]string) ([]aliasRule, error) {
	keys := make([]string, 0, len(accounts))
	for key := range accounts {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	rules := make([]aliasRule, 0, len(keys))
	for _, key := range keys {
		account := accounts[key]
		if !aliasKeyRe.MatchString(key) {
			return nil, fmt.Errorf("invalid account alias %q", key)
		}
		if account == "" {
			return nil, fmt.Errorf("account alias %q has no account path", key)
		}

		pattern, err := regexp.Compile(`\b` + regexp.QuoteMeta(key) + `:`)
		if err != nil {
			return nil, fmt.Errorf("failed to compile alias %q: %w", key, err)
		}

		rules = append(rules, aliasRule{
			pattern:     pattern,
			replacement: strings.ReplaceAll(account, "$", "$$") + ":",
		})
	}

	return rules, nil
}

// resolveAliases applies every alias rule to a line.
func resolveAliases(rules []aliasRule, line string) string {
	for _, rule := range rules {
		line = rule.pattern.ReplaceAllString(line, rule.replacement)
	}
	return line
}
