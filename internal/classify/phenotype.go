package classify

import "strings"

// Matcher decides whether a phenotype label denotes the target signature.
//
// In exact mode a label matches when it equals one of the accepted literal
// labels (case-insensitive). Fallback mode, chosen when a scan of the data
// found no exact hits at all, matches any label containing every marker
// token in any order.
type Matcher struct {
	tokens   []string
	exact    map[string]struct{}
	fallback bool
}

func NewMatcher(tokens, literals []string, fallback bool) *Matcher {
	m := &Matcher{
		tokens:   make([]string, 0, len(tokens)),
		exact:    make(map[string]struct{}, len(literals)),
		fallback: fallback,
	}
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			m.tokens = append(m.tokens, t)
		}
	}
	for _, l := range literals {
		l = strings.ToLower(strings.TrimSpace(l))
		if l != "" {
			m.exact[l] = struct{}{}
		}
	}
	return m
}

func (m *Matcher) Fallback() bool { return m.fallback }

// Match reports whether label denotes the target phenotype under the
// matcher's current mode.
func (m *Matcher) Match(label string) bool {
	label = strings.TrimSpace(label)
	if label == "" {
		return false
	}
	if m.fallback {
		return m.ContainsAllTokens(label)
	}
	_, ok := m.exact[strings.ToLower(label)]
	return ok
}

// MatchesLiteral reports whether label equals one of the accepted literals,
// regardless of mode. The scan uses it to decide whether fallback is needed.
func (m *Matcher) MatchesLiteral(label string) bool {
	_, ok := m.exact[strings.ToLower(strings.TrimSpace(label))]
	return ok
}

// ContainsAllTokens reports whether every marker token occurs somewhere in
// the label, case-insensitive, in any order.
func (m *Matcher) ContainsAllTokens(label string) bool {
	if len(m.tokens) == 0 {
		return false
	}
	cl := strings.ToLower(label)
	for _, t := range m.tokens {
		if !strings.Contains(cl, t) {
			return false
		}
	}
	return true
}
