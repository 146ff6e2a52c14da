package classify

import "testing"

func TestMatcherExactMode(t *testing.T) {
	m := NewMatcher([]string{"cd4", "foxp3"}, []string{"CD4+FOXP3+", "CD4+ FOXP3+"}, false)

	tests := []struct {
		name     string
		label    string
		expected bool
	}{
		{"Exact literal", "CD4+FOXP3+", true},
		{"Case insensitive", "cd4+foxp3+", true},
		{"Whitespace trimmed", "  CD4+FOXP3+  ", true},
		{"Second literal", "CD4+ FOXP3+", true},
		{"Reordered not literal", "FOXP3+ CD4+", false},
		{"Superset not literal", "CD4+FOXP3+ T reg", false},
		{"Other phenotype", "CD8+", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Match(tt.label); got != tt.expected {
				t.Errorf("Match(%q) = %v; want %v", tt.label, got, tt.expected)
			}
		})
	}
}

func TestMatcherFallbackMode(t *testing.T) {
	m := NewMatcher([]string{"cd4", "foxp3"}, []string{"CD4+FOXP3+"}, true)

	tests := []struct {
		name     string
		label    string
		expected bool
	}{
		{"Tokens in order", "CD4+FOXP3+", true},
		{"Tokens reversed", "FOXP3+ CD4+", true},
		{"Tokens embedded", "T reg (CD4+, FOXP3+)", true},
		{"One token only", "CD4+", false},
		{"Other token only", "FOXP3+", false},
		{"No tokens", "CD8+", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Match(tt.label); got != tt.expected {
				t.Errorf("Match(%q) = %v; want %v", tt.label, got, tt.expected)
			}
		})
	}
}

func TestMatchesLiteral(t *testing.T) {
	// Literal matching is mode-independent: the scan uses it while the
	// matcher is still in fallback-undecided state.
	m := NewMatcher([]string{"cd4", "foxp3"}, []string{"CD4+FOXP3+"}, true)
	if !m.MatchesLiteral(" cd4+foxp3+ ") {
		t.Error("MatchesLiteral should normalize case and whitespace")
	}
	if m.MatchesLiteral("FOXP3+ CD4+") {
		t.Error("MatchesLiteral should not do substring matching")
	}
}

func TestMatcherNoTokens(t *testing.T) {
	m := NewMatcher(nil, nil, true)
	if m.Match("CD4+FOXP3+") {
		t.Error("matcher with no tokens should match nothing in fallback mode")
	}
}
