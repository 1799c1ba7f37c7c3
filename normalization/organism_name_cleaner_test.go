package normalization

import "testing"

func TestCleanOrganismName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"possible E. Coli", "E coli (possible)"},
		{"Klebsiella pneumoniae", "Klebsiella pneumoniae"},
		{"STAPH. AUREUS", "Staph aureus"},
		{"staphylococcus - aureus", "Staphylococcus aureus"},
		{"acinetobacter complex complex", "Acinetobacter complex"},
		{"enterobacter species species", "Enterobacter species"},
		{"klebsiella (suspected)", "Klebsiella (suspected)"},
		{"a suspected klebsiella", "Klebsiella (suspected)"},
		{"suspected  klebsiella   pneumoniae", "Klebsiella pneumoniae (suspected)"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		result := CleanOrganismName(tt.input)
		if result != tt.expected {
			t.Errorf("CleanOrganismName(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

// Нормализация обязана быть идемпотентной: повторная очистка ничего не меняет
func TestCleanOrganismName_Idempotent(t *testing.T) {
	inputs := []string{
		"possible E. Coli",
		"Klebsiella pneumoniae",
		"acinetobacter complex complex complex",
		"a suspected klebsiella",
		"STAPH. AUREUS",
		"Staphylococcus aureus (suspected)",
		"",
	}

	for _, input := range inputs {
		once := CleanOrganismName(input)
		twice := CleanOrganismName(once)
		if once != twice {
			t.Errorf("CleanOrganismName not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestSplitOrganisms(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"E coli & possible Klebsiella", []string{"E coli", "possible Klebsiella"}},
		{"Single organism", []string{"Single organism"}},
		{"a &b& c", []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		result := SplitOrganisms(tt.input)
		if len(result) != len(tt.expected) {
			t.Errorf("SplitOrganisms(%q) = %v, want %v", tt.input, result, tt.expected)
			continue
		}
		for i := range result {
			if result[i] != tt.expected[i] {
				t.Errorf("SplitOrganisms(%q)[%d] = %q, want %q", tt.input, i, result[i], tt.expected[i])
			}
		}
	}
}

func TestOrganismNameCleaner_Cache(t *testing.T) {
	cleaner := NewOrganismNameCleaner()

	first := cleaner.Clean("possible E. Coli")
	second := cleaner.Clean("possible E. Coli")

	if first != second {
		t.Errorf("Cached result differs: %q vs %q", first, second)
	}
	if first != "E coli (possible)" {
		t.Errorf("Clean returned %q, want %q", first, "E coli (possible)")
	}
	if cleaner.CacheSize() != 1 {
		t.Errorf("Expected cache size 1, got %d", cleaner.CacheSize())
	}

	// Кеш не должен влиять на результат по сравнению с прямым вызовом
	if direct := CleanOrganismName("possible E. Coli"); direct != first {
		t.Errorf("Cache changed observable result: %q vs %q", direct, first)
	}
}
