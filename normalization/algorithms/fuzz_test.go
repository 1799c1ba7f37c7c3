package algorithms

import "testing"

// Тесты для FullProcess
func TestFuzzyScorer_FullProcess(t *testing.T) {
	fs := NewFuzzyScorer()

	tests := []struct {
		input    string
		expected string
	}{
		{"A&B Clinic", "a b clinic"},
		{"  Memorial   Hospital  ", "memorial   hospital"},
		{"STAPH.", "staph"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tt := range tests {
		result := fs.FullProcess(tt.input)
		if result != tt.expected {
			t.Errorf("FullProcess(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

// Тесты для расстояния вставок/удалений
func TestIndelDistance(t *testing.T) {
	tests := []struct {
		s1       string
		s2       string
		expected int
	}{
		{"test", "test", 0},
		{"test", "", 4},
		{"", "test", 4},
		{"abcd", "abce", 2}, // замена = удаление + вставка
		{"memorial hospital", "memorial hosp", 4},
	}

	for _, tt := range tests {
		result := indelDistance([]rune(tt.s1), []rune(tt.s2))
		if result != tt.expected {
			t.Errorf("indelDistance(%q, %q) = %d, want %d", tt.s1, tt.s2, result, tt.expected)
		}
	}
}

// Тесты для Ratio
func TestFuzzyScorer_Ratio(t *testing.T) {
	fs := NewFuzzyScorer()

	tests := []struct {
		s1       string
		s2       string
		expected int
	}{
		{"test", "test", 100},
		{"", "", 100},
		{"abcd", "", 0},
		{"abcd", "abce", 75},
		{"hello", "hallo", 80},
		{"memorial hospital", "memorial hosp", 87},
	}

	for _, tt := range tests {
		result := fs.Ratio(tt.s1, tt.s2)
		if result != tt.expected {
			t.Errorf("Ratio(%q, %q) = %d, want %d", tt.s1, tt.s2, result, tt.expected)
		}
	}
}

// Тесты для PartialRatio
func TestFuzzyScorer_PartialRatio(t *testing.T) {
	fs := NewFuzzyScorer()

	tests := []struct {
		s1       string
		s2       string
		expected int
	}{
		{"test", "this is a test", 100},
		{"this is a test", "test", 100}, // порядок аргументов не важен
		{"test", "test", 100},
		{"", "", 100},
		{"", "abc", 0},
	}

	for _, tt := range tests {
		result := fs.PartialRatio(tt.s1, tt.s2)
		if result != tt.expected {
			t.Errorf("PartialRatio(%q, %q) = %d, want %d", tt.s1, tt.s2, result, tt.expected)
		}
	}
}

// Тесты для токенных метрик
func TestFuzzyScorer_TokenSortRatio(t *testing.T) {
	fs := NewFuzzyScorer()

	result := fs.TokenSortRatio("fuzzy wuzzy was a bear", "wuzzy fuzzy was a bear")
	if result != 100 {
		t.Errorf("TokenSortRatio should ignore token order, got %d", result)
	}
}

func TestFuzzyScorer_TokenSetRatio(t *testing.T) {
	fs := NewFuzzyScorer()

	result := fs.TokenSetRatio("fuzzy was a bear", "fuzzy fuzzy was a bear")
	if result != 100 {
		t.Errorf("TokenSetRatio should ignore duplicated tokens, got %d", result)
	}
}

func TestFuzzyScorer_TokenStemRatio(t *testing.T) {
	fs := NewFuzzyScorer()

	result := fs.TokenStemRatio("bacterial infections", "infection bacterial")
	if result != 100 {
		t.Errorf("TokenStemRatio should fold inflected forms, got %d", result)
	}
}

// Тесты для WRatio
func TestFuzzyScorer_WRatio(t *testing.T) {
	fs := NewFuzzyScorer()

	tests := []struct {
		s1       string
		s2       string
		expected int
	}{
		{"test", "test", 100},
		{"Test!", "test", 100}, // пунктуация не влияет
		{"", "test", 0},
		{"test", "", 0},
		{"memorial hospital", "memorial hosp", 87},
	}

	for _, tt := range tests {
		result := fs.WRatio(tt.s1, tt.s2)
		if result != tt.expected {
			t.Errorf("WRatio(%q, %q) = %d, want %d", tt.s1, tt.s2, result, tt.expected)
		}
	}
}

func TestFuzzyScorer_WRatio_Range(t *testing.T) {
	fs := NewFuzzyScorer()

	pairs := [][2]string{
		{"St. Mary Oncology", "St Mary Onc."},
		{"E coli", "Escherichia coli"},
		{"a", "completely different string"},
	}

	for _, p := range pairs {
		score := fs.WRatio(p[0], p[1])
		if score < 0 || score > 100 {
			t.Errorf("WRatio(%q, %q) = %d, out of range [0, 100]", p[0], p[1], score)
		}
	}
}

// Тесты для ExtractTop
func TestFuzzyScorer_ExtractTop(t *testing.T) {
	fs := NewFuzzyScorer()

	choices := []string{"new york jets", "new york giants", "dallas cowboys", "atlanta falcons"}
	matches := fs.ExtractTop("new york", choices, 10)

	if len(matches) != len(choices) {
		t.Fatalf("Expected %d matches, got %d", len(choices), len(matches))
	}

	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Errorf("Matches not sorted by score descending: %v", matches)
		}
	}

	if matches[0].Target != "new york jets" && matches[0].Target != "new york giants" {
		t.Errorf("Expected a new york team first, got %q", matches[0].Target)
	}
}

func TestFuzzyScorer_ExtractTop_TieOrder(t *testing.T) {
	fs := NewFuzzyScorer()

	// Оба кандидата получают одинаковую оценку — порядок выбора сохраняется
	choices := []string{"abce", "abcf"}
	matches := fs.ExtractTop("abcd", choices, 10)

	if matches[0].Score != matches[1].Score {
		t.Fatalf("Expected a tie, got %d and %d", matches[0].Score, matches[1].Score)
	}
	if matches[0].Target != "abce" || matches[1].Target != "abcf" {
		t.Errorf("Tie must preserve choices order, got %v", matches)
	}
}

func TestFuzzyScorer_ExtractTop_Limit(t *testing.T) {
	fs := NewFuzzyScorer()

	choices := []string{"aaa", "aab", "aac", "aad", "aae"}
	matches := fs.ExtractTop("aaa", choices, 3)

	if len(matches) != 3 {
		t.Errorf("Expected 3 matches with limit 3, got %d", len(matches))
	}
}
