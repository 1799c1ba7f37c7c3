package algorithms

import "testing"

func TestEnglishStemmer_Stem(t *testing.T) {
	stemmer := NewEnglishStemmer()

	tests := []struct {
		input    string
		expected string
	}{
		{"infections", "infect"},
		{"infection", "infect"},
		{"running", "run"},
		{"cats", "cat"},
		{"", ""},
	}

	for _, tt := range tests {
		result := stemmer.Stem(tt.input)
		if result != tt.expected {
			t.Errorf("Stem(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestEnglishStemmer_StemWithCache(t *testing.T) {
	stemmer := NewEnglishStemmer()

	first := stemmer.StemWithCache("infections")
	second := stemmer.StemWithCache("infections")

	if first != second {
		t.Errorf("Cached result differs: %q vs %q", first, second)
	}
	if stemmer.GetCacheSize() != 1 {
		t.Errorf("Expected cache size 1, got %d", stemmer.GetCacheSize())
	}

	stemmer.ClearCache()
	if stemmer.GetCacheSize() != 0 {
		t.Errorf("Expected empty cache after ClearCache, got %d", stemmer.GetCacheSize())
	}
}

func TestEnglishStemmer_StemText(t *testing.T) {
	stemmer := NewEnglishStemmer()

	result := stemmer.StemText("suspected bacterial infections")
	expected := "suspect bacteri infect"
	if result != expected {
		t.Errorf("StemText = %q, want %q", result, expected)
	}
}

func TestEnglishStemmer_StemSimilarity(t *testing.T) {
	stemmer := NewEnglishStemmer()

	if sim := stemmer.StemSimilarity("infection", "infections"); sim != 1.0 {
		t.Errorf("Expected stem similarity 1.0 for inflected forms, got %f", sim)
	}
	if sim := stemmer.StemSimilarity("infection", "hospital"); sim != 0.0 {
		t.Errorf("Expected stem similarity 0.0 for unrelated words, got %f", sim)
	}
}
