package services

import (
	"prepserver/normalization/algorithms"
	apperrors "prepserver/server/errors"
)

// SimilarityService сервис диагностики метрик схожести
type SimilarityService struct {
	scorer  *algorithms.FuzzyScorer
	stemmer *algorithms.EnglishStemmer
}

// NewSimilarityService создает новый сервис схожести
func NewSimilarityService() *SimilarityService {
	return &SimilarityService{
		scorer:  algorithms.NewFuzzyScorer(),
		stemmer: algorithms.NewEnglishStemmer(),
	}
}

// Compare сравнивает две строки всеми метриками семейства
func (ss *SimilarityService) Compare(string1, string2 string) (map[string]interface{}, error) {
	if string1 == "" || string2 == "" {
		return nil, apperrors.NewValidationError("both strings are required", nil)
	}

	results := map[string]interface{}{
		"ratio":            ss.scorer.Ratio(string1, string2),
		"partial_ratio":    ss.scorer.PartialRatio(string1, string2),
		"token_sort_ratio": ss.scorer.TokenSortRatio(string1, string2),
		"token_set_ratio":  ss.scorer.TokenSetRatio(string1, string2),
		"token_stem_ratio": ss.scorer.TokenStemRatio(string1, string2),
		"wratio":           ss.scorer.WRatio(string1, string2),
		"stems": map[string]string{
			"string1": ss.stemmer.StemText(string1),
			"string2": ss.stemmer.StemText(string2),
		},
	}

	return map[string]interface{}{
		"string1": string1,
		"string2": string2,
		"results": results,
	}, nil
}

// ExtractTop возвращает лучшие совпадения запроса среди кандидатов
func (ss *SimilarityService) ExtractTop(query string, choices []string, limit int) ([]algorithms.Match, error) {
	if query == "" {
		return nil, apperrors.NewValidationError("query is required", nil)
	}
	if len(choices) == 0 {
		return nil, apperrors.NewValidationError("choices are required", nil)
	}
	if limit <= 0 {
		limit = 10
	}

	return ss.scorer.ExtractTop(query, choices, limit), nil
}
