package algorithms

import "sort"

// Match — один результат извлечения: строка-кандидат и ее оценка
type Match struct {
	Target string
	Score  int
}

// ExtractTop оценивает запрос против каждого кандидата через WRatio и
// возвращает лучшие совпадения по убыванию оценки. При равных оценках
// сохраняется исходный порядок кандидатов. limit <= 0 означает без лимита.
func (fs *FuzzyScorer) ExtractTop(query string, choices []string, limit int) []Match {
	matches := make([]Match, 0, len(choices))
	for _, choice := range choices {
		matches = append(matches, Match{
			Target: choice,
			Score:  fs.WRatio(query, choice),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	return matches
}
