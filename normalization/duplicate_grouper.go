package normalization

import (
	"sort"
	"strings"
	"unicode"

	"prepserver/normalization/algorithms"
)

// extractLimit ограничивает число совпадений, рассматриваемых на ключ
const extractLimit = 10

// CandidateCluster — один ключ с кандидатами, разделившими высшую оценку
type CandidateCluster struct {
	Key        string   `json:"key"`
	Candidates []string `json:"candidates"`
	Score      int      `json:"score"`
}

// DuplicateGrouper строит кластеры почти-дубликатов по нечеткой схожести
type DuplicateGrouper struct {
	scorer *algorithms.FuzzyScorer
}

// NewDuplicateGrouper создает группировщик с собственным скорером
func NewDuplicateGrouper() *DuplicateGrouper {
	return &DuplicateGrouper{
		scorer: algorithms.NewFuzzyScorer(),
	}
}

// GroupClinicCandidates кластеризует локации клиник. Каждый ключ
// сравнивается со всем набором, включая самого себя; высшей считается
// оценка второго совпадения, кандидатами — все совпадения после первого
// с этой оценкой. Ключи из excluded не образуют кластеров, но могут
// оставаться кандидатами у других ключей. Набор из одного ключа
// кластеров не дает.
func (g *DuplicateGrouper) GroupClinicCandidates(keys []string, excluded map[string]bool) []CandidateCluster {
	sorted := sortedUnique(keys)
	if len(sorted) < 2 {
		return nil
	}

	clusters := make([]CandidateCluster, 0, len(sorted))
	for _, key := range sorted {
		matches := g.scorer.ExtractTop(key, sorted, extractLimit)
		if len(matches) < 2 {
			continue
		}

		highest := matches[1].Score
		candidates := make([]string, 0, len(matches)-1)
		for _, m := range matches[1:] {
			if m.Score == highest {
				candidates = append(candidates, m.Target)
			}
		}

		clusters = append(clusters, CandidateCluster{
			Key:        key,
			Candidates: candidates,
			Score:      highest,
		})
	}

	// Исключения фильтруются после построения: исключенный ключ не получает
	// собственного кластера, но остается кандидатом у соседей
	if len(excluded) > 0 {
		filtered := clusters[:0]
		for _, cluster := range clusters {
			if !excluded[cluster.Key] {
				filtered = append(filtered, cluster)
			}
		}
		clusters = filtered
	}

	return clusters
}

// GroupOrganismCandidates кластеризует названия микроорганизмов. Ключи
// разбиваются на партии по первой букве (пустой ключ попадает в партию "#"),
// и каждая партия кластеризуется независимо. Совпадение с самим собой
// отбрасывается по имени; высшей считается оценка первого оставшегося
// совпадения. Ключи из excluded пропускаются до сравнения.
func (g *DuplicateGrouper) GroupOrganismCandidates(keys []string, excluded map[string]bool) []CandidateCluster {
	sorted := sortedUnique(keys)
	if len(sorted) < 2 {
		return nil
	}

	batches := PartitionByFirstLetter(sorted)

	var clusters []CandidateCluster
	for _, letter := range sortedLetters(batches) {
		batch := batches[letter]
		for _, key := range batch {
			if excluded[key] {
				continue
			}

			matches := g.scorer.ExtractTop(key, batch, extractLimit)

			remaining := matches[:0]
			for _, m := range matches {
				if m.Target != key {
					remaining = append(remaining, m)
				}
			}
			if len(remaining) == 0 {
				continue
			}

			highest := remaining[0].Score
			candidates := make([]string, 0, len(remaining))
			for _, m := range remaining {
				if m.Score == highest {
					candidates = append(candidates, m.Target)
				}
			}

			clusters = append(clusters, CandidateCluster{
				Key:        key,
				Candidates: candidates,
				Score:      highest,
			})
		}
	}

	return clusters
}

// PartitionByFirstLetter разбивает ключи на партии по первой букве в верхнем
// регистре; ключи без первой буквы собираются в партию "#". Порядок ключей
// внутри партии сохраняется.
func PartitionByFirstLetter(keys []string) map[string][]string {
	batches := make(map[string][]string)
	for _, key := range keys {
		letter := "#"
		if r := []rune(key); len(r) > 0 {
			letter = string(unicode.ToUpper(r[0]))
		}
		batches[letter] = append(batches[letter], key)
	}
	return batches
}

// BatchLetters возвращает отсортированный список букв партий для набора ключей
func BatchLetters(keys []string) []string {
	return sortedLetters(PartitionByFirstLetter(keys))
}

func sortedLetters(batches map[string][]string) []string {
	letters := make([]string, 0, len(batches))
	for letter := range batches {
		letters = append(letters, letter)
	}
	sort.Strings(letters)
	return letters
}

// sortedUnique возвращает отсортированную копию без дубликатов и пустых строк
func sortedUnique(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	unique := make([]string, 0, len(keys))
	for _, key := range keys {
		if strings.TrimSpace(key) == "" {
			continue
		}
		if !seen[key] {
			seen[key] = true
			unique = append(unique, key)
		}
	}
	sort.Strings(unique)
	return unique
}
