package algorithms

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// FuzzyScorer предоставляет семейство целочисленных метрик схожести строк
// в диапазоне [0, 100] для группировки почти-дубликатов названий
type FuzzyScorer struct {
	stemmer *EnglishStemmer
}

// NewFuzzyScorer создает новый экземпляр скорера
func NewFuzzyScorer() *FuzzyScorer {
	return &FuzzyScorer{
		stemmer: NewEnglishStemmer(),
	}
}

// FullProcess нормализует строку перед токенными метриками:
// нижний регистр, не-буквенно-цифровые символы заменяются пробелами,
// края обрезаются
func (fs *FuzzyScorer) FullProcess(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	return strings.TrimSpace(b.String())
}

// Ratio вычисляет нормализованную схожесть двух строк на основе
// расстояния вставок/удалений. Две пустые строки считаются идентичными.
func (fs *FuzzyScorer) Ratio(s1, s2 string) int {
	return ratioRunes([]rune(s1), []rune(s2))
}

func ratioRunes(r1, r2 []rune) int {
	lensum := len(r1) + len(r2)
	if lensum == 0 {
		return 100
	}

	distance := indelDistance(r1, r2)
	return roundScore(100 * float64(lensum-distance) / float64(lensum))
}

// PartialRatio вычисляет лучший Ratio короткой строки против всех окон
// той же длины в длинной строке
func (fs *FuzzyScorer) PartialRatio(s1, s2 string) int {
	shorter := []rune(s1)
	longer := []rune(s2)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}

	if len(shorter) == 0 {
		if len(longer) == 0 {
			return 100
		}
		return 0
	}

	best := 0
	for start := 0; start+len(shorter) <= len(longer); start++ {
		score := ratioRunes(shorter, longer[start:start+len(shorter)])
		if score > best {
			best = score
			if best == 100 {
				return best
			}
		}
	}

	return best
}

// TokenSortRatio вычисляет Ratio после сортировки токенов обеих строк
func (fs *FuzzyScorer) TokenSortRatio(s1, s2 string) int {
	return fs.Ratio(fs.tokenSort(s1), fs.tokenSort(s2))
}

// PartialTokenSortRatio — частичный вариант TokenSortRatio
func (fs *FuzzyScorer) PartialTokenSortRatio(s1, s2 string) int {
	return fs.PartialRatio(fs.tokenSort(s1), fs.tokenSort(s2))
}

func (fs *FuzzyScorer) tokenSort(s string) string {
	tokens := strings.Fields(fs.FullProcess(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// TokenSetRatio сравнивает пересечение токенов с каждой из строк,
// поэтому перестановка и дублирование слов не снижают оценку
func (fs *FuzzyScorer) TokenSetRatio(s1, s2 string) int {
	return fs.tokenSet(s1, s2, fs.Ratio)
}

// PartialTokenSetRatio — частичный вариант TokenSetRatio
func (fs *FuzzyScorer) PartialTokenSetRatio(s1, s2 string) int {
	return fs.tokenSet(s1, s2, fs.PartialRatio)
}

func (fs *FuzzyScorer) tokenSet(s1, s2 string, compare func(string, string) int) int {
	set1 := tokenSetOf(fs.FullProcess(s1))
	set2 := tokenSetOf(fs.FullProcess(s2))

	var common, diff1, diff2 []string
	for token := range set1 {
		if set2[token] {
			common = append(common, token)
		} else {
			diff1 = append(diff1, token)
		}
	}
	for token := range set2 {
		if !set1[token] {
			diff2 = append(diff2, token)
		}
	}

	sort.Strings(common)
	sort.Strings(diff1)
	sort.Strings(diff2)

	base := strings.Join(common, " ")
	combined1 := strings.TrimSpace(base + " " + strings.Join(diff1, " "))
	combined2 := strings.TrimSpace(base + " " + strings.Join(diff2, " "))

	best := compare(base, combined1)
	if score := compare(base, combined2); score > best {
		best = score
	}
	if score := compare(combined1, combined2); score > best {
		best = score
	}

	return best
}

// TokenStemRatio вычисляет TokenSetRatio по стеммированным токенам,
// так что словоформы ("infection" / "infections") считаются равными
func (fs *FuzzyScorer) TokenStemRatio(s1, s2 string) int {
	return fs.TokenSetRatio(fs.stemmer.StemText(s1), fs.stemmer.StemText(s2))
}

// WRatio вычисляет взвешенную комбинацию метрик семейства.
// Для строк сильно различающейся длины включаются частичные метрики
// с понижающими коэффициентами. Именно эта метрика используется
// при извлечении кандидатов.
func (fs *FuzzyScorer) WRatio(s1, s2 string) int {
	p1 := fs.FullProcess(s1)
	p2 := fs.FullProcess(s2)
	if p1 == "" || p2 == "" {
		return 0
	}

	base := float64(fs.Ratio(p1, p2))

	len1 := float64(len([]rune(p1)))
	len2 := float64(len([]rune(p2)))
	lenRatio := len1 / len2
	if lenRatio < 1 {
		lenRatio = 1 / lenRatio
	}

	const unbaseScale = 0.95

	if lenRatio < 1.5 {
		tokenSort := float64(fs.TokenSortRatio(p1, p2)) * unbaseScale
		tokenSet := float64(fs.TokenSetRatio(p1, p2)) * unbaseScale
		return roundScore(max(base, tokenSort, tokenSet))
	}

	partialScale := 0.90
	if lenRatio > 8 {
		partialScale = 0.60
	}

	partial := float64(fs.PartialRatio(p1, p2)) * partialScale
	partialSort := float64(fs.PartialTokenSortRatio(p1, p2)) * unbaseScale * partialScale
	partialSet := float64(fs.PartialTokenSetRatio(p1, p2)) * unbaseScale * partialScale

	return roundScore(max(base, partial, partialSort, partialSet))
}

// tokenSetOf преобразует обработанную строку в множество токенов
func tokenSetOf(processed string) map[string]bool {
	set := make(map[string]bool)
	for _, token := range strings.Fields(processed) {
		set[token] = true
	}
	return set
}

func roundScore(score float64) int {
	return int(math.Round(score))
}
