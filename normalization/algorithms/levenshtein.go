package algorithms

// indelDistance вычисляет редакционное расстояние, в котором разрешены
// только вставки и удаления (замена символа стоит как удаление плюс
// вставка). Именно это расстояние лежит в основе Ratio.
func indelDistance(r1, r2 []rune) int {
	len1 := len(r1)
	len2 := len(r2)

	if len1 == 0 {
		return len2
	}
	if len2 == 0 {
		return len1
	}

	// Оптимизированный алгоритм с одним массивом
	column := make([]int, len1+1)
	for i := 0; i <= len1; i++ {
		column[i] = i
	}

	for x := 1; x <= len2; x++ {
		lastDiag := column[0]
		column[0] = x
		for y := 1; y <= len1; y++ {
			oldDiag := column[y]
			if r1[y-1] == r2[x-1] {
				column[y] = lastDiag
			} else {
				column[y] = min(column[y]+1, column[y-1]+1)
			}
			lastDiag = oldDiag
		}
	}

	return column[len1]
}
