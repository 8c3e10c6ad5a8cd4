package solver

const defaultTwoOptPasses = 25

// twoOptImprove улучшает порядок точек разворотом сегментов.
// Принимаются только строгие улучшения дистанции, не нарушающие
// бюджет времени; концы маршрута остаются привязаны к базе.
// Дистанция и время пересчитываются целиком: матрица может быть
// несимметричной, и дельта по крайним рёбрам была бы неверна.
func twoOptImprove(p *Problem, order []int) []int {
	if len(order) < 3 {
		return order
	}

	maxPasses := p.TwoOptMaxPasses
	if maxPasses <= 0 {
		maxPasses = defaultTwoOptPasses
	}

	best := append([]int(nil), order...)
	bestDist := RouteDistance(p.Matrix, best)

	for pass := 0; pass < maxPasses; pass++ {
		improved := false

		for i := 0; i < len(best)-1; i++ {
			for k := i + 1; k < len(best); k++ {
				candidate := reverseSegment(best, i, k)
				dist := RouteDistance(p.Matrix, candidate)
				if dist >= bestDist-epsilon {
					continue
				}
				duration := RouteDuration(p.Matrix, candidate, p.ServiceTime)
				if !FitsDuration(duration, p.MaxRouteDuration) {
					continue
				}
				best = candidate
				bestDist = dist
				improved = true
			}
		}

		if !improved {
			break
		}
	}

	return best
}

func reverseSegment(order []int, i, k int) []int {
	out := append([]int(nil), order...)
	for i < k {
		out[i], out[k] = out[k], out[i]
		i++
		k--
	}
	return out
}
