package domain

import "math"

// CostMatrix - квадратная матрица стоимостей перемещения между узлами.
// Узел 0 всегда база (depot), узлы 1..N - точки сбора в порядке запроса.
// Живёт в рамках одного расчёта и не персистится.
type CostMatrix struct {
	Distances [][]float64 `json:"distances"` // meters
	Durations [][]float64 `json:"durations"` // seconds
	Estimated bool        `json:"estimated"` // haversine fallback
}

// Dimension возвращает число узлов матрицы (включая базу)
func (m *CostMatrix) Dimension() int {
	return len(m.Distances)
}

// IsComplete проверяет что матрица квадратная, полная и все значения
// конечны и неотрицательны
func (m *CostMatrix) IsComplete() bool {
	n := len(m.Distances)
	if n == 0 || len(m.Durations) != n {
		return false
	}
	for i := 0; i < n; i++ {
		if len(m.Distances[i]) != n || len(m.Durations[i]) != n {
			return false
		}
		for j := 0; j < n; j++ {
			if !isFiniteNonNegative(m.Distances[i][j]) || !isFiniteNonNegative(m.Durations[i][j]) {
				return false
			}
		}
	}
	return true
}

func isFiniteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// MatrixResponse - ответ внешнего routing-движка (OSRM table API).
// Distances/Durations индексируются так же, как список координат запроса.
type MatrixResponse struct {
	Code      string       `json:"code"`
	Message   string       `json:"message,omitempty"`
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}
