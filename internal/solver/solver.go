// Package solver реализует эвристическое решение CVRP:
// жадная вставка с минимальной ценой + 2-opt улучшение маршрутов.
// Пакет чистый и детерминированный: никаких внешних вызовов,
// одинаковый вход всегда даёт одинаковый результат.
package solver

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/routing-microservice/internal/domain"
)

// epsilon - порог сравнения стоимостей; при равенстве в пределах
// epsilon выигрывает точка с меньшим индексом
const epsilon = 1e-6

// VehicleSpec - машина с точки зрения решателя
type VehicleSpec struct {
	ID       uuid.UUID
	Capacity float64
}

// Problem - вход решателя. Узел 0 матрицы - база,
// точка i соответствует узлу i+1.
type Problem struct {
	Matrix           *domain.CostMatrix
	Demands          []float64
	Vehicles         []VehicleSpec
	MaxRouteDuration float64 // секунды, 0 - без ограничения
	ServiceTime      float64 // секунды на обслуживание точки
	TwoOptMaxPasses  int
}

// VehicleRoute - маршрут одной машины, порядок точек финальный
type VehicleRoute struct {
	VehicleID   uuid.UUID
	Order       []int // индексы точек в порядке объезда
	DistanceM   float64
	DurationSec float64
	Load        float64
}

// Solution - результат решения. Точки, которые не удалось
// разместить, перечислены в Unassigned, а не отброшены.
type Solution struct {
	Routes         []VehicleRoute
	TotalDistanceM float64
	Unassigned     []int
}

// Solve строит маршруты для всех машин. Ошибка возвращается только
// на некорректный вход; нехватка ёмкости - это Unassigned, не ошибка.
func Solve(p *Problem) (*Solution, error) {
	if err := validateProblem(p); err != nil {
		return nil, err
	}

	n := len(p.Demands)
	assigned := make([]bool, n)
	remaining := n

	solution := &Solution{}

	for _, vehicle := range p.Vehicles {
		if remaining == 0 {
			break
		}

		route := constructRoute(p, vehicle, assigned, &remaining)
		if len(route.Order) == 0 {
			continue
		}

		route.Order = twoOptImprove(p, route.Order)
		route.DistanceM = RouteDistance(p.Matrix, route.Order)
		route.DurationSec = RouteDuration(p.Matrix, route.Order, p.ServiceTime)

		solution.Routes = append(solution.Routes, route)
		solution.TotalDistanceM += route.DistanceM
	}

	for i := 0; i < n; i++ {
		if !assigned[i] {
			solution.Unassigned = append(solution.Unassigned, i)
		}
	}

	return solution, nil
}

// constructRoute наполняет маршрут машины жадной вставкой:
// на каждом шаге выбирается пара (точка, позиция) с минимальным
// приростом дистанции среди допустимых по ёмкости и времени.
func constructRoute(p *Problem, vehicle VehicleSpec, assigned []bool, remaining *int) VehicleRoute {
	route := VehicleRoute{VehicleID: vehicle.ID}

	for *remaining > 0 {
		bestPoint := -1
		bestPos := -1
		bestCost := 0.0

		for point := range p.Demands {
			if assigned[point] {
				continue
			}
			if !FitsCapacity(route.Load, p.Demands[point], vehicle.Capacity) {
				continue
			}

			for pos := 0; pos <= len(route.Order); pos++ {
				cost := insertionCost(p.Matrix, route.Order, point, pos)
				if bestPoint != -1 && cost >= bestCost-epsilon {
					// при равной цене побеждает меньший индекс точки,
					// который перебор встречает первым
					continue
				}

				candidate := insertAt(route.Order, point, pos)
				duration := RouteDuration(p.Matrix, candidate, p.ServiceTime)
				if !FitsDuration(duration, p.MaxRouteDuration) {
					continue
				}

				bestPoint = point
				bestPos = pos
				bestCost = cost
			}
		}

		if bestPoint == -1 {
			break
		}

		route.Order = insertAt(route.Order, bestPoint, bestPos)
		route.Load += p.Demands[bestPoint]
		assigned[bestPoint] = true
		*remaining--
	}

	return route
}

// insertionCost - прирост дистанции от вставки точки в позицию pos
func insertionCost(m *domain.CostMatrix, order []int, point, pos int) float64 {
	prev := 0 // база
	if pos > 0 {
		prev = order[pos-1] + 1
	}
	next := 0
	if pos < len(order) {
		next = order[pos] + 1
	}
	node := point + 1
	return m.Distances[prev][node] + m.Distances[node][next] - m.Distances[prev][next]
}

func insertAt(order []int, point, pos int) []int {
	out := make([]int, 0, len(order)+1)
	out = append(out, order[:pos]...)
	out = append(out, point)
	out = append(out, order[pos:]...)
	return out
}

func validateProblem(p *Problem) error {
	if p == nil || p.Matrix == nil {
		return fmt.Errorf("solver: problem and matrix are required")
	}
	if len(p.Demands) == 0 {
		return fmt.Errorf("solver: at least one point is required")
	}
	if len(p.Vehicles) == 0 {
		return fmt.Errorf("solver: at least one vehicle is required")
	}
	if !p.Matrix.IsComplete() {
		return fmt.Errorf("solver: cost matrix is incomplete")
	}
	if p.Matrix.Dimension() != len(p.Demands)+1 {
		return fmt.Errorf("solver: matrix dimension %d does not match %d points",
			p.Matrix.Dimension(), len(p.Demands))
	}
	for i, d := range p.Demands {
		if d < 0 {
			return fmt.Errorf("solver: point %d has negative demand", i)
		}
	}
	for _, v := range p.Vehicles {
		if v.Capacity <= 0 {
			return fmt.Errorf("solver: vehicle %s has non-positive capacity", v.ID)
		}
	}
	return nil
}
