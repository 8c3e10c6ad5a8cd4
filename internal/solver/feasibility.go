package solver

import (
	"github.com/routing-microservice/internal/domain"
	"github.com/routing-microservice/internal/pkg/utils"
)

// FitsCapacity проверяет, помещается ли ещё одна точка в машину
func FitsCapacity(load, demand, capacity float64) bool {
	return load+demand <= capacity+epsilon
}

// FitsDuration проверяет бюджет времени маршрута; max <= 0 - без лимита
func FitsDuration(duration, max float64) bool {
	if max <= 0 {
		return true
	}
	return duration <= max+epsilon
}

// InZone проверяет попадание точки в зону; nil-зона пропускает всё
func InZone(point domain.Coordinate, zone *domain.Zone) bool {
	if zone == nil {
		return true
	}
	d := utils.HaversineDistance(point.Lat, point.Lon, zone.Center.Lat, zone.Center.Lon)
	return d <= zone.RadiusKm+epsilon
}

// RouteDistance - длина замкнутого маршрута база -> точки -> база, метры
func RouteDistance(m *domain.CostMatrix, order []int) float64 {
	if len(order) == 0 {
		return 0
	}
	total := m.Distances[0][order[0]+1]
	for i := 0; i < len(order)-1; i++ {
		total += m.Distances[order[i]+1][order[i+1]+1]
	}
	total += m.Distances[order[len(order)-1]+1][0]
	return total
}

// RouteDuration - время маршрута в секундах: перегоны из матрицы
// плюс обслуживание каждой точки
func RouteDuration(m *domain.CostMatrix, order []int, serviceTime float64) float64 {
	if len(order) == 0 {
		return 0
	}
	total := m.Durations[0][order[0]+1]
	for i := 0; i < len(order)-1; i++ {
		total += m.Durations[order[i]+1][order[i+1]+1]
	}
	total += m.Durations[order[len(order)-1]+1][0]
	total += serviceTime * float64(len(order))
	return total
}
