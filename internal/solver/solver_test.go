package solver

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routing-microservice/internal/domain"
)

// testMatrix строит матрицу, где время численно равно дистанции (1 м/с)
func testMatrix(distances [][]float64) *domain.CostMatrix {
	durations := make([][]float64, len(distances))
	for i, row := range distances {
		durations[i] = append([]float64(nil), row...)
	}
	return &domain.CostMatrix{Distances: distances, Durations: durations}
}

func collectAssigned(t *testing.T, sol *Solution) map[int]int {
	t.Helper()
	seen := make(map[int]int)
	for _, route := range sol.Routes {
		for _, p := range route.Order {
			seen[p]++
		}
	}
	return seen
}

func TestSolve(t *testing.T) {
	vehicleA := uuid.New()
	vehicleB := uuid.New()

	t.Run("single point round trip", func(t *testing.T) {
		p := &Problem{
			Matrix: testMatrix([][]float64{
				{0, 700},
				{700, 0},
			}),
			Demands:  []float64{3},
			Vehicles: []VehicleSpec{{ID: vehicleA, Capacity: 10}},
		}

		sol, err := Solve(p)
		require.NoError(t, err)
		require.Len(t, sol.Routes, 1)
		assert.Equal(t, []int{0}, sol.Routes[0].Order)
		assert.Equal(t, 1400.0, sol.Routes[0].DistanceM)
		assert.Equal(t, 1400.0, sol.TotalDistanceM)
		assert.Empty(t, sol.Unassigned)
	})

	t.Run("capacity forces split across two vehicles", func(t *testing.T) {
		// база, A на 1 км, B на 2 км; спрос 5+5 не влезает в ёмкость 8
		matrix := testMatrix([][]float64{
			{0, 1000, 2000},
			{1000, 0, 1000},
			{2000, 1000, 0},
		})
		p := &Problem{
			Matrix:  matrix,
			Demands: []float64{5, 5},
			Vehicles: []VehicleSpec{
				{ID: vehicleA, Capacity: 8},
				{ID: vehicleB, Capacity: 8},
			},
		}

		sol, err := Solve(p)
		require.NoError(t, err)
		require.Len(t, sol.Routes, 2)
		assert.Empty(t, sol.Unassigned)

		for _, route := range sol.Routes {
			assert.LessOrEqual(t, route.Load, 8.0)
			require.Len(t, route.Order, 1)
		}
		// каждая точка ровно один раз
		seen := collectAssigned(t, sol)
		assert.Equal(t, map[int]int{0: 1, 1: 1}, seen)
	})

	t.Run("infeasible points are reported not dropped", func(t *testing.T) {
		matrix := testMatrix([][]float64{
			{0, 1000, 2000, 3000},
			{1000, 0, 1000, 2000},
			{2000, 1000, 0, 1000},
			{3000, 2000, 1000, 0},
		})
		p := &Problem{
			Matrix:   matrix,
			Demands:  []float64{4, 4, 9},
			Vehicles: []VehicleSpec{{ID: vehicleA, Capacity: 8}},
		}

		sol, err := Solve(p)
		require.NoError(t, err)
		require.Len(t, sol.Routes, 1)
		assert.LessOrEqual(t, sol.Routes[0].Load, 8.0)

		// точка 2 (спрос 9 > 8) не могла попасть ни в один маршрут
		assert.Contains(t, sol.Unassigned, 2)

		seen := collectAssigned(t, sol)
		for _, p := range sol.Unassigned {
			assert.Zero(t, seen[p])
		}
		assert.Equal(t, 3, len(seen)+len(sol.Unassigned))
	})

	t.Run("duration budget closes route early", func(t *testing.T) {
		// каждая точка в 600 с от базы и друг от друга
		matrix := testMatrix([][]float64{
			{0, 600, 600},
			{600, 0, 600},
			{600, 600, 0},
		})
		p := &Problem{
			Matrix:           matrix,
			Demands:          []float64{1, 1},
			Vehicles:         []VehicleSpec{{ID: vehicleA, Capacity: 10}},
			MaxRouteDuration: 1300, // хватает на одну точку (1200), не на две
		}

		sol, err := Solve(p)
		require.NoError(t, err)
		require.Len(t, sol.Routes, 1)
		assert.Len(t, sol.Routes[0].Order, 1)
		assert.LessOrEqual(t, sol.Routes[0].DurationSec, 1300.0)
		assert.Len(t, sol.Unassigned, 1)
	})

	t.Run("service time counts against duration budget", func(t *testing.T) {
		matrix := testMatrix([][]float64{
			{0, 600, 600},
			{600, 0, 600},
			{600, 600, 0},
		})
		p := &Problem{
			Matrix:           matrix,
			Demands:          []float64{1, 1},
			Vehicles:         []VehicleSpec{{ID: vehicleA, Capacity: 10}},
			MaxRouteDuration: 1300,
			ServiceTime:      200, // 1200 + 200 > 1300, ни одна точка не влезает
		}

		sol, err := Solve(p)
		require.NoError(t, err)
		assert.Empty(t, sol.Routes)
		assert.Len(t, sol.Unassigned, 2)
	})

	t.Run("deterministic output", func(t *testing.T) {
		matrix := testMatrix([][]float64{
			{0, 1000, 1000, 1000},
			{1000, 0, 500, 500},
			{1000, 500, 0, 500},
			{1000, 500, 500, 0},
		})
		p := &Problem{
			Matrix:  matrix,
			Demands: []float64{2, 2, 2},
			Vehicles: []VehicleSpec{
				{ID: vehicleA, Capacity: 10},
			},
		}

		first, err := Solve(p)
		require.NoError(t, err)
		second, err := Solve(p)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("equal cost prefers lower point index", func(t *testing.T) {
		// обе точки на одинаковом расстоянии от базы
		matrix := testMatrix([][]float64{
			{0, 1000, 1000},
			{1000, 0, 800},
			{1000, 800, 0},
		})
		p := &Problem{
			Matrix:   matrix,
			Demands:  []float64{5, 5},
			Vehicles: []VehicleSpec{{ID: vehicleA, Capacity: 5}},
		}

		sol, err := Solve(p)
		require.NoError(t, err)
		require.Len(t, sol.Routes, 1)
		assert.Equal(t, []int{0}, sol.Routes[0].Order)
		assert.Equal(t, []int{1}, sol.Unassigned)
	})

	t.Run("two opt untangles crossed route", func(t *testing.T) {
		// точки на линии: порядок объезда 0-1-2 короче любого другого
		matrix := testMatrix([][]float64{
			{0, 1000, 2000, 3000},
			{1000, 0, 1000, 2000},
			{2000, 1000, 0, 1000},
			{3000, 2000, 1000, 0},
		})
		p := &Problem{
			Matrix:   matrix,
			Demands:  []float64{1, 1, 1},
			Vehicles: []VehicleSpec{{ID: vehicleA, Capacity: 10}},
		}

		sol, err := Solve(p)
		require.NoError(t, err)
		require.Len(t, sol.Routes, 1)
		// оптимум: до дальней точки и обратно вдоль линии, 6000 м
		assert.Equal(t, 6000.0, sol.Routes[0].DistanceM)
		assert.Len(t, sol.Routes[0].Order, 3)
		assert.Empty(t, sol.Unassigned)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := Solve(nil)
		assert.Error(t, err)

		_, err = Solve(&Problem{
			Matrix:   testMatrix([][]float64{{0, 1}, {1, 0}}),
			Demands:  []float64{1},
			Vehicles: nil,
		})
		assert.Error(t, err)

		_, err = Solve(&Problem{
			Matrix:   testMatrix([][]float64{{0, 1}, {1, 0}}),
			Demands:  []float64{1, 1}, // размерность не совпадает
			Vehicles: []VehicleSpec{{ID: vehicleA, Capacity: 5}},
		})
		assert.Error(t, err)

		_, err = Solve(&Problem{
			Matrix:   testMatrix([][]float64{{0, 1}, {1, 0}}),
			Demands:  []float64{-1},
			Vehicles: []VehicleSpec{{ID: vehicleA, Capacity: 5}},
		})
		assert.Error(t, err)

		_, err = Solve(&Problem{
			Matrix:   testMatrix([][]float64{{0, 1}, {1, 0}}),
			Demands:  []float64{1},
			Vehicles: []VehicleSpec{{ID: vehicleA, Capacity: 0}},
		})
		assert.Error(t, err)
	})
}
