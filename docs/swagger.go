// Package docs Routing Microservice API.
//
// Микросервис построения маршрутов сбора отходов.
// Распределяет заявленные точки сбора по машинам организации с учётом
// вместимости и лимита времени смены, минимизируя суммарный пробег.
//
// Основные возможности:
// - Построение маршрутов (CVRP) по матрице расстояний OSRM
// - Оценка матрицы по прямым расстояниям при недоступности OSRM
// - Хранение и выдача результатов оптимизации
// - Управление статусами маршрутов машин
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package docs
