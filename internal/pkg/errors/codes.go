package errors

import "net/http"

var (
	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrTooManyPoints = New(
		"TOO_MANY_POINTS",
		"Point count exceeds the matrix size limit",
		http.StatusUnprocessableEntity,
	)

	ErrMatrixUnavailable = New(
		"MATRIX_UNAVAILABLE",
		"Routing engine is unavailable",
		http.StatusBadGateway,
	)

	ErrMatrixMalformed = New(
		"MATRIX_MALFORMED",
		"Routing engine returned a malformed matrix",
		http.StatusBadGateway,
	)

	ErrInfeasible = New(
		"INFEASIBLE",
		"No feasible assignment exists for the given fleet",
		http.StatusUnprocessableEntity,
	)

	ErrOptimizationTimeout = New(
		"OPTIMIZATION_TIMEOUT",
		"Optimization did not finish within the allotted time",
		http.StatusGatewayTimeout,
	)

	ErrPointNotFound = New(
		"POINT_NOT_FOUND",
		"Collection point not found",
		http.StatusNotFound,
	)

	ErrVehicleNotFound = New(
		"VEHICLE_NOT_FOUND",
		"Vehicle not found",
		http.StatusNotFound,
	)

	ErrDepotNotFound = New(
		"DEPOT_NOT_FOUND",
		"Organization has no depot configured",
		http.StatusNotFound,
	)

	ErrItineraryNotFound = New(
		"ITINERARY_NOT_FOUND",
		"Itinerary not found",
		http.StatusNotFound,
	)

	ErrOptimizationNotFound = New(
		"OPTIMIZATION_NOT_FOUND",
		"Optimization result not found",
		http.StatusNotFound,
	)

	ErrInvalidStatusTransition = New(
		"INVALID_STATUS_TRANSITION",
		"Itinerary status transition is not allowed",
		http.StatusConflict,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
