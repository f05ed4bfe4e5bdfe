package errors

import "net/http"

var (
	ErrDatasetNotLoaded = New(
		"DATASET_NOT_LOADED",
		"Building dataset is not loaded yet",
		http.StatusServiceUnavailable,
	)

	ErrDatasetLoadFailed = New(
		"DATASET_LOAD_FAILED",
		"Failed to load building dataset",
		http.StatusBadGateway,
	)

	ErrInvalidScoringMode = New(
		"INVALID_SCORING_MODE",
		"Unknown scoring mode",
		http.StatusBadRequest,
	)

	ErrInvalidFilter = New(
		"INVALID_FILTER",
		"Invalid filter specification",
		http.StatusBadRequest,
	)

	ErrInvalidEra = New(
		"INVALID_ERA",
		"Unknown era",
		http.StatusBadRequest,
	)

	ErrInvalidExportFormat = New(
		"INVALID_EXPORT_FORMAT",
		"Export format must be csv or json",
		http.StatusBadRequest,
	)

	ErrEmptyImport = New(
		"EMPTY_IMPORT",
		"No valid building entries found",
		http.StatusUnprocessableEntity,
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

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
