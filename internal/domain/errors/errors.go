package errors

import "errors"

var (
	ErrNotFound           = errors.New("problem not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrValidationFailed   = errors.New("validation failed")
	ErrInternalServer     = errors.New("internal server error")
	ErrBadRequest         = errors.New("bad request")
	ErrConflict           = errors.New("resource conflict")
	ErrDatabaseConnection = errors.New("database connection failed")

	ErrTitleRequired      = errors.New("Title is required")
	ErrStatusRequired     = errors.New("Status is required")
	ErrInvalidStatus      = errors.New("Invalid status")
	ErrInvalidDifficulty  = errors.New("Difficulty must be an integer between 1 and 5")
	ErrInvalidTopic       = errors.New("Topic is too long")
	ErrInvalidDeadline    = errors.New("Invalid deadline_date format. Use YYYY-MM-DD")
	ErrInvalidGzipRequest = errors.New("invalid gzip request body")

	ErrGzipCompressionFailed = errors.New("gzip compression failed")

	ErrConfigFileReadFailed = errors.New("failed to read config file")
	ErrConfigParseFailed    = errors.New("failed to parse config file")
	ErrConfigInvalidFormat  = errors.New("invalid config value")
	ErrUnknownStorageDriver = errors.New("unknown storage driver")
)
