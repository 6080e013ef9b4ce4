package services

import (
	"errors"

	"moonlight/internal/dataprocessing"
)

// Data service errors
var (
	ErrNoData            = errors.New("no data available")
	ErrUnknownCountry    = errors.New("unknown country")
	ErrMetricUnavailable = dataprocessing.ErrMetricUnavailable
	ErrInvalidFormat     = errors.New("invalid export format")
	ErrDataCorrupted     = errors.New("data file is corrupted")
	ErrInvalidInput      = errors.New("invalid input")
)
