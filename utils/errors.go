package utils

import "errors"

var (
	ErrInvalidDateRange    = errors.New("date range start must not be after end")
	ErrInvalidDateFormat   = errors.New("dates must use YYYY-MM-DD format")
	ErrEmptyOrganization   = errors.New("organization cannot be empty")
	ErrInvalidOrganization = errors.New("invalid organization name")
	ErrEmptyTeamSlug       = errors.New("team slug cannot be empty")
	ErrInvalidTeamSlug     = errors.New("invalid team slug format")
	ErrInvalidNormalizeDay = errors.New("normalize must be a non-negative day count")
)
