package validators

import (
	"math"
	"strconv"
	"strings"
)

var (
	ErrRatingEmpty      = invalid("no rating provided")
	ErrRatingInvalid    = invalid("rating must be a number, e.g. 7.5")
	ErrRatingOutOfRange = invalid("rating must be between 0 and 10")
	ErrReleaseDate      = invalid("release date must start with a 4 digit year")
	ErrMovieID          = invalid("invalid movie ID provided")
)

// ParseRating reads a user or TMDB supplied rating out of 10
func ParseRating(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrRatingEmpty
	}

	r, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, ErrRatingInvalid
	}

	if r < 0 || r > 10 {
		return 0, ErrRatingOutOfRange
	}

	return r, nil
}

// ParseYear extracts the year from a TMDB release date such as "2021-09-15"
func ParseYear(releaseDate string) (int, error) {
	if len(releaseDate) < 4 {
		return 0, ErrReleaseDate
	}

	y, err := strconv.Atoi(releaseDate[:4])
	if err != nil || y <= 0 {
		return 0, ErrReleaseDate
	}

	return y, nil
}

// ParseMovieID reads a movie ID from a path parameter
func ParseMovieID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrMovieID
	}

	return uint(id), nil
}
