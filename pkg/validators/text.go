package validators

import (
	"strings"
	"unicode/utf8"
)

const (
	maxNameLength    = 100
	maxReviewLength  = 30
	maxTitleLength   = 250
	maxMessageLength = 5000
)

var (
	ErrNameEmpty      = invalid("no name provided")
	ErrNameTooLong    = invalid("name is too long")
	ErrReviewEmpty    = invalid("no review provided")
	ErrReviewTooLong  = invalid("review can't be longer than 30 characters")
	ErrTitleEmpty     = invalid("no movie title provided")
	ErrTitleTooLong   = invalid("movie title is too long")
	ErrMessageEmpty   = invalid("no message provided")
	ErrMessageTooLong = invalid("message is too long")
)

func NameValidator(n string) error {
	return text(n, maxNameLength, ErrNameEmpty, ErrNameTooLong)
}

func ReviewValidator(r string) error {
	return text(r, maxReviewLength, ErrReviewEmpty, ErrReviewTooLong)
}

func TitleValidator(t string) error {
	return text(t, maxTitleLength, ErrTitleEmpty, ErrTitleTooLong)
}

func MessageValidator(m string) error {
	return text(m, maxMessageLength, ErrMessageEmpty, ErrMessageTooLong)
}

func text(s string, max int, empty, tooLong error) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return empty
	}

	if utf8.RuneCountInString(s) > max {
		return tooLong
	}

	return nil
}
