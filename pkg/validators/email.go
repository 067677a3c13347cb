package validators

import (
	"net/mail"
	"strings"
)

var (
	ErrEmailEmpty   = invalid("no email address provided")
	ErrEmailInvalid = invalid("invalid email address provided")
)

func EmailValidator(e string) error {
	e = strings.TrimSpace(e)
	if e == "" {
		return ErrEmailEmpty
	}

	addr, err := mail.ParseAddress(e)
	if err != nil {
		return ErrEmailInvalid
	}

	// ParseAddress accepts "Name <a@b.c>", only bare addresses are allowed
	if addr.Address != e {
		return ErrEmailInvalid
	}

	return nil
}
