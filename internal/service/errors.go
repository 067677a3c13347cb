// Package service wraps the external collaborators: TMDB and SMTP
package service

import "errors"

// ErrExternalService matches failures of a third party the app depends on
var ErrExternalService = errors.New("external service unavailable")
