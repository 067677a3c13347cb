// Package auth maps a request to the user it acts for
package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
)

const contextKey = "identity"

var ErrUnauthorized = errors.New("you need to log in first")

// Identity is either a logged in user or anonymous (empty UserID)
type Identity struct {
	UserID string
}

var Anonymous = Identity{}

func User(id string) Identity {
	return Identity{UserID: id}
}

func (i Identity) IsAnonymous() bool {
	return i.UserID == ""
}

// Require fails with ErrUnauthorized for anonymous identities
func (i Identity) Require() error {
	if i.IsAnonymous() {
		return ErrUnauthorized
	}

	return nil
}

// Attach stores the identity for the rest of the request
func Attach(c *gin.Context, i Identity) {
	c.Set(contextKey, i)

	if !i.IsAnonymous() {
		c.Set("userID", i.UserID)
	}
}

// From returns the identity attached to a request, anonymous if none was
func From(c *gin.Context) Identity {
	v, ok := c.Get(contextKey)
	if !ok {
		return Anonymous
	}

	i, ok := v.(Identity)
	if !ok {
		return Anonymous
	}

	return i
}
