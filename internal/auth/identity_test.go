package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestIdentity(t *testing.T) {
	assert.True(t, Anonymous.IsAnonymous())
	assert.ErrorIs(t, Anonymous.Require(), ErrUnauthorized)

	u := User("abc")
	assert.False(t, u.IsAnonymous())
	assert.NoError(t, u.Require())
}

func TestAttachFrom(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Equal(t, Anonymous, From(c))

	Attach(c, User("abc"))
	assert.Equal(t, User("abc"), From(c))
	assert.Equal(t, "abc", c.GetString("userID"))
}
