package internal_test

import (
	"bitwise74/movie-list/config"
	"bitwise74/movie-list/internal"
	"bitwise74/movie-list/internal/testutil"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeps(t *testing.T) {
	cfg := &config.Config{}
	cfg.Security.Secret = "s3cret"
	cfg.Security.SessionTTL = time.Hour

	d, err := internal.NewDeps(cfg, testutil.NewDB(t))
	require.NoError(t, err)

	assert.Same(t, cfg, d.Config)
	assert.NotNil(t, d.Catalog)
	assert.NotNil(t, d.Search)
	assert.NotNil(t, d.Mail)

	// Reset tokens look users up through the same store that registers them
	u, err := d.Accounts.Register(context.Background(), "deps@example.com", "Deps", "password123")
	require.NoError(t, err)

	tok, err := d.ResetTokens.Issue(u, time.Minute)
	require.NoError(t, err)

	got := d.ResetTokens.Verify(context.Background(), tok)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	sess, err := d.Sessions.Issue(u.ID)
	require.NoError(t, err)
	id, err := d.Sessions.Parse(sess)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
}
