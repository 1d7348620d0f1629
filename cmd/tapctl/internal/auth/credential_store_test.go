package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapcard/tapcard/pkg/sdk"
)

func TestFileStoreRoundTrip(t *testing.T) {
	t.Setenv("TAPCARD_HOME", t.TempDir())

	store, err := NewFileStore()
	require.NoError(t, err)

	loaded, err := store.LoadCredentials()
	require.NoError(t, err)
	assert.Nil(t, loaded, "a fresh store holds nothing")

	creds := &sdk.Credentials{
		AccessToken:  "at-1",
		RefreshToken: "rt-1",
		IssuedAt:     time.Now().Truncate(time.Second),
	}
	require.NoError(t, store.SaveCredentials(creds))

	loaded, err = store.LoadCredentials()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, creds.AccessToken, loaded.AccessToken)
	assert.Equal(t, creds.RefreshToken, loaded.RefreshToken)
	assert.True(t, creds.IssuedAt.Equal(loaded.IssuedAt))

	info, err := os.Stat(filepath.Join(os.Getenv("TAPCARD_HOME"), credentialsFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	require.NoError(t, store.DeleteCredentials())
	loaded, err = store.LoadCredentials()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	require.NoError(t, store.DeleteCredentials(), "deleting an empty store is not an error")
}
