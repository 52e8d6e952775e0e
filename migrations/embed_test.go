package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	body, err := fs.ReadFile(FS, "00001_init.sql")
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), "-- +goose Up"))
	require.True(t, strings.Contains(string(body), "CREATE TABLE outfits"))
}
