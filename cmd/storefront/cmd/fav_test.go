package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sferrors "github.com/Aman-CERP/storefront/internal/errors"
)

func TestFavCmd_PersistsAcrossRuns(t *testing.T) {
	dir := testEnv(t)

	// When: toggling a favorite in one run
	out, err := execute(t, dir, "fav", "toggle", "s24-ultra")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Galaxy S24 Ultra to favorites")

	// Then: a later run lists it
	out, err = execute(t, dir, "fav", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "♥ Galaxy S24 Ultra")

	// And: search marks it
	out, err = execute(t, dir, "search", "ultra", "--format", "json")
	require.NoError(t, err)
	var doc resultsJSON
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	for _, r := range doc.Results {
		assert.Equal(t, r.ID == "s24-ultra", r.Favorite, r.ID)
	}
}

func TestFavCmd_ToggleTwiceRemoves(t *testing.T) {
	dir := testEnv(t)

	_, err := execute(t, dir, "fav", "toggle", "redmi-note-13")
	require.NoError(t, err)
	out, err := execute(t, dir, "fav", "toggle", "redmi-note-13")
	require.NoError(t, err)

	assert.Contains(t, out, "Removed Redmi Note 13 from favorites")
	out, err = execute(t, dir, "fav", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No favorites yet")
}

func TestFavCmd_ListJSONAndClear(t *testing.T) {
	dir := testEnv(t)

	_, err := execute(t, dir, "fav", "toggle", "oppo-find-x7")
	require.NoError(t, err)
	_, err = execute(t, dir, "fav", "toggle", "iphone-15-pro")
	require.NoError(t, err)

	out, err := execute(t, dir, "fav", "list", "--json")
	require.NoError(t, err)
	var items []itemJSON
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "oppo-find-x7", items[0].ID)
	assert.Equal(t, "iphone-15-pro", items[1].ID)

	out, err = execute(t, dir, "fav", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared 2 favorites")

	out, err = execute(t, dir, "fav", "list", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestFavCmd_UnknownID(t *testing.T) {
	dir := testEnv(t)

	_, err := execute(t, dir, "fav", "toggle", "ghost")

	require.Error(t, err)
	assert.Equal(t, sferrors.ErrCodeItemNotFound, sferrors.GetCode(err))
}

func TestFavCmd_MemoryBackendWarnsNothing(t *testing.T) {
	dir := testEnv(t)
	t.Setenv("STOREFRONT_STORAGE_BACKEND", "memory")

	out, err := execute(t, dir, "fav", "toggle", "s24-ultra")
	require.NoError(t, err)
	assert.NotContains(t, out, "not saved")

	// Memory state does not outlive the run
	out, err = execute(t, dir, "fav", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No favorites yet")
}
