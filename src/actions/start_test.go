package actions

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sharedconfig "github.com/tlou-esports/te-suggestions/src/config"
	"github.com/tlou-esports/te-suggestions/src/data"
	"github.com/tlou-esports/te-suggestions/src/suggestions"
)

func TestOpenSuggestionStore(t *testing.T) {
	file := filepath.Join(t.TempDir(), "suggestions.json")
	store, err := OpenSuggestionStore(sharedconfig.StoreConfig{Backend: sharedconfig.StoreFile, File: file}, nil)
	require.NoError(t, err)
	assert.IsType(t, &suggestions.FileStore{}, store)

	_, err = OpenSuggestionStore(sharedconfig.StoreConfig{Backend: sharedconfig.StoreRedis}, nil)
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	store, err = OpenSuggestionStore(sharedconfig.StoreConfig{Backend: sharedconfig.StoreRedis, RedisKey: "k"}, rdb)
	require.NoError(t, err)
	id, err := store.NextID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestOpenSuggestionStoreFoldsConfiguredVoteKeys(t *testing.T) {
	file := filepath.Join(t.TempDir(), "suggestions.json")
	raw := `{"last_id": 1, "panel_id": 900, "suggestions": [{"id": 1, "message_id": 10, "author_id": 7,
        "content": "a valid suggestion", "votes": {"<:Up:1>": [5], "<:Cross:1422628421913149440>": [6]},
        "status": "pending", "staff_response": null}]}`
	require.NoError(t, os.WriteFile(file, []byte(raw), 0o644))

	store, err := OpenSuggestionStore(sharedconfig.StoreConfig{
		Backend:          sharedconfig.StoreFile,
		File:             file,
		LegacyApproveKey: "<:Up:1>",
	}, nil)
	require.NoError(t, err)

	doc, err := store.Load(context.Background())
	require.NoError(t, err)
	rec := doc.Find(1)
	require.NotNil(t, rec)
	assert.Equal(t, []string{"5"}, rec.Votes[suggestions.MarkApprove])
	assert.Equal(t, []string{"6"}, rec.Votes[suggestions.MarkReject])
	assert.Equal(t, "900", doc.Panel())
}

func TestCommandDefinitionsWithoutDatabase(t *testing.T) {
	data.ResetSettings()
	t.Setenv("ENABLE_SUGGESTIONS", "true")

	names := map[string]bool{}
	for _, def := range CommandDefinitions(nil) {
		names[def.Name] = true
	}
	assert.True(t, names["suggest"])
	assert.True(t, names["approve"])
	assert.False(t, names["add_reminder"], "reminders need a database")
}

func TestStartAllRequiresBot(t *testing.T) {
	_, err := StartAll(context.Background(), Deps{})
	assert.Error(t, err)
}
