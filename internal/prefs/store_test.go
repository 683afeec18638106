package prefs

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-editor/internal/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_PutGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "doc-1", "theme", map[string]string{"font": "serif"}))

	var got map[string]string
	ok, err := s.Get(ctx, "doc-1", "theme", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "serif", got["font"])

	ok, err = s.Get(ctx, "doc-2", "theme", &got)
	require.NoError(t, err)
	assert.False(t, ok, "scopes are isolated")
}

func TestStore_PutOverwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "doc", "k", 1))
	require.NoError(t, s.Put(ctx, "doc", "k", 2))

	var n int
	_, err := s.Get(ctx, "doc", "k", &n)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStore_UnreadableValueIsDiscarded(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "doc", KeySectionOrder, "not a list"))

	order, err := s.SectionOrder(ctx, "doc")
	require.NoError(t, err)
	assert.Empty(t, order)

	keys, err := s.Keys(ctx, "doc")
	require.NoError(t, err)
	assert.NotContains(t, keys, KeySectionOrder)
}

func TestStore_ClearAndKeys(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetContactOrder(ctx, "doc", []string{"email", "phone"}))
	require.NoError(t, s.SetOpenSections(ctx, "doc", []types.ID{"s1"}))
	require.NoError(t, s.SetOpenSections(ctx, "other", []types.ID{"s9"}))

	keys, err := s.Keys(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, []string{KeyContactOrder, KeyOpenSections}, keys)

	require.NoError(t, s.Clear(ctx, "doc"))
	keys, err = s.Keys(ctx, "doc")
	require.NoError(t, err)
	assert.Empty(t, keys)

	open, err := s.OpenSections(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, []types.ID{"s9"}, open)
}

func TestStore_TypedHelpers(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetGroupExpanded(ctx, "doc", "h1", true))
	require.NoError(t, s.SetGroupExpanded(ctx, "doc", "h2", false))
	expansion, err := s.GroupExpansion(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, map[types.ID]bool{"h1": true, "h2": false}, expansion)

	fields := []CustomField{{Key: "github", Label: "GitHub"}}
	require.NoError(t, s.SetCustomFields(ctx, "doc", fields))
	gotFields, err := s.CustomFields(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, fields, gotFields)

	require.NoError(t, s.SetSectionOrder(ctx, "doc", []types.ID{"s2", "s1"}))
	order, err := s.SectionOrder(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, []types.ID{"s2", "s1"}, order)
}

func TestStore_CachedKeywords(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	set, err := s.CachedKeywords(ctx, "doc")
	require.NoError(t, err)
	assert.Nil(t, set)

	want := &types.JDKeywordSet{Matching: []string{"Go"}, Missing: []string{"Kafka"}}
	require.NoError(t, s.SetCachedKeywords(ctx, "doc", want))

	set, err = s.CachedKeywords(ctx, "doc")
	require.NoError(t, err)
	require.NotNil(t, set)
	assert.Equal(t, want.Matching, set.Matching)
	assert.Equal(t, want.Missing, set.Missing)

	require.NoError(t, s.SetCachedKeywords(ctx, "doc", nil))
	set, err = s.CachedKeywords(ctx, "doc")
	require.NoError(t, err)
	assert.Nil(t, set)
}

func TestOpen_FileSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetContactOrder(ctx, "doc", []string{"phone"}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	order, err := s.ContactOrder(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, []string{"phone"}, order)
}
