package store

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/bryantinsley/dashtailor/dashboard/pkg/config"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk on fire")
}

func (failingKV) Set(context.Context, string, string) error {
	return errors.New("disk on fire")
}

func TestLayoutStore_InitializeDefaults(t *testing.T) {
	ctx := context.Background()
	s := NewLayoutStore(NewMemoryKV(), nil)
	require.NoError(t, s.InitializeDefaults(ctx))

	for _, p := range layout.Profiles() {
		got := s.Get(ctx, p)
		assert.Equal(t, layout.DefaultCards(p), got.Cards, "profile %s", p)
		assert.Empty(t, got.DeletedCards, "profile %s", p)
		assert.NotNil(t, got.DeletedCards, "profile %s", p)
	}
}

func TestLayoutStore_InitializeDefaultsKeepsExisting(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := NewLayoutStore(kv, nil)

	custom := layout.Layout{Cards: []layout.Card{layout.NewCard("Only Card", "")}}
	require.NoError(t, s.Set(ctx, layout.ProfileTeacher, custom))
	require.NoError(t, s.InitializeDefaults(ctx))

	got := s.Get(ctx, layout.ProfileTeacher)
	require.Len(t, got.Cards, 1)
	assert.Equal(t, "only-card", got.Cards[0].ID)
}

func TestLayoutStore_GetAbsentReturnsDefaults(t *testing.T) {
	s := NewLayoutStore(NewMemoryKV(), nil)
	got := s.Get(context.Background(), layout.ProfileATS)
	assert.Equal(t, layout.DefaultLayout(layout.ProfileATS), got)
}

func TestLayoutStore_CorruptRecordFallsBack(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, "student_layout", "{not json"))

	s := NewLayoutStore(kv, nil)
	got := s.Get(ctx, layout.ProfileStudent)
	assert.Equal(t, layout.DefaultLayout(layout.ProfileStudent), got)
}

func TestLayoutStore_BackendErrorFallsBack(t *testing.T) {
	s := NewLayoutStore(failingKV{}, nil)
	got := s.Get(context.Background(), layout.ProfileDoctoral)
	assert.Equal(t, layout.DefaultLayout(layout.ProfileDoctoral), got)
	assert.Error(t, s.Set(context.Background(), layout.ProfileDoctoral, got))
	assert.Error(t, s.InitializeDefaults(context.Background()))
}

func TestLayoutStore_WireFormat(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := NewLayoutStore(kv, nil)

	l := layout.Layout{Cards: []layout.Card{layout.NewCard("Foo Bar", "")}}
	require.NoError(t, s.Set(ctx, layout.ProfileStudent, l))

	raw, ok, err := kv.Get(ctx, "student_layout")
	require.NoError(t, err)
	require.True(t, ok)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	assert.Contains(t, decoded, "cards")
	assert.Contains(t, decoded, "deletedCards")

	card := decoded["cards"].([]any)[0].(map[string]any)
	assert.Equal(t, "foo-bar", card["id"])
	assert.Equal(t, "Foo Bar", card["title"])
	assert.Equal(t, layout.DefaultIcon, card["icon"])
	assert.Nil(t, card["color"])
	assert.Contains(t, card, "color")
	assert.Equal(t, true, card["visible"])
}

func TestFileKV_RoundTripAndAbsent(t *testing.T) {
	ctx := context.Background()
	kv, err := NewFileKV(filepath.Join(t.TempDir(), "layouts"))
	require.NoError(t, err)

	_, ok, err := kv.Get(ctx, "teacher_layout")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "teacher_layout", `{"cards":[]}`))
	require.NoError(t, kv.Set(ctx, "teacher_layout", `{"cards":[],"deletedCards":[]}`))

	v, ok, err := kv.Get(ctx, "teacher_layout")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"cards":[],"deletedCards":[]}`, v)
	assert.FileExists(t, kv.PathFor("teacher_layout"))

	matches, _ := filepath.Glob(filepath.Join(kv.Dir(), "*.tmp"))
	assert.Empty(t, matches, "temp files should not be left behind")
}

func TestFileKV_RejectsPathKeys(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)
	assert.Error(t, kv.Set(context.Background(), "../escape", "x"))
	_, _, err = kv.Get(context.Background(), "a/b")
	assert.Error(t, err)
}

func TestSQLiteKV_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "layouts.db"))
	require.NoError(t, err)
	defer kv.Close()

	_, ok, err := kv.Get(ctx, "ats_layout")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "ats_layout", "one"))
	require.NoError(t, kv.Set(ctx, "ats_layout", "two"))

	v, ok, err := kv.Get(ctx, "ats_layout")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", v)
}

func TestSQLiteKV_BacksLayoutStore(t *testing.T) {
	ctx := context.Background()
	kv, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer kv.Close()

	s := NewLayoutStore(kv, nil)
	require.NoError(t, s.InitializeDefaults(ctx))

	l := s.Get(ctx, layout.ProfileStudent)
	l.Swap("Grades", "Assignments")
	require.NoError(t, s.Set(ctx, layout.ProfileStudent, l))

	got := s.Get(ctx, layout.ProfileStudent)
	assert.Equal(t, "assignments", got.Cards[4].ID)
	assert.Equal(t, "grades", got.Cards[5].ID)
}

func TestOpen_Backends(t *testing.T) {
	dir := t.TempDir()

	cfg := config.Default(dir)
	kv, closer, err := Open(cfg)
	require.NoError(t, err)
	assert.IsType(t, &FileKV{}, kv)
	assert.NoError(t, closer.Close())

	cfg.Storage.Backend = config.BackendMemory
	kv, closer, err = Open(cfg)
	require.NoError(t, err)
	assert.IsType(t, &MemoryKV{}, kv)
	assert.NoError(t, closer.Close())

	cfg.Storage.Backend = config.BackendSQLite
	cfg.Storage.Path = "layouts.db"
	kv, closer, err = Open(cfg)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteKV{}, kv)
	assert.NoError(t, closer.Close())

	cfg.Storage.Backend = "tape"
	_, _, err = Open(cfg)
	assert.Error(t, err)
}
