package rowstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/domrows/internal/domrow"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "rows.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRows() []domrow.Row {
	return []domrow.Row{
		{ID: 0, Path: "html", Attributes: "{}", Contents: domrow.StringPtr("{id1} {id2}")},
		{ID: 1, Path: "html/head", Attributes: "{}"},
		{ID: 2, Path: "html/body", Attributes: `{"class": "main"}`, Contents: domrow.StringPtr("hello")},
	}
}

func TestSaveAndLoad(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "page", sampleRows()))

	got, err := s.Load(ctx, "page")
	require.NoError(t, err)
	assert.Equal(t, sampleRows(), got)
	assert.Nil(t, got[1].Contents, "absent contents should stay nil")
}

func TestSaveReplacesExisting(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "page", sampleRows()))
	require.NoError(t, s.Save(ctx, "page", sampleRows()[:1]))

	got, err := s.Load(ctx, "page")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].RowCount)
}

func TestSaveRequiresName(t *testing.T) {
	s := openTestStore(t)
	assert.Error(t, s.Save(context.Background(), "", sampleRows()))
}

func TestLoadMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListAndDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "a", sampleRows()))
	require.NoError(t, s.Save(ctx, "b", sampleRows()[:2]))

	list, err := s.List(ctx)
	require.NoError(t, err)
	names := []string{}
	for _, sum := range list {
		names = append(names, sum.Name)
	}
	assert.ElementsMatch(t, []string{"a", "b"}, names)

	require.NoError(t, s.Delete(ctx, "a"))
	_, err = s.Load(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "a"), ErrNotFound)

	got, err := s.Load(ctx, "b")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestLoadEmptyRowSet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "empty", nil))
	got, err := s.Load(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, got)
}
