package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukaszgryglicki/mcml/internal/mcml"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := Open(path)
	require.NoError(t, err)
	v, err := s.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)
	require.NoError(t, s.Close())

	// reopening an up-to-date database is a no-op
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	v, err = s.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)
}

func TestSaveAndGetRun(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	in := RunRecord{
		ID:         "0f1e2d3c",
		Name:       "slab",
		Created:    created,
		Photons:    5000,
		Seed:       1<<63 + 7,
		Workers:    4,
		Elapsed:    1500 * time.Millisecond,
		RSpecular:  0.0275,
		Rd:         0.24,
		Absorbed:   0.7,
		Tt:         0.03,
		ConfigYAML: "runs: []\n",
	}
	id, err := s.SaveRun(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, in.ID, id)

	got, err := s.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, in, got)

	got, err = s.GetRun(ctx, "0f1e")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	_, err = s.GetRun(ctx, "ffff")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveRunAssignsID(t *testing.T) {
	s := openTemp(t)
	id, err := s.SaveRun(context.Background(), RunRecord{Name: "x"})
	require.NoError(t, err)
	assert.Len(t, id, 36)

	got, err := s.GetRun(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, got.Created.IsZero())
}

func TestGetRunAmbiguous(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	for _, id := range []string{"abc1", "abc2", "abc"} {
		_, err := s.SaveRun(ctx, RunRecord{ID: id, Name: id})
		require.NoError(t, err)
	}
	_, err := s.GetRun(ctx, "ab")
	assert.ErrorIs(t, err, ErrAmbiguous)

	// an exact id wins over longer ids sharing it as prefix
	got, err := s.GetRun(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", got.ID)
}

func TestListRuns(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"first", "second", "third"} {
		_, err := s.SaveRun(ctx, RunRecord{Name: name, Created: base.Add(time.Duration(i) * time.Hour)})
		require.NoError(t, err)
	}

	all, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	var names []string
	for _, r := range all {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"third", "second", "first"}, names)

	two, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
	assert.Equal(t, "third", two[0].Name)
}

func TestNewRecord(t *testing.T) {
	rs := mcml.SampleConfig().Runs[0]
	rs.Photons, rs.Seed = 300, 9
	o, err := mcml.Execute(context.Background(), rs, mcml.RunOptions{Workers: 1}, mcml.Outputs{Dir: t.TempDir()})
	require.NoError(t, err)

	r, err := NewRecord(o)
	require.NoError(t, err)
	assert.Equal(t, "sample", r.Name)
	assert.Equal(t, 300, r.Photons)
	assert.Equal(t, uint64(9), r.Seed)
	assert.Equal(t, o.Summary.A, r.Absorbed)
	assert.True(t, strings.Contains(r.ConfigYAML, "seed: 9"))

	fc, err := mcml.ParseYAML(strings.NewReader(r.ConfigYAML))
	require.NoError(t, err)
	assert.Equal(t, rs, fc.Runs[0])

	s := openTemp(t)
	id, err := s.SaveRun(context.Background(), r)
	require.NoError(t, err)
	got, err := s.GetRun(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, r.ConfigYAML, got.ConfigYAML)
	assert.InDelta(t, r.Rd, got.Rd, 0)
}
