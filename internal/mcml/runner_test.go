package mcml

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTasks(t *testing.T) {
	tasks := splitTasks(12001, 5000, 1)
	require.Len(t, tasks, 3)
	assert.Equal(t, []int{5000, 5000, 2001}, []int{tasks[0].photons, tasks[1].photons, tasks[2].photons})
	assert.NotEqual(t, tasks[0].seed, tasks[1].seed)
	assert.Equal(t, tasks, splitTasks(12001, 5000, 1))
	assert.Empty(t, splitTasks(0, 5000, 1))
}

func TestRunDeterministic(t *testing.T) {
	cfg := slabConfig(1, 1.37, 1, 10, 0.9, 0.1)
	cfg.Nt = 4
	opts := RunOptions{Workers: 3, Seed: 77, TaskPhotons: 250}

	a, sa, err := Run(context.Background(), cfg, 2000, opts)
	require.NoError(t, err)
	b, _, err := Run(context.Background(), cfg, 2000, opts)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(a, b))
	assert.Equal(t, 2000, sa.Photons)
	assert.Equal(t, 8, sa.Tasks)
	assert.Equal(t, 3, sa.Workers)
}

func TestRunMatchesSingleSimulation(t *testing.T) {
	cfg := slabConfig(1, 1.37, 1, 10, 0.9, 0.1)
	const seed, n = 9, 800

	res, _, err := Run(context.Background(), cfg, n, RunOptions{Workers: 1, Seed: seed, TaskPhotons: n})
	require.NoError(t, err)

	s, err := NewSimulationFromConfig(cfg, newMTRand(seed).Uint64())
	require.NoError(t, err)
	require.NoError(t, s.LaunchPhotons(n))
	assert.Empty(t, cmp.Diff(s.Results(), res))
}

func TestRunDoesNotMutateConfig(t *testing.T) {
	cfg := slabConfig(1, 1.37, 1, 10, 0.9, 0.1)
	_, _, err := Run(context.Background(), cfg, 10, RunOptions{Workers: 1})
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.Layers[1].Z1)
	assert.Equal(t, 0.0, cfg.RSpecular)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, stats, err := Run(ctx, slabConfig(1, 1.37, 1, 10, 0.9, 0.1), 10000, RunOptions{Workers: 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	require.NotNil(t, res)
	assert.Equal(t, 0, stats.Photons)
	assert.Equal(t, 0.0, res.Total())
}

func TestRunInvalid(t *testing.T) {
	cfg := slabConfig(1, 1.37, 1, 10, 0.9, 0.1)
	_, _, err := Run(context.Background(), cfg, -1, RunOptions{})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg.Layers = cfg.Layers[:2]
	_, _, err = Run(context.Background(), cfg, 10, RunOptions{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRunProgress(t *testing.T) {
	var (
		mu   sync.Mutex
		best int
		n    int
	)
	opts := RunOptions{Workers: 2, Seed: 1, TaskPhotons: 100, Progress: func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		n++
		best = max(best, done)
		assert.Equal(t, 1000, total)
	}}
	_, _, err := Run(context.Background(), slabConfig(1, 1.37, 1, 10, 0.9, 0.1), 1000, opts)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, 1000, best)
}
