package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/vecnode/engine"
	"github.com/viant/vecnode/replica"
	"github.com/viant/vecnode/vector"
)

func openTestBackend(t *testing.T) *Backend {
	t.Helper()
	b := OpenBackend(context.Background(), BackendOptions{
		Dir:    filepath.Join(t.TempDir(), "vecdb"),
		File:   "vectors.db",
		Engine: engine.DefaultOptions(),
	}, nil)
	require.Equal(t, ModeReady, b.Mode(), "backend reason: %v", b.Reason())
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func degradedBackend(t *testing.T) *Backend {
	t.Helper()
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	b := OpenBackend(context.Background(), BackendOptions{Dir: file, File: "vectors.db"}, nil)
	require.Equal(t, ModeDegraded, b.Mode())
	require.Error(t, b.Reason())
	return b
}

func vec(n int) []float32 { return make([]float32, n) }

func TestHealth_FreshStore(t *testing.T) {
	svc := New(openTestBackend(t), replica.DefaultNode())

	h, err := svc.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Health{Node: "vsa03", Role: "cold", LagMS: 60000, Vectors: 0, OK: true}, h)
}

func TestNode_Advertised(t *testing.T) {
	node := replica.Node{ID: "vsa07", Role: replica.RoleWarm, Lag: 5 * time.Second}
	svc := New(openTestBackend(t), node)
	assert.Equal(t, node, svc.Node())

	h, err := svc.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "vsa07", h.Node)
	assert.Equal(t, "warm", h.Role)
	assert.Equal(t, int64(5000), h.LagMS)
}

func TestUpsert_ThenCount(t *testing.T) {
	ctx := context.Background()
	svc := New(openTestBackend(t), replica.DefaultNode())

	res, err := svc.Upsert(ctx, UpsertRequest{ID: "a", Vector: vec(vector.Dimension)})
	require.NoError(t, err)
	assert.Equal(t, UpsertResult{OK: true, ID: "a", Node: "vsa03"}, res)

	c, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, CountResult{Count: 1, Node: "vsa03"}, c)
}

func TestUpsert_WrongDimension(t *testing.T) {
	ctx := context.Background()
	svc := New(openTestBackend(t), replica.DefaultNode())

	for _, n := range []int{0, 1, vector.Dimension - 1, vector.Dimension + 1} {
		_, err := svc.Upsert(ctx, UpsertRequest{ID: "b", Vector: vec(n)})
		require.Error(t, err, "length %d", n)
		assert.True(t, IsInvalidArgument(err), "length %d: %v", n, err)
	}

	c, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, c.Count)
}

func TestCount_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc := New(openTestBackend(t), replica.DefaultNode())
	_, err := svc.Upsert(ctx, UpsertRequest{ID: "a", Vector: vec(vector.Dimension)})
	require.NoError(t, err)

	first, err := svc.Count(ctx)
	require.NoError(t, err)
	second, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCount_AfterNUpserts(t *testing.T) {
	ctx := context.Background()
	svc := New(openTestBackend(t), replica.DefaultNode())

	const n = 5
	for i := 0; i < n; i++ {
		_, err := svc.Upsert(ctx, UpsertRequest{ID: "x", Vector: vec(vector.Dimension)})
		require.NoError(t, err)

		h, err := svc.Health(ctx)
		require.NoError(t, err)
		c, err := svc.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), c.Count)
		assert.Equal(t, c.Count, h.Vectors)
	}
}

func TestUpsert_SameIDTwiceAppends(t *testing.T) {
	ctx := context.Background()
	svc := New(openTestBackend(t), replica.DefaultNode())

	for i := 0; i < 2; i++ {
		_, err := svc.Upsert(ctx, UpsertRequest{ID: "dup", Vector: vec(vector.Dimension), Cascade: true})
		require.NoError(t, err)
	}
	c, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), c.Count)
}

func TestUpsert_ConcurrentSameID(t *testing.T) {
	ctx := context.Background()
	svc := New(openTestBackend(t), replica.DefaultNode())

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Upsert(ctx, UpsertRequest{ID: "c", Vector: vec(vector.Dimension)})
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}
	c, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), c.Count)
}

func TestUpsert_StoresMetadataAndTimestamp(t *testing.T) {
	ctx := context.Background()
	b := openTestBackend(t)
	fixed := time.Date(2026, 3, 4, 5, 6, 7, 891011000, time.FixedZone("CET", 3600))
	svc := New(b, replica.DefaultNode(), WithClock(func() time.Time { return fixed }))

	_, err := svc.Upsert(ctx, UpsertRequest{
		ID:       "m",
		Vector:   vec(vector.Dimension),
		Metadata: map[string]any{"source": "test", "n": 3},
	})
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, UpsertRequest{ID: "m", Vector: vec(vector.Dimension)})
	require.NoError(t, err)

	store, ok := b.Store()
	require.True(t, ok)
	rows, err := store.(*vector.SQLiteStore).Get(ctx, "m")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	var meta map[string]any
	require.NoError(t, json.Unmarshal([]byte(rows[0].Meta), &meta))
	assert.Equal(t, "test", meta["source"])
	assert.Equal(t, "{}", rows[1].Meta)
	assert.Equal(t, "2026-03-04T04:06:07.891011+00:00", rows[0].Timestamp)
}

func TestDegraded(t *testing.T) {
	ctx := context.Background()
	svc := New(degradedBackend(t), replica.DefaultNode())

	c, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, CountResult{Count: 0, Node: "vsa03"}, c)

	h, err := svc.Health(ctx)
	require.NoError(t, err)
	assert.True(t, h.OK)
	assert.Zero(t, h.Vectors)

	_, err = svc.Upsert(ctx, UpsertRequest{ID: "a", Vector: vec(vector.Dimension)})
	assert.ErrorIs(t, err, ErrUnavailable)

	// Unavailability is reported before the vector is validated.
	_, err = svc.Upsert(ctx, UpsertRequest{ID: "a", Vector: vec(3)})
	assert.ErrorIs(t, err, ErrUnavailable)

	assert.NoError(t, svc.Backend().Close())
}

type faultyStore struct {
	err    error
	exists bool
}

func (f *faultyStore) Append(context.Context, ...vector.Record) error { return f.err }
func (f *faultyStore) Count(context.Context) (int64, error)           { return 0, f.err }
func (f *faultyStore) TableExists(context.Context) (bool, error)      { return f.exists, nil }
func (f *faultyStore) Close() error                                   { return nil }

func TestStorageFaultsPropagate(t *testing.T) {
	ctx := context.Background()
	fault := &vector.StorageError{Op: "count", Kind: vector.KindFatal, Err: errors.New("disk I/O error")}
	svc := New(ReadyBackend(&faultyStore{err: fault, exists: true}), replica.DefaultNode())

	_, err := svc.Count(ctx)
	assert.ErrorIs(t, err, fault)
	_, err = svc.Health(ctx)
	assert.ErrorIs(t, err, fault)
	_, err = svc.Upsert(ctx, UpsertRequest{ID: "a", Vector: vec(vector.Dimension)})
	assert.ErrorIs(t, err, fault)
}

func TestHealth_MissingTable(t *testing.T) {
	svc := New(ReadyBackend(&faultyStore{err: errors.New("no such table"), exists: false}), replica.DefaultNode())

	h, err := svc.Health(context.Background())
	require.NoError(t, err)
	assert.Zero(t, h.Vectors)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "ready", ModeReady.String())
	assert.Equal(t, "degraded", ModeDegraded.String())
	assert.Equal(t, ModeDegraded, ReadyBackend(nil).Mode())
}
