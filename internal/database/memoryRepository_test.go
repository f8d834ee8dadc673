package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/hebrew-imagegen/internal/entity"
)

func TestMemoryRepositoryPutGet(t *testing.T) {
	repo := NewMemoryImageRepository(0)
	ctx := context.Background()

	data := []byte("png bytes")
	id, err := repo.Put(ctx, data)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestMemoryRepositoryGetUnknownID(t *testing.T) {
	repo := NewMemoryImageRepository(0)

	_, err := repo.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, entity.ErrImageNotFound)
}

func TestMemoryRepositoryPutEmpty(t *testing.T) {
	repo := NewMemoryImageRepository(0)

	_, err := repo.Put(context.Background(), nil)
	assert.ErrorIs(t, err, entity.ErrEmptyImage)
}

func TestMemoryRepositoryReplace(t *testing.T) {
	repo := NewMemoryImageRepository(0)
	ctx := context.Background()

	id, err := repo.Put(ctx, []byte("before"))
	require.NoError(t, err)

	newID, err := repo.Replace(ctx, id, []byte("after"))
	require.NoError(t, err)
	assert.Equal(t, id, newID)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("after"), got)
}

func TestMemoryRepositoryReplaceUnknownID(t *testing.T) {
	repo := NewMemoryImageRepository(0)

	_, err := repo.Replace(context.Background(), "no-such-id", []byte("data"))
	assert.ErrorIs(t, err, entity.ErrImageNotFound)
}

func TestMemoryRepositoryDelete(t *testing.T) {
	repo := NewMemoryImageRepository(0)
	ctx := context.Background()

	id, err := repo.Put(ctx, []byte("data"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, id))

	_, err = repo.Get(ctx, id)
	assert.ErrorIs(t, err, entity.ErrImageNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, id), entity.ErrImageNotFound)
}

func TestMemoryRepositoryTTLExpiry(t *testing.T) {
	repo := NewMemoryImageRepository(20 * time.Millisecond)
	ctx := context.Background()

	id, err := repo.Put(ctx, []byte("ephemeral"))
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, err := repo.Get(ctx, id)
		return err != nil
	}, time.Second, 10*time.Millisecond)
}

func TestMemoryRepositoryStoredBytesAreIsolated(t *testing.T) {
	repo := NewMemoryImageRepository(0)
	ctx := context.Background()

	data := []byte("original")
	id, err := repo.Put(ctx, data)
	require.NoError(t, err)

	// Mutating either the input or a returned slice must not leak into the
	// stored entry.
	data[0] = 'X'
	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), got)

	got[0] = 'Y'
	again, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), again)
}

func TestMemoryRepositoryConcurrentReplaceAndGet(t *testing.T) {
	repo := NewMemoryImageRepository(0)
	ctx := context.Background()

	old := make([]byte, 1024)
	for i := range old {
		old[i] = 'a'
	}
	next := make([]byte, 2048)
	for i := range next {
		next[i] = 'b'
	}

	id, err := repo.Put(ctx, old)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				got, err := repo.Get(ctx, id)
				if !assert.NoError(t, err) {
					return
				}
				// A reader sees either the old or the new bytes, whole.
				if len(got) == len(old) {
					assert.Equal(t, byte('a'), got[0])
					assert.Equal(t, byte('a'), got[len(got)-1])
				} else {
					assert.Equal(t, len(next), len(got))
					assert.Equal(t, byte('b'), got[0])
					assert.Equal(t, byte('b'), got[len(got)-1])
				}
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 20; j++ {
			_, err := repo.Replace(ctx, id, next)
			assert.NoError(t, err)
		}
	}()

	wg.Wait()
}
