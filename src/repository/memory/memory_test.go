package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/memecontest/backend/src/domain"
	"github.com/memecontest/backend/src/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemeRepository_ListOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemeRepository()

	empty, err := repo.ListMemes(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"t1", "t2", "t3"} {
		require.NoError(t, repo.CreateMeme(ctx, &domain.Meme{
			ID:         fmt.Sprintf("id-%d", i),
			Title:      title,
			ImageURL:   "/uploads/" + title,
			UploadedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	memes, err := repo.ListMemes(ctx)
	require.NoError(t, err)
	require.Len(t, memes, 3)
	assert.Equal(t, "t3", memes[0].Title)
	assert.Equal(t, "t2", memes[1].Title)
	assert.Equal(t, "t1", memes[2].Title)
}

func TestMemeRepository_SameTimestampNewestInsertFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemeRepository()
	now := time.Now()

	require.NoError(t, repo.CreateMeme(ctx, &domain.Meme{ID: "a", Title: "first", UploadedAt: now}))
	require.NoError(t, repo.CreateMeme(ctx, &domain.Meme{ID: "b", Title: "second", UploadedAt: now}))

	memes, err := repo.ListMemes(ctx)
	require.NoError(t, err)
	require.Len(t, memes, 2)
	assert.Equal(t, "second", memes[0].Title)
}

func TestMemeRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemeRepository()
	meme := &domain.Meme{ID: "a", Title: "original", UploadedAt: time.Now()}
	require.NoError(t, repo.CreateMeme(ctx, meme))

	meme.Title = "mutated"
	memes, err := repo.ListMemes(ctx)
	require.NoError(t, err)
	assert.Equal(t, "original", memes[0].Title)
}

func TestContestantRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewContestantRepository()

	_, err := repo.FindContestantByUsername(ctx, "alice")
	assert.ErrorIs(t, err, repository.ErrContestantNotFound)

	require.NoError(t, repo.CreateContestant(ctx, &domain.Contestant{ID: "1", Username: "alice", Phone: "555"}))
	err = repo.CreateContestant(ctx, &domain.Contestant{ID: "2", Username: "alice", Phone: "666"})
	assert.ErrorIs(t, err, repository.ErrDuplicateUsername)

	found, err := repo.FindContestantByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "555", found.Phone)

	count, err := repo.CountContestants(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestContestantRepository_ConcurrentSameUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewContestantRepository()

	var wg sync.WaitGroup
	var ok, dup int32
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.CreateContestant(ctx, &domain.Contestant{ID: fmt.Sprint(i), Username: "bob"})
			switch err {
			case nil:
				atomic.AddInt32(&ok, 1)
			case repository.ErrDuplicateUsername:
				atomic.AddInt32(&dup, 1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok)
	assert.Equal(t, int32(49), dup)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, NewMemeRepository().CreateMeme(ctx, &domain.Meme{}), context.Canceled)
	_, err := NewContestantRepository().CountContestants(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
