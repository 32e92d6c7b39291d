// Package memory is an in-process catalog store used by tests and ephemeral runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/memecontest/backend/src/domain"
	"github.com/memecontest/backend/src/repository"
)

type entry struct {
	meme *domain.Meme
	seq  int
}

type MemeRepository struct {
	mu    sync.RWMutex
	memes []entry
	seq   int
}

func NewMemeRepository() *MemeRepository {
	return &MemeRepository{}
}

func (r *MemeRepository) CreateMeme(ctx context.Context, meme *domain.Meme) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stored := *meme

	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.memes = append(r.memes, entry{meme: &stored, seq: r.seq})
	return nil
}

// ListMemes returns copies ordered by UploadedAt desc; equal timestamps keep
// the most recent insert first.
func (r *MemeRepository) ListMemes(ctx context.Context) ([]*domain.Meme, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	entries := make([]entry, len(r.memes))
	copy(entries, r.memes)
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.meme.UploadedAt.Equal(b.meme.UploadedAt) {
			return a.meme.UploadedAt.After(b.meme.UploadedAt)
		}
		return a.seq > b.seq
	})

	memes := make([]*domain.Meme, 0, len(entries))
	for _, e := range entries {
		m := *e.meme
		memes = append(memes, &m)
	}
	return memes, nil
}

type ContestantRepository struct {
	mu         sync.RWMutex
	byUsername map[string]*domain.Contestant
}

func NewContestantRepository() *ContestantRepository {
	return &ContestantRepository{byUsername: make(map[string]*domain.Contestant)}
}

// CreateContestant checks and inserts under one lock
func (r *ContestantRepository) CreateContestant(ctx context.Context, contestant *domain.Contestant) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[contestant.Username]; ok {
		return repository.ErrDuplicateUsername
	}
	stored := *contestant
	r.byUsername[contestant.Username] = &stored
	return nil
}

func (r *ContestantRepository) FindContestantByUsername(ctx context.Context, username string) (*domain.Contestant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byUsername[username]
	if !ok {
		return nil, repository.ErrContestantNotFound
	}
	found := *c
	return &found, nil
}

func (r *ContestantRepository) CountContestants(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byUsername)), nil
}

var (
	_ repository.MemeRepository       = (*MemeRepository)(nil)
	_ repository.ContestantRepository = (*ContestantRepository)(nil)
)
