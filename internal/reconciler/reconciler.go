package reconciler

import (
	"context"
	"time"

	"github.com/artgaze/profile-service/internal/config"
	"github.com/artgaze/profile-service/internal/repository"
	"github.com/artgaze/profile-service/internal/store"
	pkglog "github.com/artgaze/profile-service/pkg/log"
)

// Reconciler periodically re-derives cached follower counts for the
// most-accessed artists from the relational store.
type Reconciler struct {
	store  store.FollowStore
	repo   repository.FollowRepository
	cfg    config.ReconcilerConfig
	quit   chan struct{}
	doneCh chan struct{}
}

// New creates a new Reconciler.
func New(store store.FollowStore, repo repository.FollowRepository, cfg config.ReconcilerConfig) *Reconciler {
	return &Reconciler{
		store:  store,
		repo:   repo,
		cfg:    cfg,
		quit:   make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start launches the reconciler in a background goroutine.
func (r *Reconciler) Start(ctx context.Context) {
	go r.run(ctx)
}

// Stop signals the reconciler to stop and returns immediately.
// Call Done() to wait for it to exit.
func (r *Reconciler) Stop() {
	close(r.quit)
}

// Done returns a channel that is closed when the reconciler has fully stopped.
func (r *Reconciler) Done() <-chan struct{} {
	return r.doneCh
}

func (r *Reconciler) run(ctx context.Context) {
	defer close(r.doneCh)

	interval := r.cfg.Interval
	if interval <= 0 {
		interval = 60 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.quit:
			return
		case <-ticker.C:
			r.reconcile(ctx)
		}
	}
}

func (r *Reconciler) reconcile(ctx context.Context) {
	l := pkglog.L()

	topN := int64(r.cfg.TopN)
	if topN <= 0 {
		topN = 100
	}

	artistIDs, err := r.store.GetTopHotKeys(ctx, topN)
	if err != nil {
		l.Error().Err(err).Msg("reconciler: failed to get top hot keys")
		return
	}

	if len(artistIDs) == 0 {
		return
	}

	for _, artistID := range artistIDs {
		count, err := r.repo.CountFollowers(ctx, artistID)
		if err != nil {
			l.Error().Err(err).Uint(pkglog.FieldArtistID, artistID).Msg("reconciler: failed to get followers count from db")
			continue
		}
		if err := r.store.SetFollowersCount(ctx, artistID, count); err != nil {
			l.Error().Err(err).Uint(pkglog.FieldArtistID, artistID).Msg("reconciler: failed to set followers count in redis")
		}
	}

	if err := r.store.ResetHotKeyScores(ctx); err != nil {
		l.Error().Err(err).Msg("reconciler: failed to reset hot key scores")
	}

	l.Info().Int("count", len(artistIDs)).Msg("reconciler: hot-key reconciliation complete")
}
