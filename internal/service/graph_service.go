package service

import (
	"context"
	"errors"

	"github.com/artgaze/profile-service/internal/consumer"
	"github.com/artgaze/profile-service/internal/repository"
	"github.com/artgaze/profile-service/internal/store"
	pkglog "github.com/artgaze/profile-service/pkg/log"
)

// graphService implements GraphService.
type graphService struct {
	repo  repository.FollowRepository
	store store.FollowStore
}

// NewGraphService creates a new GraphService instance.
func NewGraphService(repo repository.FollowRepository, store store.FollowStore) GraphService {
	return &graphService{
		repo:  repo,
		store: store,
	}
}

// Follow creates a follow edge from followerID to artistID.
func (s *graphService) Follow(ctx context.Context, followerID, artistID uint) error {
	l := pkglog.Ctx(ctx)

	if followerID == artistID {
		return ErrSelfFollow
	}

	if err := s.repo.Follow(ctx, followerID, artistID); err != nil {
		if errors.Is(err, repository.ErrAlreadyFollowing) {
			return ErrAlreadyFollowing
		}
		l.Error().Err(err).
			Uint("follower_id", followerID).
			Uint(pkglog.FieldArtistID, artistID).
			Msg("failed to follow artist")
		return err
	}

	return nil
}

// Unfollow removes the follow edge from followerID to artistID.
func (s *graphService) Unfollow(ctx context.Context, followerID, artistID uint) error {
	l := pkglog.Ctx(ctx)

	if err := s.repo.Unfollow(ctx, followerID, artistID); err != nil {
		if errors.Is(err, repository.ErrFollowNotFound) {
			return ErrNotFollowing
		}
		l.Error().Err(err).
			Uint("follower_id", followerID).
			Uint(pkglog.FieldArtistID, artistID).
			Msg("failed to unfollow artist")
		return err
	}

	return nil
}

// GetFollowersCount returns the number of followers for artistID.
// It checks Redis first; on miss it queries the DB, populates Redis, and
// records a hot key access. The profile engine never takes this path — it
// reads the relational store directly so every profile is a fresh snapshot.
func (s *graphService) GetFollowersCount(ctx context.Context, artistID uint) (int64, error) {
	l := pkglog.Ctx(ctx)

	// Always record access for hot key tracking (best-effort)
	if err := s.store.RecordAccess(ctx, artistID); err != nil {
		l.Warn().Err(err).Uint(pkglog.FieldArtistID, artistID).Msg("failed to record hot key access")
	}

	count, found, err := s.store.GetFollowersCount(ctx, artistID)
	if err != nil {
		l.Warn().Err(err).Uint(pkglog.FieldArtistID, artistID).Msg("redis get followers count failed, falling back to db")
	}
	if found {
		return count, nil
	}

	count, err = s.repo.CountFollowers(ctx, artistID)
	if err != nil {
		l.Error().Err(err).Uint(pkglog.FieldArtistID, artistID).Msg("failed to get followers count from db")
		return 0, err
	}

	if err := s.store.SetFollowersCount(ctx, artistID, count); err != nil {
		l.Warn().Err(err).Uint(pkglog.FieldArtistID, artistID).Msg("failed to set followers count in redis")
	}

	return count, nil
}

// HandleCDCEvent processes a Debezium CDC event for the follows table and
// adjusts the cached follower counters accordingly.
func (s *graphService) HandleCDCEvent(ctx context.Context, event *consumer.DebeziumMessage) error {
	l := pkglog.Ctx(ctx)
	op := event.Payload.Op

	switch op {
	case "r":
		// Snapshot read — skip
		return nil

	case "c":
		// New follow: increment followers count for the followee
		if event.Payload.After == nil {
			l.Warn().Msg("CDC create event missing 'after' field")
			return nil
		}
		if err := s.store.CondIncrFollowersCount(ctx, event.Payload.After.FolloweeID); err != nil {
			l.Error().Err(err).Uint("followee_id", event.Payload.After.FolloweeID).Msg("failed to cond incr followers count")
			return err
		}

	case "u":
		// Soft delete (unfollow) and soft restore (re-follow) land here.
		// after.deleted_at != nil  → unfollow → decrement
		// after.deleted_at == nil  → restore  → increment
		if event.Payload.After == nil {
			l.Warn().Msg("CDC update event missing 'after' field")
			return nil
		}
		after := event.Payload.After
		if after.DeletedAt != nil {
			if err := s.store.CondDecrFollowersCount(ctx, after.FolloweeID); err != nil {
				l.Error().Err(err).Uint("followee_id", after.FolloweeID).Msg("failed to cond decr followers count (soft delete)")
				return err
			}
		} else {
			if err := s.store.CondIncrFollowersCount(ctx, after.FolloweeID); err != nil {
				l.Error().Err(err).Uint("followee_id", after.FolloweeID).Msg("failed to cond incr followers count (soft restore)")
				return err
			}
		}

	case "d":
		// Hard delete — reliable because REPLICA IDENTITY FULL is set on the table.
		if event.Payload.Before == nil {
			l.Warn().Msg("CDC hard-delete event missing 'before' field")
			return nil
		}
		if err := s.store.CondDecrFollowersCount(ctx, event.Payload.Before.FolloweeID); err != nil {
			l.Error().Err(err).Uint("followee_id", event.Payload.Before.FolloweeID).Msg("failed to cond decr followers count (hard delete)")
			return err
		}

	default:
		l.Warn().Str("op", op).Msg("unknown CDC operation, skipping")
	}

	return nil
}

// Ensure interface is satisfied at compile time.
var _ GraphService = (*graphService)(nil)
