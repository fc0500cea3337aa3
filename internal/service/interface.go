package service

import (
	"context"
	"errors"

	"github.com/artgaze/profile-service/internal/consumer"
	"github.com/artgaze/profile-service/internal/domain"
)

var (
	ErrAlreadyFollowing = errors.New("already following")
	ErrNotFollowing     = errors.New("not following")
	ErrSelfFollow       = errors.New("cannot follow yourself")
)

// ProfileService derives the explainable artist profile view.
type ProfileService interface {
	// GetArtistProfile resolves the identifier, runs the graph aggregations
	// concurrently, and assembles the profile. viewerID 0 means anonymous.
	GetArtistProfile(ctx context.Context, identifier string, viewerID uint) (*domain.ArtistProfile, error)
}

// GraphService owns follow-graph mutations and the cached follower count.
type GraphService interface {
	Follow(ctx context.Context, followerID, artistID uint) error
	Unfollow(ctx context.Context, followerID, artistID uint) error
	GetFollowersCount(ctx context.Context, artistID uint) (int64, error)
	HandleCDCEvent(ctx context.Context, event *consumer.DebeziumMessage) error
}
