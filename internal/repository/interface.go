package repository

import (
	"context"
	"errors"

	"github.com/artgaze/profile-service/internal/domain"
)

var (
	ErrArtistNotFound   = errors.New("artist not found")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrFollowNotFound   = errors.New("follow relationship not found")
	ErrAlreadyFollowing = errors.New("already following")
)

// ProfileRepository defines the read contract the profile engine needs.
// All operations are read-only snapshots; none depends on another's result,
// so callers may issue them concurrently.
type ProfileRepository interface {
	// ResolveArtist maps a caller-supplied identifier to an artist record.
	// Pure-digit identifiers resolve by numeric account id, everything else
	// by exact slug match. Returns ErrArtistNotFound when neither matches.
	ResolveArtist(ctx context.Context, identifier string) (*domain.Artist, error)

	// CountFollowers returns the number of accounts following the artist.
	CountFollowers(ctx context.Context, artistID uint) (int64, error)

	// ArtworksByArtist returns the artist's artworks, newest-created first.
	ArtworksByArtist(ctx context.Context, artistID uint) ([]domain.Artwork, error)

	// IsFollowing reports whether followerID follows followeeID.
	IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error)

	// CuratorEndorsers returns the distinct curator accounts following the
	// artist, ordered by handle ascending.
	CuratorEndorsers(ctx context.Context, artistID uint) ([]domain.Curator, error)

	// CountMutualConnections counts distinct accounts X such that the viewer
	// follows X and X follows the artist.
	CountMutualConnections(ctx context.Context, viewerID, artistID uint) (int64, error)

	// PeerLikedArtworkIDs returns ids of the artist's artworks liked by any
	// account the viewer follows, newest artwork first.
	PeerLikedArtworkIDs(ctx context.Context, viewerID, artistID uint) ([]uint, error)

	// TopKeyword returns the keyword most frequently applied across the
	// artist's artworks, ties broken by lexicographically smallest keyword.
	// Returns "" when the artist's artworks carry no keywords.
	TopKeyword(ctx context.Context, artistID uint) (string, error)

	// FollowerEntries returns the artist's followers joined with account
	// attributes; when viewerID is non-zero each entry carries whether the
	// viewer follows that account.
	FollowerEntries(ctx context.Context, artistID, viewerID uint) ([]domain.FollowerEntry, error)
}

// FollowRepository defines persistence operations for follow edges.
type FollowRepository interface {
	Follow(ctx context.Context, followerID, followeeID uint) error
	Unfollow(ctx context.Context, followerID, followeeID uint) error
	CountFollowers(ctx context.Context, artistID uint) (int64, error)
}
