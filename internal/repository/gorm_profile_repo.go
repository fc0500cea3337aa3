package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/artgaze/profile-service/internal/domain"
	"github.com/artgaze/profile-service/pkg/database"
)

var pureDigits = regexp.MustCompile(`^\d+$`)

// GormProfileRepository implements ProfileRepository and FollowRepository
// using GORM.
type GormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new GORM-backed profile repository.
func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// classify maps low-level store failures to ErrStoreUnavailable so the
// boundary layer can answer 503 distinctly from an ordinary query failure.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.As(err, &netErr) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}

type artistRow struct {
	ID         uint
	Handle     string
	Bio        string
	AvatarKey  string
	Slug       string
	IsVerified bool
	WebsiteURL string
	CreatedAt  time.Time
}

// ResolveArtist resolves a numeric-id-or-slug identifier to an artist joined
// with its account attributes.
func (r *GormProfileRepository) ResolveArtist(ctx context.Context, identifier string) (*domain.Artist, error) {
	q := r.db.WithContext(ctx).
		Table("artists").
		Select("accounts.id AS id, accounts.handle AS handle, accounts.bio AS bio, "+
			"accounts.avatar_key AS avatar_key, artists.slug AS slug, "+
			"artists.is_verified AS is_verified, artists.website_url AS website_url, "+
			"artists.created_at AS created_at").
		Joins("JOIN accounts ON accounts.id = artists.account_id AND accounts.deleted_at IS NULL")

	if pureDigits.MatchString(identifier) {
		id, err := strconv.ParseUint(identifier, 10, 64)
		if err != nil {
			return nil, ErrArtistNotFound
		}
		q = q.Where("artists.account_id = ?", id)
	} else {
		q = q.Where("artists.slug = ?", identifier)
	}

	var row artistRow
	if err := q.Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArtistNotFound
		}
		return nil, classify(err)
	}

	return &domain.Artist{
		ID:         row.ID,
		Handle:     row.Handle,
		Bio:        row.Bio,
		AvatarKey:  row.AvatarKey,
		Slug:       row.Slug,
		IsVerified: row.IsVerified,
		WebsiteURL: row.WebsiteURL,
		CreatedAt:  row.CreatedAt,
	}, nil
}

// CountFollowers returns the total number of followers for an artist.
func (r *GormProfileRepository) CountFollowers(ctx context.Context, artistID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.FollowModel{}).
		Where("followee_id = ?", artistID).
		Count(&count).Error
	if err != nil {
		return 0, classify(err)
	}
	return count, nil
}

// ArtworksByArtist returns the artist's artworks ordered newest-created
// first, id descending as a deterministic tie-break.
func (r *GormProfileRepository) ArtworksByArtist(ctx context.Context, artistID uint) ([]domain.Artwork, error) {
	var models []domain.ArtworkModel
	err := r.db.WithContext(ctx).
		Where("artist_id = ?", artistID).
		Order("created_at DESC, id DESC").
		Find(&models).Error
	if err != nil {
		return nil, classify(err)
	}

	artworks := make([]domain.Artwork, 0, len(models))
	for _, m := range models {
		artworks = append(artworks, domain.Artwork{
			ID:        m.ID,
			Title:     m.Title,
			ImageKey:  m.ImageKey,
			CreatedAt: m.CreatedAt,
		})
	}
	return artworks, nil
}

// IsFollowing checks if followerID follows followeeID.
func (r *GormProfileRepository) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.FollowModel{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	if err != nil {
		return false, classify(err)
	}
	return count > 0, nil
}

// CuratorEndorsers returns curator accounts following the artist. Rows are
// distinct already: at most one active follow exists per (follower, followee)
// pair.
func (r *GormProfileRepository) CuratorEndorsers(ctx context.Context, artistID uint) ([]domain.Curator, error) {
	var rows []struct {
		ID     uint
		Handle string
	}
	err := r.db.WithContext(ctx).
		Table("follows").
		Select("accounts.id AS id, accounts.handle AS handle").
		Joins("JOIN accounts ON accounts.id = follows.follower_id AND accounts.deleted_at IS NULL").
		Where("follows.followee_id = ? AND follows.deleted_at IS NULL AND accounts.is_curator = ?", artistID, true).
		Order("accounts.handle ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, classify(err)
	}

	curators := make([]domain.Curator, 0, len(rows))
	for _, row := range rows {
		curators = append(curators, domain.Curator{ID: row.ID, Handle: row.Handle})
	}
	return curators, nil
}

// CountMutualConnections counts distinct accounts the viewer follows that
// themselves follow the artist (1-hop intermediaries, not follow-backs).
func (r *GormProfileRepository) CountMutualConnections(ctx context.Context, viewerID, artistID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("follows AS f1").
		Joins("JOIN follows f2 ON f2.follower_id = f1.followee_id AND f2.followee_id = ? AND f2.deleted_at IS NULL", artistID).
		Where("f1.follower_id = ? AND f1.deleted_at IS NULL", viewerID).
		Distinct("f1.followee_id").
		Count(&count).Error
	if err != nil {
		return 0, classify(err)
	}
	return count, nil
}

// PeerLikedArtworkIDs returns ids of the artist's artworks that were liked by
// any account the viewer follows, newest artwork first.
func (r *GormProfileRepository) PeerLikedArtworkIDs(ctx context.Context, viewerID, artistID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Table("artwork_likes").
		Joins("JOIN artworks ON artworks.id = artwork_likes.artwork_id AND artworks.deleted_at IS NULL").
		Joins("JOIN follows ON follows.followee_id = artwork_likes.account_id AND follows.follower_id = ? AND follows.deleted_at IS NULL", viewerID).
		Where("artworks.artist_id = ?", artistID).
		Group("artworks.id, artworks.created_at").
		Order("artworks.created_at DESC, artworks.id DESC").
		Pluck("artworks.id", &ids).Error
	if err != nil {
		return nil, classify(err)
	}
	return ids, nil
}

// TopKeyword returns the keyword applied most often across the artist's
// artworks. Ties break to the lexicographically smallest keyword, keeping
// the result deterministic across stores.
func (r *GormProfileRepository) TopKeyword(ctx context.Context, artistID uint) (string, error) {
	var lists []database.StringArray
	err := r.db.WithContext(ctx).Model(&domain.ArtworkModel{}).
		Where("artist_id = ?", artistID).
		Pluck("keywords", &lists).Error
	if err != nil {
		return "", classify(err)
	}

	counts := make(map[string]int)
	for _, keywords := range lists {
		for _, kw := range keywords {
			if kw != "" {
				counts[kw]++
			}
		}
	}

	var best string
	var bestCount int
	for kw, n := range counts {
		if n > bestCount || (n == bestCount && (best == "" || kw < best)) {
			best = kw
			bestCount = n
		}
	}
	return best, nil
}

// FollowerEntries returns the artist's followers with account attributes,
// ordered by handle; the viewer-follows flag is filled in with a batch
// lookup when a viewer is present. Final preview ordering happens in the
// service layer over normalized display names.
func (r *GormProfileRepository) FollowerEntries(ctx context.Context, artistID, viewerID uint) ([]domain.FollowerEntry, error) {
	var rows []struct {
		ID        uint
		Handle    string
		AvatarKey string
	}
	err := r.db.WithContext(ctx).
		Table("follows").
		Select("accounts.id AS id, accounts.handle AS handle, accounts.avatar_key AS avatar_key").
		Joins("JOIN accounts ON accounts.id = follows.follower_id AND accounts.deleted_at IS NULL").
		Where("follows.followee_id = ? AND follows.deleted_at IS NULL", artistID).
		Order("accounts.handle ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, classify(err)
	}

	entries := make([]domain.FollowerEntry, 0, len(rows))
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, domain.FollowerEntry{
			ID:        row.ID,
			Handle:    row.Handle,
			AvatarKey: row.AvatarKey,
		})
		ids = append(ids, row.ID)
	}

	if viewerID != 0 && len(ids) > 0 {
		followed, err := r.batchIsFollowing(ctx, viewerID, ids)
		if err != nil {
			return nil, err
		}
		for i := range entries {
			entries[i].IsFollowedByViewer = followed[entries[i].ID]
		}
	}

	return entries, nil
}

// batchIsFollowing checks if followerID follows each of the targetIDs.
func (r *GormProfileRepository) batchIsFollowing(ctx context.Context, followerID uint, targetIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(targetIDs))
	for _, id := range targetIDs {
		result[id] = false
	}

	var models []domain.FollowModel
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id IN ?", followerID, targetIDs).
		Find(&models).Error
	if err != nil {
		return nil, classify(err)
	}

	for _, m := range models {
		result[m.FolloweeID] = true
	}
	return result, nil
}

// Ensure interfaces are satisfied at compile time.
var (
	_ ProfileRepository = (*GormProfileRepository)(nil)
	_ FollowRepository  = (*GormProfileRepository)(nil)
)
