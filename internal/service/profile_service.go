package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/artgaze/profile-service/internal/domain"
	"github.com/artgaze/profile-service/internal/repository"
	pkglog "github.com/artgaze/profile-service/pkg/log"
	"github.com/artgaze/profile-service/pkg/storage"
)

const followerPreviewLimit = 10

// profileService implements ProfileService.
type profileService struct {
	repo   repository.ProfileRepository
	images storage.ImageStore
	urlTTL time.Duration
}

// NewProfileService creates a new ProfileService instance.
func NewProfileService(repo repository.ProfileRepository, images storage.ImageStore, urlTTL time.Duration) ProfileService {
	if urlTTL <= 0 {
		urlTTL = 15 * time.Minute
	}
	return &profileService{
		repo:   repo,
		images: images,
		urlTTL: urlTTL,
	}
}

// GetArtistProfile resolves the artist, fans out the independent graph
// queries, waits for all of them, and composes the profile. The fan-in is
// all-or-nothing: the first failing query cancels the rest and fails the
// request.
func (s *profileService) GetArtistProfile(ctx context.Context, identifier string, viewerID uint) (*domain.ArtistProfile, error) {
	l := pkglog.Ctx(ctx)

	artist, err := s.repo.ResolveArtist(ctx, identifier)
	if err != nil {
		return nil, err
	}

	var (
		followerCount int64
		artworks      []domain.Artwork
		isFollowed    bool
		curators      []domain.Curator
		mutualCount   int64
		peerLikedIDs  []uint
		topKeyword    string
		followers     []domain.FollowerEntry
	)

	g, gctx := errgroup.WithContext(ctx)

	// Each task logs its own name so a single failing aggregation stays
	// distinguishable even though the caller sees one error.
	run := func(name string, fn func(ctx context.Context) error) {
		g.Go(func() error {
			if err := fn(gctx); err != nil {
				l.Error().Err(err).
					Str(pkglog.FieldQuery, name).
					Uint(pkglog.FieldArtistID, artist.ID).
					Msg("profile aggregation query failed")
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		})
	}

	run("follower_count", func(ctx context.Context) error {
		var err error
		followerCount, err = s.repo.CountFollowers(ctx, artist.ID)
		return err
	})
	run("artworks", func(ctx context.Context) error {
		var err error
		artworks, err = s.repo.ArtworksByArtist(ctx, artist.ID)
		return err
	})
	run("curator_endorsers", func(ctx context.Context) error {
		var err error
		curators, err = s.repo.CuratorEndorsers(ctx, artist.ID)
		return err
	})
	run("top_keyword", func(ctx context.Context) error {
		var err error
		topKeyword, err = s.repo.TopKeyword(ctx, artist.ID)
		return err
	})

	// Viewer-dependent queries are skipped entirely for anonymous viewers;
	// their zero values (false, 0, empty) are the anonymous answers.
	if viewerID != 0 {
		run("is_following", func(ctx context.Context) error {
			var err error
			isFollowed, err = s.repo.IsFollowing(ctx, viewerID, artist.ID)
			return err
		})
		run("mutual_connections", func(ctx context.Context) error {
			var err error
			mutualCount, err = s.repo.CountMutualConnections(ctx, viewerID, artist.ID)
			return err
		})
		run("peer_liked_artworks", func(ctx context.Context) error {
			var err error
			peerLikedIDs, err = s.repo.PeerLikedArtworkIDs(ctx, viewerID, artist.ID)
			return err
		})
		run("follower_entries", func(ctx context.Context) error {
			var err error
			followers, err = s.repo.FollowerEntries(ctx, artist.ID, viewerID)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return s.compose(ctx, artist, composeInput{
		followerCount: followerCount,
		artworks:      artworks,
		isFollowed:    isFollowed,
		curators:      curators,
		mutualCount:   mutualCount,
		peerLikedIDs:  peerLikedIDs,
		topKeyword:    topKeyword,
		followers:     followers,
		viewerID:      viewerID,
	}), nil
}

type composeInput struct {
	followerCount int64
	artworks      []domain.Artwork
	isFollowed    bool
	curators      []domain.Curator
	mutualCount   int64
	peerLikedIDs  []uint
	topKeyword    string
	followers     []domain.FollowerEntry
	viewerID      uint
}

func (s *profileService) compose(ctx context.Context, artist *domain.Artist, in composeInput) *domain.ArtistProfile {
	peerLiked := make(map[uint]bool, len(in.peerLikedIDs))
	for _, id := range in.peerLikedIDs {
		peerLiked[id] = true
	}

	views := make([]domain.ArtworkView, 0, len(in.artworks))
	for _, a := range in.artworks {
		views = append(views, domain.ArtworkView{
			ID:           a.ID,
			ThumbnailURL: s.imageURL(ctx, a.ImageKey),
			Title:        a.Title,
		})
	}
	views = annotateArtworks(views, peerLiked)

	curatorNames := make([]string, 0, len(in.curators))
	for _, c := range in.curators {
		curatorNames = append(curatorNames, DisplayName(c.Handle))
	}

	tenureYear := 0
	if !artist.CreatedAt.IsZero() {
		tenureYear = artist.CreatedAt.Year()
	}

	signals := BuildTrustSignals(SignalFacts{
		MutualCount:        in.mutualCount,
		CuratorNames:       curatorNames,
		TopKeyword:         in.topKeyword,
		TenureYear:         tenureYear,
		PeerValidatedTitle: s.peerValidatedTitle(in.peerLikedIDs, in.artworks),
	})

	profile := &domain.ArtistProfile{
		ID:                      artist.ID,
		Name:                    DisplayName(artist.Handle),
		AvatarURL:               s.imageURL(ctx, artist.AvatarKey),
		IsVerified:              artist.IsVerified,
		FollowerCount:           in.followerCount,
		ArtworkCount:            len(in.artworks),
		IsFollowedByCurrentUser: in.isFollowed,
		Bio:                     artist.Bio,
		WebsiteURL:              artist.WebsiteURL,
		TrustSignals:            signals,
		Artworks:                views,
	}

	// The preview is attached only for identified viewers of artists with at
	// least one follower; callers distinguish an omitted field from an empty
	// list.
	if in.viewerID != 0 && len(in.followers) > 0 {
		profile.FollowerPreview = s.followerPreview(ctx, in.followers)
	}

	return profile
}

// peerValidatedTitle picks the title of the newest peer-liked artwork, which
// is the first id in the query's order.
func (s *profileService) peerValidatedTitle(peerLikedIDs []uint, artworks []domain.Artwork) string {
	if len(peerLikedIDs) == 0 {
		return ""
	}
	for _, a := range artworks {
		if a.ID == peerLikedIDs[0] {
			return a.Title
		}
	}
	return ""
}

// followerPreview orders followers the viewer already follows first, then by
// normalized display name ascending, and truncates to the preview limit.
func (s *profileService) followerPreview(ctx context.Context, followers []domain.FollowerEntry) []domain.FollowerPreviewEntry {
	entries := make([]domain.FollowerPreviewEntry, 0, len(followers))
	for _, f := range followers {
		entries = append(entries, domain.FollowerPreviewEntry{
			ID:                      f.ID,
			Name:                    DisplayName(f.Handle),
			AvatarURL:               s.imageURL(ctx, f.AvatarKey),
			IsFollowedByCurrentUser: f.IsFollowedByViewer,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsFollowedByCurrentUser != entries[j].IsFollowedByCurrentUser {
			return entries[i].IsFollowedByCurrentUser
		}
		return entries[i].Name < entries[j].Name
	})

	if len(entries) > followerPreviewLimit {
		entries = entries[:followerPreviewLimit]
	}
	return entries
}

// imageURL resolves a stored image key to a URL; failures degrade to an
// empty URL rather than failing the profile.
func (s *profileService) imageURL(ctx context.Context, key string) string {
	if key == "" {
		return ""
	}
	url, err := s.images.URL(ctx, key, s.urlTTL)
	if err != nil {
		l := pkglog.Ctx(ctx)
		l.Warn().Err(err).Msg("failed to resolve image url")
		return ""
	}
	return url
}

// Ensure interface is satisfied at compile time.
var _ ProfileService = (*profileService)(nil)
