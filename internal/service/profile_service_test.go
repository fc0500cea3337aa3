package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artgaze/profile-service/internal/domain"
	"github.com/artgaze/profile-service/internal/repository"
	"github.com/artgaze/profile-service/pkg/storage"
)

// fakeProfileRepo is an in-memory stand-in for the read contract. Each query
// returns canned data, and errs lets a test fail one named query.
type fakeProfileRepo struct {
	artist       *domain.Artist
	followers    int64
	artworks     []domain.Artwork
	isFollowing  bool
	curators     []domain.Curator
	mutualCount  int64
	peerLikedIDs []uint
	topKeyword   string
	entries      []domain.FollowerEntry

	errs map[string]error

	resolvedIdentifier string
	viewerQueries      []string
}

func (f *fakeProfileRepo) fail(query string) error {
	if f.errs == nil {
		return nil
	}
	return f.errs[query]
}

func (f *fakeProfileRepo) ResolveArtist(_ context.Context, identifier string) (*domain.Artist, error) {
	f.resolvedIdentifier = identifier
	if err := f.fail("resolve"); err != nil {
		return nil, err
	}
	if f.artist == nil {
		return nil, repository.ErrArtistNotFound
	}
	return f.artist, nil
}

func (f *fakeProfileRepo) CountFollowers(_ context.Context, _ uint) (int64, error) {
	return f.followers, f.fail("follower_count")
}

func (f *fakeProfileRepo) ArtworksByArtist(_ context.Context, _ uint) ([]domain.Artwork, error) {
	return f.artworks, f.fail("artworks")
}

func (f *fakeProfileRepo) IsFollowing(_ context.Context, _, _ uint) (bool, error) {
	f.viewerQueries = append(f.viewerQueries, "is_following")
	return f.isFollowing, f.fail("is_following")
}

func (f *fakeProfileRepo) CuratorEndorsers(_ context.Context, _ uint) ([]domain.Curator, error) {
	return f.curators, f.fail("curator_endorsers")
}

func (f *fakeProfileRepo) CountMutualConnections(_ context.Context, _, _ uint) (int64, error) {
	f.viewerQueries = append(f.viewerQueries, "mutual_connections")
	return f.mutualCount, f.fail("mutual_connections")
}

func (f *fakeProfileRepo) PeerLikedArtworkIDs(_ context.Context, _, _ uint) ([]uint, error) {
	f.viewerQueries = append(f.viewerQueries, "peer_liked_artworks")
	return f.peerLikedIDs, f.fail("peer_liked_artworks")
}

func (f *fakeProfileRepo) TopKeyword(_ context.Context, _ uint) (string, error) {
	return f.topKeyword, f.fail("top_keyword")
}

func (f *fakeProfileRepo) FollowerEntries(_ context.Context, _, _ uint) ([]domain.FollowerEntry, error) {
	f.viewerQueries = append(f.viewerQueries, "follower_entries")
	return f.entries, f.fail("follower_entries")
}

var _ repository.ProfileRepository = (*fakeProfileRepo)(nil)

func testImages() storage.ImageStore {
	return storage.NewLocalStore(storage.LocalConfig{BaseURL: "http://cdn.test/media"})
}

func newTestArtist() *domain.Artist {
	return &domain.Artist{
		ID:         7,
		Handle:     "jane_doe",
		Bio:        "ink and paper",
		AvatarKey:  "avatars/jane.png",
		Slug:       "jane-doe",
		IsVerified: true,
		WebsiteURL: "https://janedoe.example",
		CreatedAt:  time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestGetArtistProfileAnonymous(t *testing.T) {
	repo := &fakeProfileRepo{
		artist:    newTestArtist(),
		followers: 12,
		artworks: []domain.Artwork{
			{ID: 3, Title: "Dusk", ImageKey: "art/3.jpg"},
			{ID: 2, Title: "Noon", ImageKey: "art/2.jpg"},
		},
		curators:   []domain.Curator{{ID: 20, Handle: "ana_ruiz"}},
		topKeyword: "ink",
		// Data a broken implementation might leak into an anonymous view.
		isFollowing: true,
		mutualCount: 5,
		entries:     []domain.FollowerEntry{{ID: 9, Handle: "sam"}},
	}

	svc := NewProfileService(repo, testImages(), 0)
	profile, err := svc.GetArtistProfile(context.Background(), "jane-doe", 0)
	require.NoError(t, err)

	assert.Equal(t, "jane-doe", repo.resolvedIdentifier)
	assert.Empty(t, repo.viewerQueries, "viewer queries must not run for anonymous viewers")

	assert.Equal(t, uint(7), profile.ID)
	assert.Equal(t, "Jane Doe", profile.Name)
	assert.Equal(t, "http://cdn.test/media/avatars/jane.png", profile.AvatarURL)
	assert.True(t, profile.IsVerified)
	assert.Equal(t, int64(12), profile.FollowerCount)
	assert.Equal(t, 2, profile.ArtworkCount)
	assert.False(t, profile.IsFollowedByCurrentUser)
	assert.Nil(t, profile.FollowerPreview)

	for _, s := range profile.TrustSignals {
		assert.NotContains(t, s, "trusted peer")
		assert.NotContains(t, s, "peer validation")
	}
	for _, a := range profile.Artworks {
		assert.Nil(t, a.SocialIndicator)
	}
}

func TestGetArtistProfileWithViewer(t *testing.T) {
	repo := &fakeProfileRepo{
		artist:    newTestArtist(),
		followers: 3,
		artworks: []domain.Artwork{
			{ID: 4, Title: "Four", ImageKey: "art/4.jpg"},
			{ID: 3, Title: "Three", ImageKey: "art/3.jpg"},
			{ID: 2, Title: "Two", ImageKey: "art/2.jpg"},
			{ID: 1, Title: "One", ImageKey: "art/1.jpg"},
		},
		isFollowing:  true,
		curators:     []domain.Curator{{ID: 20, Handle: "ana_ruiz"}, {ID: 21, Handle: "ben_oko"}},
		mutualCount:  2,
		peerLikedIDs: []uint{3},
		topKeyword:   "ink",
		entries: []domain.FollowerEntry{
			{ID: 9, Handle: "sam_lee", AvatarKey: "avatars/sam.png", IsFollowedByViewer: false},
			{ID: 10, Handle: "ada", IsFollowedByViewer: true},
		},
	}

	svc := NewProfileService(repo, testImages(), 0)
	profile, err := svc.GetArtistProfile(context.Background(), "7", 42)
	require.NoError(t, err)

	assert.True(t, profile.IsFollowedByCurrentUser)
	assert.Equal(t, 4, profile.ArtworkCount)

	// Only artwork 3 carries the peer indicator; gallery order is untouched.
	require.Len(t, profile.Artworks, 4)
	assert.Equal(t, uint(4), profile.Artworks[0].ID)
	assert.Nil(t, profile.Artworks[0].SocialIndicator)
	require.NotNil(t, profile.Artworks[1].SocialIndicator)
	assert.Equal(t, domain.PeerLikedIndicator, *profile.Artworks[1].SocialIndicator)
	assert.Nil(t, profile.Artworks[2].SocialIndicator)
	assert.Nil(t, profile.Artworks[3].SocialIndicator)

	require.Len(t, profile.TrustSignals, 5)
	assert.Equal(t, "You have 2 trusted peers who also follow this artist.", profile.TrustSignals[0])
	assert.Equal(t, "This artist is followed by several curators you admire, including Ana Ruiz and Ben Oko.", profile.TrustSignals[1])
	assert.Equal(t, "Their work in ink is highly appreciated by other artists in the community.", profile.TrustSignals[2])
	assert.Equal(t, "A long-standing member, active since 2019.", profile.TrustSignals[3])
	assert.Equal(t, `Their piece "Three" has strong peer validation from long-term community members.`, profile.TrustSignals[4])

	// Followed-by-viewer entries sort first, then by display name.
	require.Len(t, profile.FollowerPreview, 2)
	assert.Equal(t, uint(10), profile.FollowerPreview[0].ID)
	assert.Equal(t, "Ada", profile.FollowerPreview[0].Name)
	assert.True(t, profile.FollowerPreview[0].IsFollowedByCurrentUser)
	assert.Equal(t, "Sam Lee", profile.FollowerPreview[1].Name)
	assert.Equal(t, "http://cdn.test/media/avatars/sam.png", profile.FollowerPreview[1].AvatarURL)
}

func TestGetArtistProfileNoFollowersOmitsPreview(t *testing.T) {
	repo := &fakeProfileRepo{
		artist:    newTestArtist(),
		followers: 0,
		entries:   nil,
	}

	svc := NewProfileService(repo, testImages(), 0)
	profile, err := svc.GetArtistProfile(context.Background(), "7", 42)
	require.NoError(t, err)

	assert.Nil(t, profile.FollowerPreview)
}

func TestGetArtistProfilePreviewTruncated(t *testing.T) {
	repo := &fakeProfileRepo{artist: newTestArtist(), followers: 15}
	for i := 0; i < 15; i++ {
		repo.entries = append(repo.entries, domain.FollowerEntry{
			ID:     uint(100 + i),
			Handle: fmt.Sprintf("user_%02d", i),
		})
	}

	svc := NewProfileService(repo, testImages(), 0)
	profile, err := svc.GetArtistProfile(context.Background(), "7", 42)
	require.NoError(t, err)

	require.Len(t, profile.FollowerPreview, followerPreviewLimit)
	assert.Equal(t, "User 00", profile.FollowerPreview[0].Name)
}

func TestGetArtistProfileNotFound(t *testing.T) {
	repo := &fakeProfileRepo{}

	svc := NewProfileService(repo, testImages(), 0)
	profile, err := svc.GetArtistProfile(context.Background(), "nobody", 0)

	assert.Nil(t, profile)
	assert.ErrorIs(t, err, repository.ErrArtistNotFound)
}

func TestGetArtistProfileQueryFailureFailsRequest(t *testing.T) {
	repo := &fakeProfileRepo{
		artist: newTestArtist(),
		errs:   map[string]error{"artworks": repository.ErrStoreUnavailable},
	}

	svc := NewProfileService(repo, testImages(), 0)
	profile, err := svc.GetArtistProfile(context.Background(), "7", 0)

	assert.Nil(t, profile)
	assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "artworks")
}

func TestGetArtistProfileMissingImageKeyDegrades(t *testing.T) {
	artist := newTestArtist()
	artist.AvatarKey = ""
	repo := &fakeProfileRepo{
		artist:   artist,
		artworks: []domain.Artwork{{ID: 1, Title: "One"}},
	}

	svc := NewProfileService(repo, testImages(), 0)
	profile, err := svc.GetArtistProfile(context.Background(), "7", 0)
	require.NoError(t, err)

	assert.Empty(t, profile.AvatarURL)
	require.Len(t, profile.Artworks, 1)
	assert.Empty(t, profile.Artworks[0].ThumbnailURL)
}
