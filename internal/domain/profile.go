package domain

import "time"

// Artist is an account joined with its artist attributes.
type Artist struct {
	ID         uint
	Handle     string
	Bio        string
	AvatarKey  string
	Slug       string
	IsVerified bool
	WebsiteURL string
	CreatedAt  time.Time
}

// Artwork is a single piece owned by an artist.
type Artwork struct {
	ID        uint
	Title     string
	ImageKey  string
	CreatedAt time.Time
}

// Curator is a trusted-recommender account following an artist.
type Curator struct {
	ID     uint
	Handle string
}

// FollowerEntry is one follower of an artist, with the viewer's relation
// to that follower.
type FollowerEntry struct {
	ID                 uint
	Handle             string
	AvatarKey          string
	IsFollowedByViewer bool
}

// PeerLikedIndicator is the marker attached to artworks liked by one of the
// viewer's peers.
const PeerLikedIndicator = "Liked by a peer"

// ArtworkView is an artwork as rendered in the profile response.
type ArtworkView struct {
	ID              uint    `json:"id"`
	ThumbnailURL    string  `json:"thumbnailUrl"`
	Title           string  `json:"title,omitempty"`
	SocialIndicator *string `json:"socialIndicator"`
}

// FollowerPreviewEntry is one entry of the follower preview list.
type FollowerPreviewEntry struct {
	ID                      uint   `json:"id"`
	Name                    string `json:"name"`
	AvatarURL               string `json:"avatarUrl"`
	IsFollowedByCurrentUser bool   `json:"isFollowedByCurrentUser"`
}

// ArtistProfile is the externally visible profile object.
// FollowerPreview is omitted entirely (not an empty list) when there is no
// viewer context or the artist has no followers.
type ArtistProfile struct {
	ID                      uint                   `json:"id"`
	Name                    string                 `json:"name"`
	AvatarURL               string                 `json:"avatarUrl"`
	IsVerified              bool                   `json:"isVerified"`
	FollowerCount           int64                  `json:"followerCount"`
	ArtworkCount            int                    `json:"artworkCount"`
	IsFollowedByCurrentUser bool                   `json:"isFollowedByCurrentUser"`
	Bio                     string                 `json:"bio"`
	WebsiteURL              string                 `json:"websiteUrl,omitempty"`
	TrustSignals            []string               `json:"trustSignals"`
	Artworks                []ArtworkView          `json:"artworks"`
	FollowerPreview         []FollowerPreviewEntry `json:"followerPreview,omitempty"`
}
