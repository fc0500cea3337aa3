package service

import (
	"fmt"
	"strings"

	"github.com/artgaze/profile-service/internal/domain"
)

// SignalFacts carries the typed values the trust-signal sentences are built
// from. Zero values mean "no evidence": the corresponding sentence is not
// emitted.
type SignalFacts struct {
	MutualCount        int64
	CuratorNames       []string
	TopKeyword         string
	TenureYear         int
	PeerValidatedTitle string
}

// BuildTrustSignals renders the trust-signal sentences in their fixed order:
// mutual connections, curator endorsements, top keyword, tenure, peer
// validation. A sentence is included only when its triggering value is
// present.
func BuildTrustSignals(facts SignalFacts) []string {
	signals := make([]string, 0, 5)

	if facts.MutualCount > 0 {
		noun := "peers"
		if facts.MutualCount == 1 {
			noun = "peer"
		}
		signals = append(signals, fmt.Sprintf(
			"You have %d trusted %s who also follow this artist.", facts.MutualCount, noun))
	}

	if len(facts.CuratorNames) > 0 {
		signals = append(signals, fmt.Sprintf(
			"This artist is followed by several curators you admire, including %s.",
			joinCuratorNames(facts.CuratorNames)))
	}

	if facts.TopKeyword != "" {
		signals = append(signals, fmt.Sprintf(
			"Their work in %s is highly appreciated by other artists in the community.", facts.TopKeyword))
	}

	if facts.TenureYear > 0 {
		signals = append(signals, fmt.Sprintf(
			"A long-standing member, active since %d.", facts.TenureYear))
	}

	if facts.PeerValidatedTitle != "" {
		signals = append(signals, fmt.Sprintf(
			"Their piece %q has strong peer validation from long-term community members.", facts.PeerValidatedTitle))
	}

	return signals
}

// joinCuratorNames renders up to two curator names verbatim; any further
// curators collapse into an "N other(s)" tail.
func joinCuratorNames(names []string) string {
	if len(names) <= 2 {
		return strings.Join(names, " and ")
	}

	rest := len(names) - 2
	noun := "other"
	if rest > 1 {
		noun = "others"
	}
	return fmt.Sprintf("%s, and %d %s", strings.Join(names[:2], ", "), rest, noun)
}

// annotateArtworks merges the artwork list with the peer-liked id set,
// attaching a nullable social indicator per artwork. Order and length of the
// input are preserved.
func annotateArtworks(artworks []domain.ArtworkView, peerLiked map[uint]bool) []domain.ArtworkView {
	for i := range artworks {
		if peerLiked[artworks[i].ID] {
			indicator := domain.PeerLikedIndicator
			artworks[i].SocialIndicator = &indicator
		}
	}
	return artworks
}
