package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artgaze/profile-service/internal/consumer"
	"github.com/artgaze/profile-service/internal/domain"
	"github.com/artgaze/profile-service/internal/repository"
	"github.com/artgaze/profile-service/internal/service"
	"github.com/artgaze/profile-service/pkg/jwt"
	"github.com/artgaze/profile-service/pkg/middleware"
)

type stubProfileService struct {
	profile   *domain.ArtistProfile
	err       error
	gotID     string
	gotViewer uint
}

func (s *stubProfileService) GetArtistProfile(_ context.Context, identifier string, viewerID uint) (*domain.ArtistProfile, error) {
	s.gotID = identifier
	s.gotViewer = viewerID
	return s.profile, s.err
}

type stubGraphService struct {
	followErr   error
	unfollowErr error
	count       int64
	countErr    error
}

func (s *stubGraphService) Follow(_ context.Context, _, _ uint) error   { return s.followErr }
func (s *stubGraphService) Unfollow(_ context.Context, _, _ uint) error { return s.unfollowErr }
func (s *stubGraphService) GetFollowersCount(_ context.Context, _ uint) (int64, error) {
	return s.count, s.countErr
}
func (s *stubGraphService) HandleCDCEvent(_ context.Context, _ *consumer.DebeziumMessage) error {
	return nil
}

var (
	_ service.ProfileService = (*stubProfileService)(nil)
	_ service.GraphService   = (*stubGraphService)(nil)
)

func setupRouter(t *testing.T, profiles *stubProfileService, graph *stubGraphService) (*gin.Engine, *jwt.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := jwt.NewManager("test-secret", time.Hour, "artgaze")
	require.NoError(t, err)

	r := gin.New()
	NewHandler(profiles, graph, middleware.NewAuthMiddleware(tokens)).RegisterRoutes(r)
	return r, tokens
}

func doRequest(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetArtistProfileSuccess(t *testing.T) {
	profiles := &stubProfileService{profile: &domain.ArtistProfile{ID: 7, Name: "Jane Doe"}}
	r, _ := setupRouter(t, profiles, &stubGraphService{})

	w := doRequest(r, http.MethodGet, "/api/v1/artists/jane-doe/profile", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jane-doe", profiles.gotID)
	assert.Equal(t, uint(0), profiles.gotViewer)

	var body struct {
		Success bool                 `json:"success"`
		Data    domain.ArtistProfile `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Jane Doe", body.Data.Name)
}

func TestGetArtistProfileViewerFromToken(t *testing.T) {
	profiles := &stubProfileService{profile: &domain.ArtistProfile{ID: 7}}
	r, tokens := setupRouter(t, profiles, &stubGraphService{})

	token, err := tokens.Generate(42, "sam_lee")
	require.NoError(t, err)

	w := doRequest(r, http.MethodGet, "/api/v1/artists/7/profile", token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(42), profiles.gotViewer)
}

func TestGetArtistProfileViewerQueryFallback(t *testing.T) {
	profiles := &stubProfileService{profile: &domain.ArtistProfile{ID: 7}}
	r, _ := setupRouter(t, profiles, &stubGraphService{})

	w := doRequest(r, http.MethodGet, "/api/v1/artists/7/profile?viewer=42", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(42), profiles.gotViewer)
}

func TestGetArtistProfileMalformedTokenRejected(t *testing.T) {
	profiles := &stubProfileService{profile: &domain.ArtistProfile{ID: 7}}
	r, _ := setupRouter(t, profiles, &stubGraphService{})

	w := doRequest(r, http.MethodGet, "/api/v1/artists/7/profile", "not-a-token")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetArtistProfileErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", repository.ErrArtistNotFound, http.StatusNotFound},
		{"store unavailable", repository.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{"unexpected error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := setupRouter(t, &stubProfileService{err: tt.err}, &stubGraphService{})

			w := doRequest(r, http.MethodGet, "/api/v1/artists/7/profile", "")

			assert.Equal(t, tt.wantStatus, w.Code)
			// Internal detail stays out of the body.
			assert.NotContains(t, w.Body.String(), "boom")
		})
	}
}

func TestFollowRequiresAuth(t *testing.T) {
	r, _ := setupRouter(t, &stubProfileService{}, &stubGraphService{})

	w := doRequest(r, http.MethodPost, "/api/v1/artists/7/follow", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFollowSuccess(t *testing.T) {
	r, tokens := setupRouter(t, &stubProfileService{}, &stubGraphService{})
	token, err := tokens.Generate(42, "sam_lee")
	require.NoError(t, err)

	w := doRequest(r, http.MethodPost, "/api/v1/artists/7/follow", token)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestFollowErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"self follow", service.ErrSelfFollow, http.StatusBadRequest},
		{"already following", service.ErrAlreadyFollowing, http.StatusConflict},
		{"unexpected error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, tokens := setupRouter(t, &stubProfileService{}, &stubGraphService{followErr: tt.err})
			token, err := tokens.Generate(42, "sam_lee")
			require.NoError(t, err)

			w := doRequest(r, http.MethodPost, "/api/v1/artists/7/follow", token)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestUnfollowSuccess(t *testing.T) {
	r, tokens := setupRouter(t, &stubProfileService{}, &stubGraphService{})
	token, err := tokens.Generate(42, "sam_lee")
	require.NoError(t, err)

	w := doRequest(r, http.MethodDelete, "/api/v1/artists/7/follow", token)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestUnfollowNotFollowing(t *testing.T) {
	r, tokens := setupRouter(t, &stubProfileService{}, &stubGraphService{unfollowErr: service.ErrNotFollowing})
	token, err := tokens.Generate(42, "sam_lee")
	require.NoError(t, err)

	w := doRequest(r, http.MethodDelete, "/api/v1/artists/7/follow", token)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestFollowRejectsNonNumericArtistID(t *testing.T) {
	r, tokens := setupRouter(t, &stubProfileService{}, &stubGraphService{})
	token, err := tokens.Generate(42, "sam_lee")
	require.NoError(t, err)

	w := doRequest(r, http.MethodPost, "/api/v1/artists/jane-doe/follow", token)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetFollowersCount(t *testing.T) {
	r, _ := setupRouter(t, &stubProfileService{}, &stubGraphService{count: 12})

	w := doRequest(r, http.MethodGet, "/api/v1/artists/7/followers/count", "")

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Count int64 `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, int64(12), body.Data.Count)
}
