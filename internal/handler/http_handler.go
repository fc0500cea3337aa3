package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/artgaze/profile-service/internal/repository"
	"github.com/artgaze/profile-service/internal/service"
	pkglog "github.com/artgaze/profile-service/pkg/log"
	"github.com/artgaze/profile-service/pkg/middleware"
	"github.com/artgaze/profile-service/pkg/response"
)

// Handler handles HTTP requests for the profile service.
type Handler struct {
	profiles       service.ProfileService
	graph          service.GraphService
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler creates a new HTTP handler.
func NewHandler(profiles service.ProfileService, graph service.GraphService, authMiddleware *middleware.AuthMiddleware) *Handler {
	return &Handler{
		profiles:       profiles,
		graph:          graph,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers all routes onto the Gin engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		artists := api.Group("/artists")
		{
			// GET /api/v1/artists/:artist_id/profile — anonymous allowed
			artists.GET("/:artist_id/profile", h.authMiddleware.OptionalViewer(), h.GetArtistProfile)
			// POST /api/v1/artists/:artist_id/follow — auth required
			artists.POST("/:artist_id/follow", h.authMiddleware.RequireAuth(), h.Follow)
			// DELETE /api/v1/artists/:artist_id/follow — auth required
			artists.DELETE("/:artist_id/follow", h.authMiddleware.RequireAuth(), h.Unfollow)
			// GET /api/v1/artists/:artist_id/followers/count — no auth
			artists.GET("/:artist_id/followers/count", h.GetFollowersCount)
		}
	}
}

// GetArtistProfile handles GET /api/v1/artists/:artist_id/profile.
// The identifier may be a numeric account id or an artist slug. The viewer
// identity comes from the bearer token when present, with a `viewer` query
// parameter fallback; absent both, the view is anonymous.
func (h *Handler) GetArtistProfile(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	identifier := c.Param("artist_id")
	if identifier == "" {
		response.BadRequest(c, "artist identifier is required")
		return
	}

	viewerID := middleware.GetUserID(c)
	if viewerID == 0 {
		if raw := c.Query("viewer"); raw != "" {
			if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
				viewerID = uint(id)
			}
		}
	}

	profile, err := h.profiles.GetArtistProfile(ctx, identifier, viewerID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrArtistNotFound):
			response.NotFound(c, "artist not found")
		case errors.Is(err, repository.ErrStoreUnavailable):
			l.Error().Err(err).Str("identifier", identifier).Msg("store unavailable")
			response.ServiceUnavailable(c, "profile data is temporarily unavailable")
		default:
			// Never leak internal query detail to the caller.
			l.Error().Err(err).Str("identifier", identifier).Msg("get artist profile failed")
			response.InternalError(c, "failed to load artist profile")
		}
		return
	}

	response.Success(c, profile)
}

// Follow handles POST /api/v1/artists/:artist_id/follow.
// The authenticated user follows the target artist.
func (h *Handler) Follow(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	followerID := middleware.GetUserID(c)
	if followerID == 0 {
		response.Unauthorized(c, "unauthorized")
		return
	}

	artistID, ok := h.artistIDParam(c)
	if !ok {
		return
	}

	if err := h.graph.Follow(ctx, followerID, artistID); err != nil {
		switch {
		case errors.Is(err, service.ErrSelfFollow):
			response.BadRequest(c, "cannot follow yourself")
		case errors.Is(err, service.ErrAlreadyFollowing):
			response.Conflict(c, "already following")
		default:
			l.Error().Err(err).
				Uint("follower_id", followerID).
				Uint(pkglog.FieldArtistID, artistID).
				Msg("follow failed")
			response.InternalError(c, "failed to follow artist")
		}
		return
	}

	response.Created(c, gin.H{"message": "followed successfully"})
}

// Unfollow handles DELETE /api/v1/artists/:artist_id/follow.
// The authenticated user unfollows the target artist.
func (h *Handler) Unfollow(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	followerID := middleware.GetUserID(c)
	if followerID == 0 {
		response.Unauthorized(c, "unauthorized")
		return
	}

	artistID, ok := h.artistIDParam(c)
	if !ok {
		return
	}

	if err := h.graph.Unfollow(ctx, followerID, artistID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFollowing):
			response.Conflict(c, "not following")
		default:
			l.Error().Err(err).
				Uint("follower_id", followerID).
				Uint(pkglog.FieldArtistID, artistID).
				Msg("unfollow failed")
			response.InternalError(c, "failed to unfollow artist")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// GetFollowersCount handles GET /api/v1/artists/:artist_id/followers/count.
func (h *Handler) GetFollowersCount(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	artistID, ok := h.artistIDParam(c)
	if !ok {
		return
	}

	count, err := h.graph.GetFollowersCount(ctx, artistID)
	if err != nil {
		l.Error().Err(err).Uint(pkglog.FieldArtistID, artistID).Msg("get followers count failed")
		response.InternalError(c, "failed to get followers count")
		return
	}

	response.Success(c, gin.H{"count": count})
}

func (h *Handler) artistIDParam(c *gin.Context) (uint, bool) {
	raw := c.Param("artist_id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "artist_id must be a numeric id")
		return 0, false
	}
	return uint(id), true
}
