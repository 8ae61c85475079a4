package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cinefavs/catalog-api/internal/api/metrics"
	"github.com/cinefavs/catalog-api/internal/core/domain"
	"github.com/cinefavs/catalog-api/internal/core/ports"
)

// FavoriteHandler handles the caller's favorite movies. Every route requires
// the Auth middleware.
type FavoriteHandler struct {
	service ports.FavoriteService
	audit   ports.AuditSink
}

func NewFavoriteHandler(service ports.FavoriteService, audit ports.AuditSink) *FavoriteHandler {
	return &FavoriteHandler{service: service, audit: audit}
}

// List handles GET /favorites.
//
// @Summary      List favorites
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  favoriteListResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /favorites [get]
func (h *FavoriteHandler) List(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	favs, err := h.service.List(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, favoriteListResponse{
		Success: true,
		Data:    toFavoriteResponses(favs),
	})
}

// Add handles POST /favorites.
//
// @Summary      Add a favorite
// @Tags         favorites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addFavoriteRequest  true  "Movie to favorite"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /favorites [post]
func (h *FavoriteHandler) Add(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req addFavoriteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	rawID := rawMovieID(req.MovieTMDBID)
	fav, err := h.service.Add(c.Request().Context(), claims.UserID, ports.AddFavoriteInput{
		MovieID:   rawID,
		Title:     req.Title,
		PosterURL: req.PosterURL,
	})
	if err != nil {
		h.record(c, domain.ActionAddFavorite+":"+rawID, claims.UserID, err)
		return err
	}

	metrics.FavoritesAddedTotal.Inc()
	h.record(c, domain.ActionAddFavorite+":"+strconv.FormatInt(fav.MovieID, 10), claims.UserID, nil)

	return c.JSON(http.StatusCreated, messageResponse{
		Success: true,
		Message: "movie added to favorites",
	})
}

// Get handles GET /favorites/:movieId.
//
// @Summary      Get one favorite
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Param        movieId  path      int  true  "External movie id"
// @Success      200      {object}  favoriteDetailResponse
// @Failure      400      {object}  errorResponse
// @Failure      401      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /favorites/{movieId} [get]
func (h *FavoriteHandler) Get(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	fav, err := h.service.Get(c.Request().Context(), claims.UserID, c.Param("movieId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, favoriteDetailResponse{
		Success: true,
		Data:    toFavoriteResponse(fav),
	})
}

// Remove handles DELETE /favorites/:movieId.
//
// @Summary      Remove a favorite
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Param        movieId  path      int  true  "External movie id"
// @Success      200      {object}  messageResponse
// @Failure      400      {object}  errorResponse
// @Failure      401      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /favorites/{movieId} [delete]
func (h *FavoriteHandler) Remove(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	rawID := c.Param("movieId")
	_, err = h.service.Remove(c.Request().Context(), claims.UserID, rawID)
	h.record(c, domain.ActionRemoveFavorite+":"+rawID, claims.UserID, err)
	if err != nil {
		return err
	}

	metrics.FavoritesRemovedTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{
		Success: true,
		Message: "favorite removed",
	})
}

func (h *FavoriteHandler) record(c echo.Context, action string, userID int64, err error) {
	if h.audit != nil {
		h.audit.Enqueue(securityEvent(c, action, &userID, err))
	}
}
