package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cinefavs/catalog-api/internal/api/metrics"
	"github.com/cinefavs/catalog-api/internal/core/domain"
	"github.com/cinefavs/catalog-api/internal/core/ports"
)

type MovieHandler struct {
	service ports.MovieService
	audit   ports.AuditSink
}

func NewMovieHandler(service ports.MovieService, audit ports.AuditSink) *MovieHandler {
	return &MovieHandler{service: service, audit: audit}
}

// List handles GET /movies. The catalog is public.
//
// @Summary      List the catalog
// @Tags         movies
// @Produce      json
// @Success      200  {object}  movieListResponse
// @Failure      500  {object}  errorResponse
// @Router       /movies [get]
func (h *MovieHandler) List(c echo.Context) error {
	movies, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, movieListResponse{Success: true, Data: movies})
}

// Search handles GET /search?q=.
//
// @Summary      Search the catalog by title
// @Tags         movies
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  true  "Title fragment (1-100 characters)"
// @Success      200  {object}  movieSearchResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /search [get]
func (h *MovieHandler) Search(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	query, movies, err := h.service.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}

	result := "hit"
	if len(movies) == 0 {
		result = "empty"
	}
	metrics.MovieSearchesTotal.WithLabelValues(result).Inc()

	if h.audit != nil {
		h.audit.Enqueue(securityEvent(c, domain.ActionSearch+":"+query, &claims.UserID, nil))
	}

	return c.JSON(http.StatusOK, movieSearchResponse{Success: true, Query: query, Data: movies})
}
