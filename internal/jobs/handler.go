package jobs

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"internship-ats/internal/shared/server/respond"
)

const maxLimit = 50

// Handler exposes job search over HTTP.
type Handler struct {
	Searcher *Searcher
}

// NewHandler constructs a Handler.
func NewHandler(searcher *Searcher) *Handler {
	return &Handler{Searcher: searcher}
}

// RegisterRoutes attaches job routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/jobs/search", h.search)
}

func (h *Handler) search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		query = DefaultQuery
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > maxLimit {
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be between 1 and 50", nil)
			return
		}
		limit = parsed
	}

	listings, err := h.Searcher.Search(c.Request.Context(), query, limit)
	if err != nil {
		switch {
		case errors.Is(err, ErrProvider):
			respond.Error(c, http.StatusBadGateway, "search_unavailable", "search provider is unavailable", nil)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			respond.Error(c, http.StatusGatewayTimeout, "timeout", "search did not complete", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to search jobs", nil)
		}
		return
	}

	respond.OK(c, gin.H{
		"query":    query,
		"listings": listings,
	})
}
