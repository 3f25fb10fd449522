package handlers

import (
	"net/http"
	"strconv"

	"vozdalei-backend/models"
	"vozdalei-backend/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// QueryHandler handles HTTP requests for the interaction history
type QueryHandler struct {
	queryRepo *repository.QueryRepository
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(queryRepo *repository.QueryRepository) *QueryHandler {
	return &QueryHandler{queryRepo: queryRepo}
}

// ListRecent handles GET /api/v1/queries
func (h *QueryHandler) ListRecent(c *gin.Context) {
	limit := parseLimit(c, 20)

	queries, err := h.queryRepo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": err.Error(),
			},
		})
		return
	}
	if queries == nil {
		queries = []*models.Query{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total":   len(queries),
			"results": queries,
		},
	})
}

// ListByUser handles GET /api/v1/queries/user/:user_id
func (h *QueryHandler) ListByUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "Invalid user_id format",
			},
		})
		return
	}
	limit := parseLimit(c, 20)

	queries, err := h.queryRepo.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": err.Error(),
			},
		})
		return
	}
	if queries == nil {
		queries = []*models.Query{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total":   len(queries),
			"results": queries,
		},
	})
}

func parseLimit(c *gin.Context, fallback int) int {
	raw := c.Query("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > 100 {
		return fallback
	}
	return limit
}
