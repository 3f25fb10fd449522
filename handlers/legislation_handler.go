package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"vozdalei-backend/models"
	"vozdalei-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LegislationHandler handles HTTP requests for legislative documents
type LegislationHandler struct {
	legislationService *service.LegislationService
}

// NewLegislationHandler creates a new legislation handler
func NewLegislationHandler(legislationService *service.LegislationService) *LegislationHandler {
	return &LegislationHandler{legislationService: legislationService}
}

// Trending handles GET /api/v1/legislation/trending
func (h *LegislationHandler) Trending(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_LIMIT",
					"message": "limit must be a positive integer",
				},
			})
			return
		}
		limit = parsed
	}

	result, err := h.legislationService.Trending(c.Request.Context(), service.TrendingRequest{Limit: limit})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TRENDING_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total":   len(result.Documents),
			"results": result.Documents,
		},
	})
}

// Get handles GET /api/v1/legislation/:id
func (h *LegislationHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid legislation id format",
			},
		})
		return
	}

	result, err := h.legislationService.GetDocument(c.Request.Context(), service.GetDocumentRequest{ID: id})
	if err != nil {
		if errors.Is(err, service.ErrLegislationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Legislation not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "GET_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Document,
	})
}

// SimplifyDocumentRequest represents the request body for simplifying a
// stored document
type SimplifyDocumentRequest struct {
	TargetLevel string `json:"target_level"`
}

// Simplify handles POST /api/v1/legislation/:id/simplify
func (h *LegislationHandler) Simplify(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid legislation id format",
			},
		})
		return
	}

	var req SimplifyDocumentRequest
	// An empty body means default level
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}
	level := models.SimplificationLevel(req.TargetLevel)
	if req.TargetLevel == "" {
		level = models.LevelSimple
	}

	result, err := h.legislationService.SimplifyDocument(c.Request.Context(), service.SimplifyDocumentRequest{
		ID:          id,
		TargetLevel: level,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLegislationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Legislation not found",
				},
			})
		case errors.Is(err, service.ErrInvalidLevel):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_LEVEL",
					"message": "target_level must be simple, moderate or technical",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SIMPLIFY_FAILED",
					"message": err.Error(),
				},
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Simplification,
	})
}

// ByCategory handles GET /api/v1/legislation/category/:category
func (h *LegislationHandler) ByCategory(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_LIMIT",
					"message": "limit must be a positive integer",
				},
			})
			return
		}
		limit = parsed
	}

	result, err := h.legislationService.ByCategory(c.Request.Context(), service.ByCategoryRequest{
		Category: c.Param("category"),
		Limit:    limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CATEGORY_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total":   len(result.Documents),
			"results": result.Documents,
		},
	})
}

// CatalogSearch handles GET /api/v1/legislation/lexml/search
func (h *LegislationHandler) CatalogSearch(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EMPTY_QUERY",
				"message": "Query parameter 'query' is required",
			},
		})
		return
	}

	start, _ := strconv.Atoi(c.DefaultQuery("start_record", "1"))
	max, _ := strconv.Atoi(c.DefaultQuery("maximum_records", "20"))
	if max > 100 {
		max = 100
	}

	result, err := h.legislationService.CatalogSearch(c.Request.Context(), service.CatalogSearchRequest{
		Query:          query,
		StartRecord:    start,
		MaximumRecords: max,
	})
	if err != nil {
		if errors.Is(err, service.ErrCatalogUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "CATALOG_UNAVAILABLE",
					"message": "Legislation catalog is not available",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CATALOG_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total":   result.Total,
			"results": result.Documents,
		},
	})
}

// Municipal handles GET /api/v1/legislation/municipal/:state/:city
func (h *LegislationHandler) Municipal(c *gin.Context) {
	state := c.Param("state")
	city := c.Param("city")
	if len(state) != 2 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATE",
				"message": "State must be a two-letter code",
			},
		})
		return
	}

	result, err := h.legislationService.Municipal(c.Request.Context(), service.MunicipalRequest{
		State:    state,
		City:     city,
		Keywords: c.Query("keywords"),
		Since:    c.Query("published_since"),
		Until:    c.Query("published_until"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MUNICIPAL_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total":   len(result.Documents),
			"results": result.Documents,
		},
	})
}
