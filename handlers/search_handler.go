package handlers

import (
	"net/http"
	"strings"
	"time"

	"vozdalei-backend/service"
	"vozdalei-backend/textproc"

	"github.com/gin-gonic/gin"
)

// SearchHandler handles HTTP requests for legislation search
type SearchHandler struct {
	search service.Searcher
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(search service.Searcher) *SearchHandler {
	return &SearchHandler{search: search}
}

// SearchRequest represents the request body for a search
type SearchRequest struct {
	Query    string `json:"query" binding:"required,min=3"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// autocompleteTerms feeds the search box suggestions.
var autocompleteTerms = []string{
	"educação",
	"saúde",
	"transporte",
	"meio ambiente",
	"trabalho",
	"previdência",
	"impostos",
	"segurança",
	"cultura",
	"esporte",
}

// Search handles POST /api/v1/search
func (h *SearchHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}
	if req.PageSize <= 0 || req.PageSize > 50 {
		req.PageSize = 10
	}
	if req.Page <= 0 {
		req.Page = 1
	}

	results := h.search.Search(c.Request.Context(), req.Query, req.PageSize)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total":     len(results),
			"page":      req.Page,
			"page_size": req.PageSize,
			"results":   results,
		},
	})
}

// Autocomplete handles GET /api/v1/search/autocomplete
func (h *SearchHandler) Autocomplete(c *gin.Context) {
	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	if len(q) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "QUERY_TOO_SHORT",
				"message": "Query must have at least 2 characters",
			},
		})
		return
	}

	suggestions := make([]string, 0, 5)
	for _, term := range autocompleteTerms {
		if strings.Contains(term, q) {
			suggestions = append(suggestions, term)
			if len(suggestions) == 5 {
				break
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"suggestions": suggestions,
		},
	})
}

// Filters handles GET /api/v1/search/filters
func (h *SearchHandler) Filters(c *gin.Context) {
	currentYear := time.Now().Year()
	years := make([]int, 0, 6)
	for y := currentYear - 5; y <= currentYear; y++ {
		years = append(years, y)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"types":      []string{"PL", "PEC", "PLP", "PLV"},
			"years":      years,
			"sources":    []string{"camara", "senado", "lexml", "municipal"},
			"status":     []string{"Em tramitação", "Aprovado", "Rejeitado", "Arquivado"},
			"categories": textproc.Categories(),
		},
	})
}
