package handlers

import (
	"net/http"

	"vozdalei-backend/models"
	"vozdalei-backend/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FavoriteHandler handles HTTP requests for bookmarked legislation
type FavoriteHandler struct {
	favoriteRepo *repository.FavoriteRepository
	userRepo     *repository.UserRepository
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(favoriteRepo *repository.FavoriteRepository, userRepo *repository.UserRepository) *FavoriteHandler {
	return &FavoriteHandler{favoriteRepo: favoriteRepo, userRepo: userRepo}
}

// CreateFavoriteRequest represents the request body for bookmarking
type CreateFavoriteRequest struct {
	UserID        string  `json:"user_id" binding:"required"`
	LegislationID string  `json:"legislation_id" binding:"required"`
	Notes         *string `json:"notes"`
}

// Create handles POST /api/v1/favorites
func (h *FavoriteHandler) Create(c *gin.Context) {
	var req CreateFavoriteRequest
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

	userID, err := uuid.Parse(req.UserID)
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
	legislationID, err := uuid.Parse(req.LegislationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_LEGISLATION_ID",
				"message": "Invalid legislation_id format",
			},
		})
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CREATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User not found",
			},
		})
		return
	}

	fav := &models.Favorite{
		UserID:        userID,
		LegislationID: legislationID,
		Notes:         req.Notes,
	}
	if err := h.favoriteRepo.Create(c.Request.Context(), fav); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CREATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    fav,
	})
}

// List handles GET /api/v1/favorites?user_id=...
func (h *FavoriteHandler) List(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "Query parameter user_id is required and must be a UUID",
			},
		})
		return
	}

	favorites, err := h.favoriteRepo.ListByUser(c.Request.Context(), userID)
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
	if favorites == nil {
		favorites = []*models.Favorite{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total":   len(favorites),
			"results": favorites,
		},
	})
}

// Delete handles DELETE /api/v1/favorites/:id?user_id=...
func (h *FavoriteHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid favorite id format",
			},
		})
		return
	}
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "Query parameter user_id is required and must be a UUID",
			},
		})
		return
	}

	deleted, err := h.favoriteRepo.Delete(c.Request.Context(), id, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DELETE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Favorite not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"deleted": true,
		},
	})
}
