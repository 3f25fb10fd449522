package handlers

import (
	"errors"
	"log"
	"net/http"

	"vozdalei-backend/models"
	"vozdalei-backend/service"

	"github.com/gin-gonic/gin"
)

// SimplificationHandler handles HTTP requests for text simplification
type SimplificationHandler struct {
	simplificationService *service.SimplificationService
	audioService          *service.AudioService
}

// NewSimplificationHandler creates a new simplification handler
func NewSimplificationHandler(simplificationService *service.SimplificationService, audioService *service.AudioService) *SimplificationHandler {
	return &SimplificationHandler{
		simplificationService: simplificationService,
		audioService:          audioService,
	}
}

// SimplifyRequest represents the request body for a simplification
type SimplifyRequest struct {
	Text         string `json:"text" binding:"required,min=10"`
	TargetLevel  string `json:"target_level"`
	IncludeAudio bool   `json:"include_audio"`
}

// SimplifyBatchRequest represents the request body for a batch simplification
type SimplifyBatchRequest struct {
	Texts       []string `json:"texts" binding:"required"`
	TargetLevel string   `json:"target_level"`
}

// Simplify handles POST /api/v1/simplification
func (h *SimplificationHandler) Simplify(c *gin.Context) {
	var req SimplifyRequest
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

	level := models.SimplificationLevel(req.TargetLevel)
	if req.TargetLevel == "" {
		level = models.LevelSimple
	}

	result, err := h.simplificationService.Simplify(c.Request.Context(), service.SimplifyRequest{
		Text:        req.Text,
		TargetLevel: level,
	})
	if err != nil {
		h.writeSimplifyError(c, err)
		return
	}

	simplification := result.Simplification
	if req.IncludeAudio && h.audioService != nil {
		synth, err := h.audioService.Synthesize(c.Request.Context(), service.SynthesizeRequest{
			Text: simplification.SimplifiedText,
		})
		if err != nil {
			log.Printf("Warning: failed to synthesize simplified text: %v", err)
		} else {
			simplification.AudioURL = &synth.URL
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    simplification,
	})
}

// SimplifyBatch handles POST /api/v1/simplification/batch
func (h *SimplificationHandler) SimplifyBatch(c *gin.Context) {
	var req SimplifyBatchRequest
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

	level := models.SimplificationLevel(req.TargetLevel)
	if req.TargetLevel == "" {
		level = models.LevelSimple
	}

	result, err := h.simplificationService.SimplifyBatch(c.Request.Context(), service.SimplifyBatchRequest{
		Texts:       req.Texts,
		TargetLevel: level,
	})
	if err != nil {
		h.writeSimplifyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total":   len(result.Simplifications),
			"results": result.Simplifications,
		},
	})
}

func (h *SimplificationHandler) writeSimplifyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyText):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EMPTY_TEXT",
				"message": "Text must not be empty",
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
	case errors.Is(err, service.ErrBatchTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BATCH_TOO_LARGE",
				"message": err.Error(),
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SIMPLIFICATION_FAILED",
				"message": err.Error(),
			},
		})
	}
}
