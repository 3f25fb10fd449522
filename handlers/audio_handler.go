package handlers

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"vozdalei-backend/service"

	"github.com/gin-gonic/gin"
)

// AudioHandler handles HTTP requests for audio in and out
type AudioHandler struct {
	audioService *service.AudioService
}

// NewAudioHandler creates a new audio handler
func NewAudioHandler(audioService *service.AudioService) *AudioHandler {
	return &AudioHandler{audioService: audioService}
}

// TTSRequest represents the request body for speech synthesis
type TTSRequest struct {
	Text     string `json:"text" binding:"required"`
	Language string `json:"language"`
}

// TranscribeRequest represents the request body for transcription. The
// audio arrives base64 encoded, the way browser recorders ship it.
type TranscribeRequest struct {
	AudioBase64 string `json:"audio_base64" binding:"required"`
	Format      string `json:"format"`
	Language    string `json:"language"`
}

// Transcribe handles POST /api/v1/audio/transcribe
func (h *AudioHandler) Transcribe(c *gin.Context) {
	var req TranscribeRequest
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

	// Tolerate data-URI payloads
	payload := req.AudioBase64
	if idx := strings.Index(payload, ";base64,"); idx >= 0 {
		payload = payload[idx+len(";base64,"):]
	}
	audio, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_AUDIO",
				"message": "Field 'audio_base64' is not valid base64",
			},
		})
		return
	}

	format := req.Format
	if format == "" {
		format = "webm"
	}

	result, err := h.audioService.Transcribe(c.Request.Context(), service.TranscribeRequest{
		Filename: "audio." + strings.TrimPrefix(format, "."),
		Audio:    bytes.NewReader(audio),
		Size:     int64(len(audio)),
		Language: req.Language,
	})
	if err != nil {
		h.writeAudioError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"text":     result.Text,
			"language": result.Language,
		},
	})
}

// TTS handles POST /api/v1/audio/tts
func (h *AudioHandler) TTS(c *gin.Context) {
	var req TTSRequest
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

	result, err := h.audioService.Synthesize(c.Request.Context(), service.SynthesizeRequest{
		Text:     req.Text,
		Language: req.Language,
	})
	if err != nil {
		h.writeAudioError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"filename":  result.Filename,
			"audio_url": result.URL,
			"cached":    result.Cached,
		},
	})
}

// Upload handles POST /api/v1/audio/upload
func (h *AudioHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "Multipart field 'file' is required",
			},
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_OPEN_FAILED",
				"message": err.Error(),
			},
		})
		return
	}
	defer file.Close()

	result, err := h.audioService.SaveUpload(c.Request.Context(), service.SaveUploadRequest{
		Filename: fileHeader.Filename,
		Audio:    file,
		Size:     fileHeader.Size,
	})
	if err != nil {
		h.writeAudioError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"filename":  result.Filename,
			"audio_url": result.URL,
		},
	})
}

// Download handles GET /api/v1/audio/:filename
func (h *AudioHandler) Download(c *gin.Context) {
	filename := c.Param("filename")

	rc, err := h.audioService.Open(c.Request.Context(), filename)
	if err != nil {
		h.writeAudioError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", audioMIMEType(filename))
	c.Header("Content-Disposition", `inline; filename="`+filepath.Base(filename)+`"`)
	c.Status(http.StatusOK)
	io.Copy(c.Writer, rc)
}

func (h *AudioHandler) writeAudioError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAudioTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AUDIO_TOO_LARGE",
				"message": "Audio file exceeds the maximum allowed size",
			},
		})
	case errors.Is(err, service.ErrUnsupportedFormat):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNSUPPORTED_FORMAT",
				"message": err.Error(),
			},
		})
	case errors.Is(err, service.ErrEmptyText):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EMPTY_TEXT",
				"message": "Text must not be empty",
			},
		})
	case errors.Is(err, service.ErrAudioNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AUDIO_NOT_FOUND",
				"message": "Audio file not found",
			},
		})
	case errors.Is(err, service.ErrSpeechUnavailable), errors.Is(err, service.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SPEECH_UNAVAILABLE",
				"message": "Speech service is not available",
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AUDIO_FAILED",
				"message": err.Error(),
			},
		})
	}
}

func audioMIMEType(filename string) string {
	switch filepath.Ext(filename) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	case ".m4a":
		return "audio/mp4"
	case ".webm":
		return "audio/webm"
	default:
		return "application/octet-stream"
	}
}
