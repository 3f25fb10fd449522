package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vozdalei-backend/service"

	"github.com/gin-gonic/gin"
)

func newChatRouter(svc *service.ChatService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewChatHandler(svc)
	r.POST("/api/v1/chat", h.Chat)
	r.GET("/api/v1/chat/suggestions", h.Suggestions)
	return r
}

func TestChatRejectsMissingMessage(t *testing.T) {
	r := newChatRouter(service.NewChatService())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestChatRejectsInvalidUserID(t *testing.T) {
	r := newChatRouter(service.NewChatService())

	body := `{"message": "Oi", "user_id": "not-a-uuid"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Error.Code != "INVALID_USER_ID" {
		t.Errorf("error code = %q, want INVALID_USER_ID", resp.Error.Code)
	}
}

func TestChatDegradedWithoutProvider(t *testing.T) {
	// Service with no model configured still answers with a fallback
	r := newChatRouter(service.NewChatService())

	body := `{"message": "O que diz a lei 14.133/2021?"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Message     string   `json:"message"`
			Suggestions []string `json:"suggestions"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Success {
		t.Error("success = false, want true")
	}
	if resp.Data.Message == "" {
		t.Error("degraded reply has empty message")
	}
	if len(resp.Data.Suggestions) == 0 || len(resp.Data.Suggestions) > service.MaxSuggestions {
		t.Errorf("suggestion count = %d, want 1..%d", len(resp.Data.Suggestions), service.MaxSuggestions)
	}
}

func TestChatSuggestions(t *testing.T) {
	r := newChatRouter(service.NewChatService())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/suggestions", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Data struct {
			Suggestions []string `json:"suggestions"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Data.Suggestions) == 0 {
		t.Error("no suggestions returned")
	}
}
