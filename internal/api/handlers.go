package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/davidspringean12/ai-mazed/internal/core"
)

type APIHandler struct {
	chatService *core.ChatService
}

func NewAPIHandler(cs *core.ChatService) *APIHandler {
	return &APIHandler{chatService: cs}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

func (h *APIHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.SessionID == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "Missing session_id or message")
		return
	}

	result, err := h.chatService.Answer(r.Context(), req.SessionID, req.Message)
	if err != nil {
		log.Printf("Error answering message for session %s: %v", req.SessionID, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type CreateSessionRequest struct {
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (h *APIHandler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if r.Body != http.NoBody {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}

	session, err := h.chatService.StartSession(req.Metadata)
	if err != nil {
		log.Printf("Error creating session: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

func (h *APIHandler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.chatService.GetSession(sessionID)
	if err != nil {
		log.Printf("Error getting session %s: %v", sessionID, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if session == nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	writeJSON(w, http.StatusOK, session)
}

type FeedbackRequest struct {
	SessionID string  `json:"session_id"`
	Rating    string  `json:"rating"`
	Comment   *string `json:"comment,omitempty"`
}

func (h *APIHandler) FeedbackHandler(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "messageID")

	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "Missing session_id")
		return
	}
	if req.Rating != "helpful" && req.Rating != "not_helpful" {
		writeError(w, http.StatusBadRequest, "Rating must be 'helpful' or 'not_helpful'")
		return
	}

	if err := h.chatService.SubmitFeedback(messageID, req.SessionID, req.Rating, req.Comment); err != nil {
		log.Printf("Error saving feedback for message %s: %v", messageID, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ok",
		"embeddings_loaded": h.chatService.EmbeddingsLoaded(),
	})
}

func (h *APIHandler) ReloadEmbeddingsHandler(w http.ResponseWriter, r *http.Request) {
	count, err := h.chatService.ReloadEmbeddings()
	if err != nil {
		log.Printf("Error reloading embeddings: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "success",
		"embeddings_loaded": count,
	})
}
