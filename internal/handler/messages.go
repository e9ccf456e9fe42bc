package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Kamalprakash2110/oct4crypt-dev/internal/audit"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/contact"
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/middleware"
)

// MessagesHandler handles the public contact form and the admin inbox.
type MessagesHandler struct {
	messages *contact.Manager
	audit    *audit.Manager
}

// NewMessagesHandler creates a new messages handler.
func NewMessagesHandler(messages *contact.Manager, auditLog *audit.Manager) *MessagesHandler {
	return &MessagesHandler{messages: messages, audit: auditLog}
}

// Submit handles POST /api/contact
//
// Validation failures come back as one entry per invalid field so the
// form can annotate each input, not just the first problem found.
func (h *MessagesHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var sub contact.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	msg, fieldErrors, err := h.messages.Submit(r.Context(), &sub)
	if err != nil {
		log.Printf("failed to store contact message: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to submit message")
		return
	}
	if len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": map[string]string{
				"message": "validation failed",
			},
			"fields": fieldErrors,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": msg})
}

// List handles GET /api/admin/messages
func (h *MessagesHandler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.messages.List(r.Context())
	if err != nil {
		log.Printf("failed to list messages: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list messages")
		return
	}

	if messages == nil {
		messages = []*contact.Message{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"messages": messages,
		"count":    len(messages),
	})
}

// setStatusRequest is the JSON request for a message status change.
type setStatusRequest struct {
	Status       string `json:"status"`
	ReplyMessage string `json:"replyMessage"`
}

// SetStatus handles PATCH /api/admin/messages/{id}
func (h *MessagesHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid message ID")
		return
	}

	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.messages.SetStatus(r.Context(), id, contact.Status(req.Status), req.ReplyMessage); err != nil {
		switch {
		case errors.Is(err, contact.ErrInvalidStatus):
			writeError(w, http.StatusBadRequest, "invalid status")
		case errors.Is(err, contact.ErrNotFound):
			writeError(w, http.StatusNotFound, "message not found")
		default:
			log.Printf("failed to update message status: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to update message")
		}
		return
	}

	if err := h.audit.Record(r.Context(), audit.ActionMessageStatus, id.String(), actor.ID, "status set to "+req.Status); err != nil {
		log.Printf("failed to record audit entry: %v", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}
