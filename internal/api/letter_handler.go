package api

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/eletters/backend/internal/db"
	"github.com/eletters/backend/internal/letters"
)

// LetterHandler handles the /api/v1/letters/{letter_id} routes:
//
//	GET  /api/v1/letters/{letter_id}         one letter
//	GET  /api/v1/letters/{letter_id}/assets  signed URLs for its assets
//	POST /api/v1/letters/{letter_id}/read    mark it read
type LetterHandler struct {
	service *letters.Service
}

func NewLetterHandler(service *letters.Service) *LetterHandler {
	return &LetterHandler{service: service}
}

func (h *LetterHandler) Handle(w http.ResponseWriter, r *http.Request) {
	// Path should be /api/v1/letters/{letter_id}[/assets|/read]
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/letters/")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "letter_id is required", http.StatusBadRequest)
		return
	}

	letterID := parts[0]

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.getLetter(w, r, letterID)
	case len(parts) == 2 && parts[1] == "assets" && r.Method == http.MethodGet:
		h.getAssetURLs(w, r, letterID)
	case len(parts) == 2 && parts[1] == "read" && r.Method == http.MethodPost:
		h.markRead(w, r, letterID)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func (h *LetterHandler) getLetter(w http.ResponseWriter, r *http.Request, letterID string) {
	ctx := r.Context()

	principalID, ok := GetPrincipalFromContext(ctx, w)
	if !ok {
		return
	}

	letter, err := h.service.GetLetter(ctx, letterID, principalID)
	if err != nil {
		// A letter the principal is not a party to looks like a missing one.
		if errors.Is(err, db.ErrLetterNotFound) || errors.Is(err, letters.ErrNotParty) {
			http.Error(w, "Letter not found", http.StatusNotFound)
			return
		}
		log.Printf("LetterHandler: Failed to get letter: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	WriteJSON(w, http.StatusOK, letter)
}

type assetURLsResponse struct {
	URLs map[string]string `json:"urls"`
}

func (h *LetterHandler) getAssetURLs(w http.ResponseWriter, r *http.Request, letterID string) {
	ctx := r.Context()

	principalID, ok := GetPrincipalFromContext(ctx, w)
	if !ok {
		return
	}

	letter, err := h.service.GetLetter(ctx, letterID, principalID)
	if err != nil {
		if errors.Is(err, db.ErrLetterNotFound) || errors.Is(err, letters.ErrNotParty) {
			http.Error(w, "Letter not found", http.StatusNotFound)
			return
		}
		log.Printf("LetterHandler: Failed to get letter: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	WriteJSON(w, http.StatusOK, assetURLsResponse{
		URLs: h.service.ResolveAssetURLs(ctx, letter),
	})
}

func (h *LetterHandler) markRead(w http.ResponseWriter, r *http.Request, letterID string) {
	ctx := r.Context()

	principalID, ok := GetPrincipalFromContext(ctx, w)
	if !ok {
		return
	}

	// Access check first, so a stranger probing ids sees a 404 rather than
	// the idempotent no-op response.
	if _, err := h.service.GetLetter(ctx, letterID, principalID); err != nil {
		if errors.Is(err, db.ErrLetterNotFound) || errors.Is(err, letters.ErrNotParty) {
			http.Error(w, "Letter not found", http.StatusNotFound)
			return
		}
		log.Printf("LetterHandler: Failed to get letter: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	letter, err := h.service.MarkRead(ctx, letterID, principalID)
	if err != nil {
		log.Printf("LetterHandler: Failed to mark letter read: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	WriteJSON(w, http.StatusOK, letter)
}
