package api

import (
	"log"
	"net/http"

	"github.com/eletters/backend/internal/letters"
	"github.com/eletters/backend/internal/models"
)

// LettersHandler handles GET /api/v1/letters: every letter the principal
// sent or received, newest first, plus the mailbox counts.
type LettersHandler struct {
	service *letters.Service
}

func NewLettersHandler(service *letters.Service) *LettersHandler {
	return &LettersHandler{service: service}
}

type lettersResponse struct {
	Letters []*models.Letter `json:"letters"`
	Counts  letters.Counts   `json:"counts"`
}

func (h *LettersHandler) GetLetters(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principalID, ok := GetPrincipalFromContext(ctx, w)
	if !ok {
		return
	}

	list, err := h.service.ListFor(ctx, principalID)
	if err != nil {
		log.Printf("LettersHandler: Failed to list letters: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*models.Letter{}
	}

	WriteJSON(w, http.StatusOK, lettersResponse{
		Letters: list,
		Counts:  letters.CountsFor(principalID, list),
	})
}
