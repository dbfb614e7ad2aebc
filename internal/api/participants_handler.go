package api

import (
	"log"
	"net/http"

	"github.com/eletters/backend/internal/letters"
	"github.com/eletters/backend/internal/models"
)

// ParticipantsHandler handles GET /api/v1/participants, used by the
// compose surface for explicit recipient selection.
type ParticipantsHandler struct {
	service *letters.Service
}

func NewParticipantsHandler(service *letters.Service) *ParticipantsHandler {
	return &ParticipantsHandler{service: service}
}

func (h *ParticipantsHandler) GetParticipants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, ok := GetPrincipalFromContext(ctx, w); !ok {
		return
	}

	participants, err := h.service.Participants(ctx)
	if err != nil {
		log.Printf("ParticipantsHandler: Failed to list participants: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if participants == nil {
		participants = []models.Participant{}
	}

	WriteJSON(w, http.StatusOK, participants)
}
