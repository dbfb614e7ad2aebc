package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/eletters/backend/internal/letters"
	"github.com/eletters/backend/internal/models"
)

// maxComposeMemory bounds how much of a multipart compose request is held
// in memory; larger file parts spill to temporary files.
const maxComposeMemory = 32 << 20

// ComposeHandler handles POST /api/v1/letters: one multipart request with
// the letter fields plus optional attachment and voice file parts.
type ComposeHandler struct {
	service *letters.Service
}

func NewComposeHandler(service *letters.Service) *ComposeHandler {
	return &ComposeHandler{service: service}
}

func (h *ComposeHandler) Compose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principalID, ok := GetPrincipalFromContext(ctx, w)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxComposeMemory); err != nil {
		log.Printf("ComposeHandler: Failed to parse multipart form: %v", err)
		http.Error(w, "Invalid multipart request", http.StatusBadRequest)
		return
	}

	req := letters.ComposeRequest{
		SenderID:    principalID,
		RecipientID: r.FormValue("recipient_id"),
		Subject:     r.FormValue("subject"),
		Body:        r.FormValue("body"),
		Mood:        models.Mood(r.FormValue("mood")),
	}

	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["attachments"] {
			file, err := header.Open()
			if err != nil {
				log.Printf("ComposeHandler: Failed to open attachment %q: %v", header.Filename, err)
				continue
			}
			defer func() { _ = file.Close() }()

			req.Attachments = append(req.Attachments, letters.File{
				Name:        header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Size:        header.Size,
				Content:     file,
			})
		}

		if voiceHeaders := r.MultipartForm.File["voice"]; len(voiceHeaders) > 0 {
			header := voiceHeaders[0]
			file, err := header.Open()
			if err != nil {
				log.Printf("ComposeHandler: Failed to open voice clip: %v", err)
			} else {
				defer func() { _ = file.Close() }()
				req.Voice = &letters.File{
					Name:        header.Filename,
					ContentType: header.Header.Get("Content-Type"),
					Size:        header.Size,
					Content:     file,
				}
			}
		}
	}

	letter, err := h.service.Compose(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, letters.ErrEmptyBody), errors.Is(err, letters.ErrInvalidMood):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, letters.ErrNoRecipient):
			http.Error(w, "No recipient found", http.StatusUnprocessableEntity)
		default:
			log.Printf("ComposeHandler: Failed to compose letter: %v", err)
			http.Error(w, "Failed to send letter", http.StatusInternalServerError)
		}
		return
	}

	WriteJSON(w, http.StatusCreated, letter)
}
