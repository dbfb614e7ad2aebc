package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/eletters/backend/internal/api"
	"github.com/eletters/backend/internal/auth"
	"github.com/eletters/backend/internal/config"
	"github.com/eletters/backend/internal/db"
	"github.com/eletters/backend/internal/letters"
	"github.com/eletters/backend/internal/storage"
	ws "github.com/eletters/backend/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	pool, err := db.NewConnection(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.CloseConnection(pool)

	log.Printf("Successfully connected to database")

	blobs, err := storage.NewS3Store(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create blob store client: %v", err)
	}

	server := NewServer(cfg, pool, blobs)

	address := ":" + cfg.Port
	log.Printf("e-Letters backend server starting on %s (environment: %s)", address, cfg.Environment)

	if err := http.ListenAndServe(address, server); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// NewServer creates and returns a new HTTP handler for the e-Letters API server.
func NewServer(cfg *config.Config, dbPool *pgxpool.Pool, blobs letters.BlobStore) http.Handler {
	hub := ws.NewHub(10)

	service := letters.NewService(
		&db.LetterStore{Pool: dbPool},
		blobs,
		&db.ParticipantDirectory{Pool: dbPool},
		hub,
		cfg.AttachmentsBucket,
		cfg.VoiceBucket,
	)

	composeHandler := api.NewComposeHandler(service)
	lettersHandler := api.NewLettersHandler(service)
	letterHandler := api.NewLetterHandler(service)
	participantsHandler := api.NewParticipantsHandler(service)
	wsHandler := api.NewWebSocketHandler(hub)

	mux := http.NewServeMux()

	mux.HandleFunc("/", handleRoot)

	mux.Handle("/api/v1/letters", auth.RequirePrincipal(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			lettersHandler.GetLetters(w, r)
		case http.MethodPost:
			composeHandler.Compose(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))
	// Handle /api/v1/letters/{letter_id}[/assets|/read] patterns
	mux.Handle("/api/v1/letters/", auth.RequirePrincipal(http.HandlerFunc(letterHandler.Handle)))
	mux.Handle("/api/v1/participants", auth.RequirePrincipal(http.HandlerFunc(participantsHandler.GetParticipants)))
	// WebSocket handler handles its own authentication via query parameter
	// (since browsers can't set headers on WebSocket connections).
	mux.Handle("/api/v1/ws", http.HandlerFunc(wsHandler.Handle))

	return mux
}

func handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "e-Letters API is running")
}
