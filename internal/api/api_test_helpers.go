package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eletters/backend/internal/auth"
	"github.com/eletters/backend/internal/letters"
	"github.com/eletters/backend/internal/models"
	"github.com/eletters/backend/internal/testutil"
)

const (
	testSenderID    = "11111111-1111-1111-1111-111111111111"
	testRecipientID = "22222222-2222-2222-2222-222222222222"

	testAttachmentsBucket = "letters-attachments"
	testVoiceBucket       = "voice-messages"
)

type handlerTestEnv struct {
	service   *letters.Service
	store     *testutil.FakeLetterStore
	blobs     *testutil.MemBlobStore
	directory *testutil.FakeDirectory
}

// newHandlerTestEnv wires a letters service on in-memory fakes, with a
// two-participant directory matching the usual two-party setup.
func newHandlerTestEnv() *handlerTestEnv {
	store := &testutil.FakeLetterStore{}
	blobs := testutil.NewMemBlobStore()
	directory := &testutil.FakeDirectory{
		Participants: []models.Participant{
			{ID: testSenderID, DisplayName: "Avery"},
			{ID: testRecipientID, DisplayName: "Blake"},
		},
	}

	return &handlerTestEnv{
		service:   letters.NewService(store, blobs, directory, nil, testAttachmentsBucket, testVoiceBucket),
		store:     store,
		blobs:     blobs,
		directory: directory,
	}
}

// createRequestWithPrincipal creates a request with the principal id set in
// context, simulating a request that passed the RequirePrincipal middleware.
func createRequestWithPrincipal(method, url string, body io.Reader, principalID string) *http.Request {
	req := httptest.NewRequest(method, url, body)
	ctx := context.WithValue(req.Context(), auth.PrincipalIDKey, principalID)
	return req.WithContext(ctx)
}

// composeTestLetter sends one letter through the service, for handlers that
// need existing rows.
func composeTestLetter(t *testing.T, env *handlerTestEnv, req letters.ComposeRequest) *models.Letter {
	t.Helper()

	letter, err := env.service.Compose(context.Background(), req)
	if err != nil {
		t.Fatalf("Failed to compose letter: %v", err)
	}
	return letter
}
