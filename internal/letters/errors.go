package letters

import "errors"

// Fatal compose failures. Partial asset failures are never fatal: a failed
// upload only removes that one asset from the outgoing letter.
var (
	// ErrEmptyBody is returned when the letter body trims to nothing.
	// No upload or lookup is performed in that case.
	ErrEmptyBody = errors.New("letter body is empty")

	// ErrInvalidMood is returned when the mood tag is not a known value.
	ErrInvalidMood = errors.New("unknown mood")

	// ErrNoRecipient is returned when no recipient could be resolved.
	ErrNoRecipient = errors.New("no recipient found")

	// ErrPersistence is returned when the letter row cannot be inserted.
	// Assets uploaded before the failure stay in the blob store as orphans;
	// that is an accepted tradeoff over two-phase commit.
	ErrPersistence = errors.New("failed to persist letter")
)

// ErrNotParty is returned when a principal asks for a letter they neither
// sent nor received.
var ErrNotParty = errors.New("principal is not a party to this letter")
