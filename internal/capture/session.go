// Package capture models a voice recording as an explicit session with a
// scoped device acquisition: start, stop-and-yield-bytes, and a guaranteed
// release of the underlying input device on every exit path.
package capture

import (
	"errors"
	"fmt"
	"log"
	"sync"
)

// Device is a handle on an audio input source. Implementations wrap the
// actual OS capture API; tests use a fake.
type Device interface {
	// Start begins recording.
	Start() error
	// Stop ends recording and returns everything captured since Start.
	Stop() ([]byte, error)
	// Close releases the device handle.
	Close() error
}

// State of a capture session.
type State int

const (
	StateIdle State = iota
	StateCapturing
	StateCaptured
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateCaptured:
		return "captured"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrNotIdle is returned when Start is called on a session that has
	// already started or finished.
	ErrNotIdle = errors.New("capture session is not idle")

	// ErrNotCapturing is returned when Stop is called without a running
	// capture.
	ErrNotCapturing = errors.New("capture session is not capturing")
)

// Session drives one recording through Idle -> Capturing -> Captured. The
// device is released by the time the session leaves the Capturing state,
// on the success and the error path alike; Close is safe from any state.
type Session struct {
	mu       sync.Mutex
	dev      Device
	state    State
	released bool
	clip     []byte
}

func NewSession(dev Device) *Session {
	return &Session{dev: dev, state: StateIdle}
}

// State returns the session's current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start begins capturing. A device error releases the device and closes
// the session.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return fmt.Errorf("%w: %s", ErrNotIdle, s.state)
	}

	if err := s.dev.Start(); err != nil {
		s.releaseLocked()
		s.state = StateClosed
		return fmt.Errorf("failed to start capture: %w", err)
	}

	s.state = StateCapturing
	return nil
}

// Stop ends the capture and yields the recorded bytes. The device is
// released before Stop returns, whether or not it reports an error.
func (s *Session) Stop() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateCapturing {
		return nil, fmt.Errorf("%w: %s", ErrNotCapturing, s.state)
	}

	clip, err := s.dev.Stop()
	s.releaseLocked()

	if err != nil {
		s.state = StateClosed
		return nil, fmt.Errorf("failed to stop capture: %w", err)
	}

	s.state = StateCaptured
	s.clip = clip
	return clip, nil
}

// Clip returns the captured bytes, if any.
func (s *Session) Clip() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateCaptured {
		return nil, false
	}
	return s.clip, true
}

// Close releases the device from any state. Closing a running capture
// discards the recording; a captured clip stays readable.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.releaseLocked()
	if s.state != StateCaptured {
		s.state = StateClosed
	}
	return nil
}

func (s *Session) releaseLocked() {
	if s.released {
		return
	}
	s.released = true

	if err := s.dev.Close(); err != nil {
		// Nothing actionable for the caller; the handle is gone either way.
		log.Printf("capture: device close failed: %v", err)
	}
}
