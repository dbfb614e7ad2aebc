package models

import "time"

// Mood is the tone a sender tags a letter with.
type Mood string

const (
	MoodFormal       Mood = "formal"
	MoodInformative  Mood = "informative"
	MoodAppreciation Mood = "appreciation"
	MoodReminder     Mood = "reminder"
	MoodAnnouncement Mood = "announcement"
	MoodGeneral      Mood = "general"
)

// DefaultMood is used when the sender does not pick one.
const DefaultMood = MoodFormal

// IsValid reports whether m is one of the known moods.
func (m Mood) IsValid() bool {
	switch m {
	case MoodFormal, MoodInformative, MoodAppreciation, MoodReminder, MoodAnnouncement, MoodGeneral:
		return true
	}
	return false
}

// Letter is one exchanged item: text plus optional media references.
// A letter is immutable once created except for IsRead, which only ever
// transitions false -> true, and only when the acting principal is the
// recipient.
type Letter struct {
	ID          string       `json:"id"`
	SenderID    string       `json:"sender_id"`
	RecipientID string       `json:"recipient_id"`
	Subject     string       `json:"subject,omitempty"`
	Body        string       `json:"body"`
	Mood        Mood         `json:"mood"`
	VoicePath   string       `json:"voice_path,omitempty"`
	Attachments []Attachment `json:"attachments"`
	IsRead      bool         `json:"is_read"`
	CreatedAt   time.Time    `json:"created_at"`

	// SenderName is resolved from the participant directory when listing;
	// it is not a column of the letters table.
	SenderName string `json:"sender_name,omitempty"`
}

// Attachment describes one uploaded file referenced by a letter. Every
// attachment on a persisted letter corresponds to a completed upload.
type Attachment struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

// AssetPaths returns the storage paths of all assets belonging to the
// letter: every attachment plus the voice clip when present.
func (l *Letter) AssetPaths() []string {
	paths := make([]string, 0, len(l.Attachments)+1)
	for _, a := range l.Attachments {
		paths = append(paths, a.Path)
	}
	if l.VoicePath != "" {
		paths = append(paths, l.VoicePath)
	}
	return paths
}
