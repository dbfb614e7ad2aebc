package models

// Participant is a party that can send or receive letters. Accounts are
// created and managed by the external identity service; this backend only
// reads participants to resolve recipients and display names.
type Participant struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}
