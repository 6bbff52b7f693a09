package models

// Recipient is a registered user as seen by the notification engine:
// read-only, already reduced to the fields scope resolution needs.
type Recipient struct {
	Email                string `json:"email"`
	District             string `json:"district"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
}
