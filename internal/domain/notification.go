package domain

import "time"

// Notification categories a user can opt out of individually.
const (
	CategoryReaction      = "new_reaction"
	CategoryPhoto         = "new_photo"
	CategoryMessage       = "new_message"
	CategoryReason        = "new_reason"
	CategoryDailyReminder = "daily_reminder"
)

// Notification is the stored per-user history row, independent of whether
// push delivery succeeded.
type Notification struct {
	NotificationID string    `json:"id" dynamodbav:"notification_id"`
	UserID         string    `json:"user_id" dynamodbav:"user_id"`
	Category       string    `json:"category" dynamodbav:"category"`
	Title          string    `json:"title" dynamodbav:"title"`
	Body           string    `json:"body" dynamodbav:"body"`
	Readed         int       `json:"readed" dynamodbav:"readed"` // legacy field name preserved
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time `json:"updated" dynamodbav:"updated_at"`
}

// NotificationPayload is the transient push payload. Constructed per send,
// never persisted.
type NotificationPayload struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Icon  string            `json:"icon,omitempty"`
	Tag   string            `json:"tag,omitempty"`
	Data  map[string]string `json:"data,omitempty"`
}

// NotificationPreference is one row per user. Master flag off suppresses
// every category regardless of the per-category flags.
type NotificationPreference struct {
	UserID        string    `json:"user_id" dynamodbav:"user_id"`
	Enabled       bool      `json:"enabled" dynamodbav:"enabled"`
	NewReaction   bool      `json:"new_reaction" dynamodbav:"new_reaction"`
	NewPhoto      bool      `json:"new_photo" dynamodbav:"new_photo"`
	NewMessage    bool      `json:"new_message" dynamodbav:"new_message"`
	NewReason     bool      `json:"new_reason" dynamodbav:"new_reason"`
	DailyReminder bool      `json:"daily_reminder" dynamodbav:"daily_reminder"`
	CreatedAt     time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updated" dynamodbav:"updated_at"`
}

// DefaultPreference is the lazily created row for a user with no stored
// preferences: master off, content categories on, reminder off.
func DefaultPreference(userID string, now time.Time) *NotificationPreference {
	return &NotificationPreference{
		UserID:      userID,
		Enabled:     false,
		NewReaction: true,
		NewPhoto:    true,
		NewMessage:  true,
		NewReason:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Category reports the flag for the named category; unknown categories are
// allowed so unconditional sends (empty category) pass through.
func (p *NotificationPreference) Category(category string) bool {
	switch category {
	case CategoryReaction:
		return p.NewReaction
	case CategoryPhoto:
		return p.NewPhoto
	case CategoryMessage:
		return p.NewMessage
	case CategoryReason:
		return p.NewReason
	case CategoryDailyReminder:
		return p.DailyReminder
	default:
		return true
	}
}

type UpdatePreferenceRequest struct {
	Enabled       *bool `json:"enabled"`
	NewReaction   *bool `json:"new_reaction"`
	NewPhoto      *bool `json:"new_photo"`
	NewMessage    *bool `json:"new_message"`
	NewReason     *bool `json:"new_reason"`
	DailyReminder *bool `json:"daily_reminder"`
}
