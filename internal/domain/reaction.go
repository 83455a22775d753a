package domain

import "time"

// Reaction is an emoji attached to a photo, message or reason.
type Reaction struct {
	ReactionID  string    `json:"id" dynamodbav:"reaction_id"`
	WorkspaceID string    `json:"workspace_id" dynamodbav:"workspace_id"`
	ContentID   string    `json:"content_id" dynamodbav:"content_id"`
	ContentType string    `json:"content_type" dynamodbav:"content_type"` // "photo" | "message" | "reason"
	Emoji       string    `json:"emoji" dynamodbav:"emoji"`
	UserID      string    `json:"user_id" dynamodbav:"user_id"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
}

type CreateReactionRequest struct {
	ContentID   string `json:"content_id" validate:"required"`
	ContentType string `json:"content_type" validate:"required,oneof=photo message reason"`
	Emoji       string `json:"emoji" validate:"required,max=16"`
}
