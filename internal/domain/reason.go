package domain

import "time"

// Reason is one entry in the "reasons I love you" list.
type Reason struct {
	ReasonID     string    `json:"id" dynamodbav:"reason_id"`
	WorkspaceID  string    `json:"workspace_id" dynamodbav:"workspace_id"`
	AuthorUserID string    `json:"author_id" dynamodbav:"author_user_id"`
	Text         string    `json:"text" dynamodbav:"text"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

type ReasonInput struct {
	Text string `json:"text" validate:"required,max=500"`
}
