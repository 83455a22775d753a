package domain

import "time"

type Message struct {
	MessageID    string    `json:"id" dynamodbav:"message_id"`
	WorkspaceID  string    `json:"workspace_id" dynamodbav:"workspace_id"`
	AuthorUserID string    `json:"author_id" dynamodbav:"author_user_id"`
	Body         string    `json:"body" dynamodbav:"body"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CreateMessageRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}
