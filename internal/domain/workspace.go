package domain

import "time"

// Workspace is the shared space belonging to exactly one couple.
type Workspace struct {
	WorkspaceID string    `json:"id" dynamodbav:"workspace_id"`
	Name        string    `json:"name" dynamodbav:"name"`
	OwnerUserID string    `json:"owner_user_id" dynamodbav:"owner_user_id"`
	Anniversary *string   `json:"anniversary,omitempty" dynamodbav:"anniversary"` // YYYY-MM-DD
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated" dynamodbav:"updated_at"`
}

type InviteRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// InviteCredentials is the fixed, pre-provisioned sign-in pair issued by the
// invite gate on a successful answer.
type InviteCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
