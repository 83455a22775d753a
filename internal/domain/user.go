package domain

import "time"

type User struct {
	UserID       string     `json:"id" dynamodbav:"user_id"`
	WorkspaceID  string     `json:"workspace_id" dynamodbav:"workspace_id"`
	Email        string     `json:"email" dynamodbav:"email"`
	PasswordHash string     `json:"-" dynamodbav:"password_hash"`
	DisplayName  string     `json:"display_name" dynamodbav:"display_name"`
	AvatarKey    string     `json:"avatar_key,omitempty" dynamodbav:"avatar_key"`
	Phone        *string    `json:"phone,omitempty" dynamodbav:"phone"`
	Enable       bool       `json:"enable" dynamodbav:"enable"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt    time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type UpdateUserRequest struct {
	DisplayName *string `json:"display_name"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone"`
	AvatarKey   *string `json:"avatar_key"`
}
