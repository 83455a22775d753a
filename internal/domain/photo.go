package domain

import "time"

type Photo struct {
	PhotoID          string    `json:"id" dynamodbav:"photo_id"`
	WorkspaceID      string    `json:"workspace_id" dynamodbav:"workspace_id"`
	Object           string    `json:"-" dynamodbav:"object"` // S3 key
	Name             string    `json:"name" dynamodbav:"name"`
	Caption          string    `json:"caption,omitempty" dynamodbav:"caption"`
	Size             int64     `json:"size" dynamodbav:"size"`
	Type             string    `json:"type" dynamodbav:"type"`
	Hash             string    `json:"hash" dynamodbav:"hash"`
	UploadedByUserID string    `json:"uploaded_by" dynamodbav:"uploaded_by_user_id"`
	TakenAt          *string   `json:"taken_at,omitempty" dynamodbav:"taken_at"` // YYYY-MM-DD
	Enable           bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt        time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt        time.Time `json:"updated" dynamodbav:"updated_at"`
}
