package domain

import "time"

// PushSubscription is one registered web-push endpoint for one user's one
// browser/device. The (user_id, endpoint) pair is the table's primary key,
// so re-registering the same endpoint overwrites rather than duplicates.
type PushSubscription struct {
	UserID       string    `json:"user_id" dynamodbav:"user_id"`
	Endpoint     string    `json:"endpoint" dynamodbav:"endpoint"`
	P256dh       string    `json:"-" dynamodbav:"p256dh"`
	Auth         string    `json:"-" dynamodbav:"auth"`
	UserAgent    string    `json:"user_agent,omitempty" dynamodbav:"user_agent"`
	FailureCount int       `json:"failure_count" dynamodbav:"failure_count"`
	LastSeenAt   time.Time `json:"last_seen" dynamodbav:"last_seen_at"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
}

type RegisterSubscriptionRequest struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
	P256dh   string `json:"p256dh" validate:"required"`
	Auth     string `json:"auth" validate:"required"`
}
