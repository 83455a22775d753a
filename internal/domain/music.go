package domain

import "time"

// MusicToken holds the workspace's connected music-account OAuth tokens.
// One row per workspace; refreshed in place.
type MusicToken struct {
	WorkspaceID  string    `json:"workspace_id" dynamodbav:"workspace_id"`
	AccessToken  string    `json:"-" dynamodbav:"access_token"`
	RefreshToken string    `json:"-" dynamodbav:"refresh_token"`
	ExpiresAt    int64     `json:"expires_at" dynamodbav:"expires_at"` // unix seconds
	Scope        string    `json:"scope" dynamodbav:"scope"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

// NowPlaying is the currently playing track of the connected account.
type NowPlaying struct {
	Playing  bool   `json:"playing"`
	Track    string `json:"track,omitempty"`
	Artist   string `json:"artist,omitempty"`
	Album    string `json:"album,omitempty"`
	ArtURL   string `json:"art_url,omitempty"`
	TrackURL string `json:"track_url,omitempty"`
}

type ConnectMusicRequest struct {
	Code string `json:"code" validate:"required"`
}
