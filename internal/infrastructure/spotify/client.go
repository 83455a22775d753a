package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sindoca/api/internal/config"
	"github.com/sindoca/api/internal/domain"
)

const (
	tokenURL      = "https://accounts.spotify.com/api/token"
	nowPlayingURL = "https://api.spotify.com/v1/me/player/currently-playing"
)

// Token is the provider's token response.
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
	ExpiresIn    int    `json:"expires_in"`
}

// Client performs the music provider's OAuth flows and playback lookups.
type Client interface {
	ExchangeCode(ctx context.Context, code string) (*Token, error)
	Refresh(ctx context.Context, refreshToken string) (*Token, error)
	CurrentlyPlaying(ctx context.Context, accessToken string) (*domain.NowPlaying, error)
}

type client struct {
	httpClient   *http.Client
	clientID     string
	clientSecret string
	redirectURL  string
}

// NewClient creates a Spotify Web API client. Returns an error when the
// application credentials are not configured.
func NewClient(cfg *config.Config) (Client, error) {
	if cfg.SpotifyClientID == "" || cfg.SpotifyClientSecret == "" {
		return nil, fmt.Errorf("spotify credentials not configured")
	}
	return &client{
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		clientID:     cfg.SpotifyClientID,
		clientSecret: cfg.SpotifyClientSecret,
		redirectURL:  cfg.SpotifyRedirectURL,
	}, nil
}

// ExchangeCode trades an authorization code for an access/refresh token pair.
func (c *client) ExchangeCode(ctx context.Context, code string) (*Token, error) {
	form := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {c.redirectURL},
	}
	return c.tokenRequest(ctx, form)
}

// Refresh trades a refresh token for a fresh access token. The provider may
// omit the refresh token in the response, in which case the old one stays
// valid and the caller keeps it.
func (c *client) Refresh(ctx context.Context, refreshToken string) (*Token, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}
	return c.tokenRequest(ctx, form)
}

func (c *client) tokenRequest(ctx context.Context, form url.Values) (*Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spotify token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("spotify token request returned %d: %w", resp.StatusCode, domain.ErrUnauthorized)
	}
	var t Token
	if err := json.NewDecoder(resp.Body).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	return &t, nil
}

// currentlyPlayingResponse is the subset of the provider's payload we use.
type currentlyPlayingResponse struct {
	IsPlaying bool `json:"is_playing"`
	Item      struct {
		Name         string `json:"name"`
		ExternalURLs struct {
			Spotify string `json:"spotify"`
		} `json:"external_urls"`
		Artists []struct {
			Name string `json:"name"`
		} `json:"artists"`
		Album struct {
			Name   string `json:"name"`
			Images []struct {
				URL string `json:"url"`
			} `json:"images"`
		} `json:"album"`
	} `json:"item"`
}

// CurrentlyPlaying fetches the account's current track. A 204 means nothing
// is playing; a 401 means the access token has expired.
func (c *client) CurrentlyPlaying(ctx context.Context, accessToken string) (*domain.NowPlaying, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, nowPlayingURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spotify now playing: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return &domain.NowPlaying{Playing: false}, nil
	case http.StatusUnauthorized:
		return nil, fmt.Errorf("spotify token expired: %w", domain.ErrUnauthorized)
	case http.StatusOK:
		// fall through to decode
	default:
		return nil, fmt.Errorf("spotify now playing returned %d", resp.StatusCode)
	}

	var body currentlyPlayingResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode now playing response: %w", err)
	}

	np := &domain.NowPlaying{
		Playing:  body.IsPlaying,
		Track:    body.Item.Name,
		Album:    body.Item.Album.Name,
		TrackURL: body.Item.ExternalURLs.Spotify,
	}
	if len(body.Item.Artists) > 0 {
		names := make([]string, 0, len(body.Item.Artists))
		for _, a := range body.Item.Artists {
			names = append(names, a.Name)
		}
		np.Artist = strings.Join(names, ", ")
	}
	if len(body.Item.Album.Images) > 0 {
		np.ArtURL = body.Item.Album.Images[0].URL
	}
	return np, nil
}
