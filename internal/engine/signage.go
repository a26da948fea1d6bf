package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tartampluch/go-holisync/internal/config"
)

// Playlist is the subset of a signage playlist record the sync works on.
type Playlist struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Predicate string `json:"predicate"`
	IsEnabled bool   `json:"is_enabled"`
}

// PlaylistStore lists playlists and persists their display predicate.
type PlaylistStore interface {
	ListPlaylists(ctx context.Context) ([]Playlist, error)
	UpdatePredicate(ctx context.Context, id, predicate string) error
}

// ScreenlyClient talks to the Screenly v3 playlists API.
type ScreenlyClient struct {
	Fetcher *HTTPFetcher
	BaseURL string
	token   string
}

// NewScreenlyClient validates the token and returns a client.
func NewScreenlyClient(fetcher *HTTPFetcher, baseURL, token string) (*ScreenlyClient, error) {
	if token == "" {
		return nil, fmt.Errorf("%s: %s", config.ErrMissingToken, config.EnvScreenlyToken)
	}
	return &ScreenlyClient{Fetcher: fetcher, BaseURL: baseURL, token: token}, nil
}

func (c *ScreenlyClient) header() http.Header {
	h := http.Header{}
	h.Set(config.HeaderAuthorization, config.ScreenlyAuthScheme+c.token)
	return h
}

// ListPlaylists returns every playlist visible to the token.
func (c *ScreenlyClient) ListPlaylists(ctx context.Context) ([]Playlist, error) {
	body, err := c.Fetcher.Do(ctx, Request{
		Method: http.MethodGet,
		URL:    c.BaseURL + config.ScreenlyPlaylistsPath,
		Header: c.header(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrPlaylistFetch, err)
	}
	defer func() { _ = body.Close() }()

	var playlists []Playlist
	if err := json.NewDecoder(body).Decode(&playlists); err != nil {
		return nil, fmt.Errorf("%s: %s: %w", config.ErrPlaylistFetch, config.ErrDecode, err)
	}
	return playlists, nil
}

// UpdatePredicate replaces the predicate of playlist id.
func (c *ScreenlyClient) UpdatePredicate(ctx context.Context, id, predicate string) error {
	if id == "" {
		return errors.New(config.ErrPlaylistMissedID)
	}

	body, err := c.Fetcher.Do(ctx, Request{
		Method: http.MethodPatch,
		URL:    c.BaseURL + fmt.Sprintf(config.ScreenlyPlaylistPath, url.PathEscape(id)),
		Header: c.header(),
		Body:   map[string]string{"predicate": predicate},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrPlaylistUpdate, err)
	}
	return body.Close()
}
