package remote

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/gymform/internal/domain"
)

// SupabaseConfig locates the PostgREST table that stores profiles.
type SupabaseConfig struct {
	URL     string
	Key     string
	Table   string
	Timeout time.Duration
}

// Configured reports whether every required field is set.
func (c SupabaseConfig) Configured() bool {
	return c.URL != "" && c.Key != "" && c.Table != ""
}

// SaveResult is the outcome reported back to the caller.
type SaveResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ProfileStore persists a completed survey remotely.
type ProfileStore interface {
	SaveProfile(ctx context.Context, fd *domain.FormData) (SaveResult, error)
}

// profileRow is the row inserted into the submissions table.
type profileRow struct {
	Name           string           `json:"name"`
	Email          string           `json:"email"`
	SubmissionDate string           `json:"submission_date"`
	FormData       *domain.FormData `json:"form_data"`
}

// SupabaseClient implements ProfileStore with the PostgREST insert API.
type SupabaseClient struct {
	cfg  SupabaseConfig
	post poster
	now  func() time.Time
}

// SupabaseOption configures a SupabaseClient.
type SupabaseOption func(*SupabaseClient)

// WithSupabaseHTTPClient overrides the HTTP client.
func WithSupabaseHTTPClient(c *http.Client) SupabaseOption {
	return func(s *SupabaseClient) { s.post.http = c }
}

// WithSupabaseClock overrides the clock used for submission_date.
func WithSupabaseClock(now func() time.Time) SupabaseOption {
	return func(s *SupabaseClient) { s.now = now }
}

func NewSupabaseClient(cfg SupabaseConfig, observer Observer, opts ...SupabaseOption) *SupabaseClient {
	c := &SupabaseClient{
		cfg:  cfg,
		post: newPoster(nil, observer, cfg.Timeout),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *SupabaseClient) SaveProfile(ctx context.Context, fd *domain.FormData) (SaveResult, error) {
	if !c.cfg.Configured() {
		return SaveResult{Message: "profile store is not configured"}, fmt.Errorf("save profile: %w", ErrNotConfigured)
	}
	row := profileRow{
		Name:           strings.TrimSpace(fd.PersonalInfo.Name),
		Email:          strings.TrimSpace(fd.PersonalInfo.Email),
		SubmissionDate: c.now().UTC().Format(time.RFC3339),
		FormData:       fd,
	}
	target := strings.TrimRight(c.cfg.URL, "/") + "/rest/v1/" + c.cfg.Table
	headers := map[string]string{
		"apikey":        c.cfg.Key,
		"Authorization": "Bearer " + c.cfg.Key,
		"Prefer":        "return=minimal",
	}
	if _, err := c.post.postJSON(ctx, "save_profile", target, headers, row); err != nil {
		return SaveResult{Message: err.Error()}, err
	}
	return SaveResult{Success: true, Message: "profile saved"}, nil
}
