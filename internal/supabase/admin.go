package supabase

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/anshupriya0510/EchoSkill-project/internal/apperrors"
	"github.com/anshupriya0510/EchoSkill-project/internal/models"
	"github.com/anshupriya0510/EchoSkill-project/internal/provider"
)

// AdminConfig carries the privileged tier's connection parameters. PublicURL
// and ServerURL may both be set; when they disagree the public one wins so
// the admin client never targets a different project than the one end-user
// sessions were created against.
type AdminConfig struct {
	PublicURL  string
	ServerURL  string
	ServiceKey string
	HTTPClient *http.Client
}

// Admin is the privileged-tier handle, authorized by the service-role key.
// It is immutable after construction and safe for concurrent use.
type Admin struct {
	client *Client
}

// NewAdmin validates configuration and returns the privileged handle.
// Construction performs no I/O.
func NewAdmin(cfg AdminConfig, logger *zap.Logger) (*Admin, error) {
	resolved := cfg.PublicURL
	if resolved == "" {
		resolved = cfg.ServerURL
	}
	if resolved == "" || cfg.ServiceKey == "" {
		return nil, apperrors.Configuration("privileged identity provider client is not configured: project URL and service role key are required")
	}

	if cfg.PublicURL != "" && cfg.ServerURL != "" && cfg.PublicURL != cfg.ServerURL {
		logger.Warn("provider_urls_disagree",
			zap.String("public_url", cfg.PublicURL),
			zap.String("server_url", cfg.ServerURL),
			zap.String("using", cfg.PublicURL),
		)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}

	return &Admin{
		client: &Client{
			baseURL: strings.TrimRight(resolved, "/"),
			apiKey:  cfg.ServiceKey,
			http:    httpClient,
		},
	}, nil
}

// UserByID looks an account up through the admin API. A missing account is
// provider.ErrNotFound, which the signup orchestrator polls against.
func (a *Admin) UserByID(ctx context.Context, id string) (*models.Account, error) {
	var user models.Account
	status, _, err := a.client.request(ctx, http.MethodGet, "/auth/v1/admin/users/"+url.PathEscape(id), nil, nil, "", nil, &user)
	if err != nil {
		if status == http.StatusNotFound {
			return nil, provider.ErrNotFound
		}
		return nil, err
	}
	if user.ID == "" {
		return nil, provider.ErrNotFound
	}
	return &user, nil
}

type listUsersResponse struct {
	Users []models.AdminUser `json:"users"`
}

// ListUsers returns one page of accounts. Next/last page numbers come from
// the provider's Link response header when present.
func (a *Admin) ListUsers(ctx context.Context, page, perPage int) (*provider.UserPage, error) {
	query := url.Values{
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(perPage)},
	}

	var resp listUsersResponse
	_, header, err := a.client.request(ctx, http.MethodGet, "/auth/v1/admin/users", query, nil, "", nil, &resp)
	if err != nil {
		return nil, err
	}

	next, last := parseLinkPages(header.Get("Link"))
	return &provider.UserPage{Users: resp.Users, NextPage: next, LastPage: last}, nil
}

// ProvisionProfile writes a profile row with service-role authority,
// bypassing row-level security. Used only for provisioning during signup.
func (a *Admin) ProvisionProfile(ctx context.Context, id string, fields map[string]any) (*models.Profile, error) {
	return a.client.UpsertProfile(ctx, "", id, fields)
}

// Ping probes the provider's auth health endpoint. Used by the configure CLI
// and the extended health check, never during request handling.
func (a *Admin) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, _, err := a.client.request(ctx, http.MethodGet, "/auth/v1/health", nil, nil, "", nil, nil)
	return err
}

var linkRelPattern = regexp.MustCompile(`<[^>]*[?&]page=(\d+)[^>]*>;\s*rel="(\w+)"`)

// parseLinkPages extracts next/last page numbers from an RFC 5988 Link
// header as emitted by the provider's admin listing.
func parseLinkPages(link string) (next, last *int) {
	for _, match := range linkRelPattern.FindAllStringSubmatch(link, -1) {
		page, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		switch match[2] {
		case "next":
			p := page
			next = &p
		case "last":
			p := page
			last = &p
		}
	}
	return next, last
}
