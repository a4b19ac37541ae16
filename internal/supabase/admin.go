// Package supabase реализует вызовы административного API Supabase Auth.
package supabase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ErrNotConfigured — не задан URL проекта или service role ключ.
var ErrNotConfigured = errors.New("supabase admin api is not configured")

// Admin обращается к /auth/v1/admin от имени service role.
type Admin struct {
	baseURL        string
	serviceRoleKey string
	httpClient     *http.Client
}

// NewAdmin создаёт клиент административного API.
func NewAdmin(baseURL, serviceRoleKey string, httpClient *http.Client) *Admin {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Admin{
		baseURL:        strings.TrimRight(baseURL, "/"),
		serviceRoleKey: serviceRoleKey,
		httpClient:     httpClient,
	}
}

// DeleteUser удаляет учётную запись. Уже удалённая запись (404) считается успехом.
func (a *Admin) DeleteUser(ctx context.Context, userID string) error {
	const op = "supabase.DeleteUser"
	if a.baseURL == "" || a.serviceRoleKey == "" {
		return fmt.Errorf("%s: %w", op, ErrNotConfigured)
	}

	endpoint := a.baseURL + "/auth/v1/admin/users/" + url.PathEscape(userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("apikey", a.serviceRoleKey)
	req.Header.Set("Authorization", "Bearer "+a.serviceRoleKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300, resp.StatusCode == http.StatusNotFound:
		return nil
	default:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("%s: unexpected status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
}
