// Package paymentprovider реализует HTTP клиент API Toss Payments.
package paymentprovider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultAPIURL — адрес API Toss Payments.
const DefaultAPIURL = "https://api.tosspayments.com/v1"

// Client обращается к API Toss от имени магазина.
type Client struct {
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт клиент Toss. Таймауты берутся из httpClient: отдельных лимитов
// на вызовы шлюза сервис не задаёт.
func NewClient(secretKey, apiURL string, httpClient *http.Client) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		secretKey:  secretKey,
		apiURL:     strings.TrimRight(apiURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, &buf)
	if err != nil {
		return nil, err
	}
	// Toss использует Basic-аутентификацию с секретным ключом и пустым паролем.
	auth := base64.StdEncoding.EncodeToString([]byte(c.secretKey + ":"))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// Confirm подтверждает платёж. Ответ шлюза с ошибкой возвращается как *APIError.
func (c *Client) Confirm(ctx context.Context, reqParams ConfirmRequest) (*ConfirmResponse, error) {
	const op = "paymentprovider.Confirm"

	req, err := c.newRequest(ctx, http.MethodPost, "/payments/confirm", reqParams)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Code == "" {
			apiErr.Code = "UNKNOWN"
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return nil, fmt.Errorf("%s: %w", op, apiErr)
	}

	var confirmed ConfirmResponse
	if err := json.NewDecoder(resp.Body).Decode(&confirmed); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}
	return &confirmed, nil
}
