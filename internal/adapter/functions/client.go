// Package functions — клиент хостинговых функций (поиск медиа, трекинг, уведомления, соцлента).
package functions

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/GoArmGo/EntertainLit/internal/config"
	"github.com/GoArmGo/EntertainLit/internal/domain"
	"github.com/GoArmGo/EntertainLit/internal/metrics"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	fnMediaSearch    = "media-search"
	fnConversational = "conversational-search"
	fnTrackMedia     = "track-media"
	fnNotifications  = "notifications"
	fnSocialFeed     = "social-feed"

	breakerName = "hosted-functions"

	// ограничение на размер ответа, чтобы не читать в память что угодно
	maxResponseBytes = 4 << 20
)

// Client вызывает функции по адресу <baseURL>/<name>. Все вызовы идут через общий circuit breaker.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[[]byte]
	logger     *slog.Logger
}

// NewClient создаёт клиента. Таймаут cfg.Timeout ограничивает каждый вызов.
func NewClient(cfg config.FunctionsConfig, logger *slog.Logger) *Client {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// 4xx — ошибка запроса, а не сбой функции
		IsSuccessful: func(err error) bool {
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				return statusErr.StatusCode < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cb:         cb,
		logger:     logger,
	}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// SearchMedia вызывает media-search с ключом сервиса.
func (c *Client) SearchMedia(ctx context.Context, query, mediaType string) ([]domain.MediaResult, error) {
	var resp mediaSearchResponse
	err := c.call(ctx, http.MethodPost, fnMediaSearch, nil, c.apiKey, mediaSearchRequest{Query: query, Type: mediaType}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *Client) ConversationalSearch(ctx context.Context, token, query string) (*domain.ConversationalResult, error) {
	var resp domain.ConversationalResult
	if err := c.call(ctx, http.MethodPost, fnConversational, nil, token, conversationalRequest{Query: query}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) TrackMedia(ctx context.Context, token string, req domain.TrackMediaRequest) (map[string]any, error) {
	var resp map[string]any
	if err := c.call(ctx, http.MethodPost, fnTrackMedia, nil, token, req, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) ListNotifications(ctx context.Context, token, userID string) ([]domain.Notification, error) {
	var resp []domain.Notification
	params := url.Values{}
	params.Set("userId", userID)
	if err := c.call(ctx, http.MethodGet, fnNotifications, params, token, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) SocialFeed(ctx context.Context, token string) ([]domain.SocialPost, error) {
	var resp []domain.SocialPost
	if err := c.call(ctx, http.MethodGet, fnSocialFeed, nil, token, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// call выполняет запрос к функции name и декодирует ответ в out.
// Пустой token заменяется ключом сервиса.
func (c *Client) call(ctx context.Context, method, name string, params url.Values, token string, in, out any) error {
	if c.baseURL == "" {
		return fmt.Errorf("function %s: base url is not configured", name)
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("function %s: marshal request: %w", name, err)
		}
		body = bytes.NewReader(payload)
	}

	endpoint := c.baseURL + "/" + name
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	start := time.Now()
	raw, err := c.cb.Execute(func() ([]byte, error) {
		return c.do(ctx, method, name, endpoint, token, body)
	})
	metrics.RecordExternalCall(name, time.Since(start))

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
		return fmt.Errorf("function %s: %w", name, err)
	case err != nil:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
		return err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("function %s: decode response: %w", name, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, name, endpoint, token string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("function %s: build request: %w", name, err)
	}
	if token == "" {
		token = c.apiKey
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("function %s: %w", name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("function %s: read response: %w", name, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("hosted function failed", "function", name, "status", resp.StatusCode)
		return nil, &StatusError{Function: name, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	return raw, nil
}
