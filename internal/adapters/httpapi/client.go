package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bnema/folio-admin-cli/internal/domain"
	"github.com/bnema/folio-admin-cli/internal/ports"
)

const DefaultMaxResponseBytes = 16 << 20
const maxErrorMessageLength = 200

var ErrResponseTooLarge = errors.New("response too large")

const LoginPath = "/api/auth/login"

// Client talks to the portfolio content API. It implements ports.Transport
// and ports.Authenticator.
type Client struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	UserAgent      string
	Logger         *zap.Logger
	// MaxResponseBytes caps a response body. Zero means DefaultMaxResponseBytes.
	MaxResponseBytes int64
}

var _ ports.Transport = Client{}

func (c Client) Send(ctx context.Context, call ports.Call) ([]byte, error) {
	endpoint, err := buildAPIURL(c.BaseURL, call.Path)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if call.Payload != nil {
		body = bytes.NewReader(call.Payload.Body)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, call.Method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create %s %s request: %w", call.Method, call.Path, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if call.Payload != nil {
		req.Header.Set("Content-Type", call.Payload.ContentType)
	}
	if call.Token != "" {
		req.Header.Set("Authorization", "Bearer "+call.Token)
	}

	op := call.Method + " " + call.Path
	started := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		c.logger().Debug("request failed",
			zap.String("op", op),
			zap.String("request_id", requestID),
			zap.Duration("duration", time.Since(started)),
			zap.Error(err),
		)
		return nil, &domain.NetworkError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	limit := c.responseLimit()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, &domain.NetworkError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}
	if int64(len(raw)) > limit {
		return nil, &domain.NetworkError{Op: op, Err: fmt.Errorf("%w: exceeds %d bytes", ErrResponseTooLarge, limit)}
	}

	c.logger().Debug("request completed",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(started)),
	)

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return raw, nil
	}
	return nil, statusError(call.Method, op, resp.StatusCode, raw)
}

// statusError maps a non-success answer onto the domain error taxonomy.
func statusError(method, op string, status int, body []byte) error {
	message := serverMessage(body)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &domain.AuthError{Status: status, Message: message}
	case method == http.MethodGet:
		return &domain.ReadError{Op: op, Status: status, Message: message}
	default:
		return &domain.WriteError{Op: op, Status: status, Message: message}
	}
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func serverMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	var decoded errorBody
	if err := json.Unmarshal(trimmed, &decoded); err == nil {
		if decoded.Message != "" {
			return decoded.Message
		}
		if decoded.Error != "" {
			return decoded.Error
		}
	}

	message := string(trimmed)
	if len(message) > maxErrorMessageLength {
		message = message[:maxErrorMessageLength] + "..."
	}
	return message
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c Client) responseLimit() int64 {
	if c.MaxResponseBytes > 0 {
		return c.MaxResponseBytes
	}
	return DefaultMaxResponseBytes
}

func (c Client) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}

func (c Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func buildAPIURL(baseURL string, path string) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}
	if path == "" {
		return "", errors.New("api path is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	// path arrives escaped; keep its escapes intact.
	escaped := strings.TrimRight(parsed.EscapedPath(), "/") + "/" + strings.TrimLeft(path, "/")
	unescaped, err := url.PathUnescape(escaped)
	if err != nil {
		return "", fmt.Errorf("invalid api path %q: %w", path, err)
	}
	parsed.Path = unescaped
	parsed.RawPath = escaped
	return parsed.String(), nil
}
