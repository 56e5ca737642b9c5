package httpapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/folio-admin-cli/internal/domain"
	"github.com/bnema/folio-admin-cli/internal/ports"
	"github.com/bnema/folio-admin-cli/internal/testutil/fakeapi"
)

func TestSendAttachesHeadersAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/base/api/services", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "fa/test", r.Header.Get("User-Agent"))
		assert.Len(t, r.Header.Get("X-Request-ID"), 36)

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"title":"Hosting"}`, string(body))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"_id":"s1"}`))
	}))
	t.Cleanup(server.Close)

	client := Client{BaseURL: server.URL + "/base/", UserAgent: "fa/test"}
	raw, err := client.Send(context.Background(), ports.Call{
		Method:  http.MethodPost,
		Path:    "/api/services",
		Token:   "tok-1",
		Payload: &domain.Payload{ContentType: "application/json", Body: []byte(`{"title":"Hosting"}`)},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"s1"}`, string(raw))
}

func TestSendOmitsAuthorizationWithoutToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	_, err := Client{BaseURL: server.URL}.Send(context.Background(), ports.Call{Method: http.MethodGet, Path: "/api/projects"})
	require.NoError(t, err)
}

func TestSendRejectsOversizedResponse(t *testing.T) {
	body := `[` + strings.Repeat(`{"_id":"m","message":"hello"},`, 64) + `{"_id":"last"}]`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	client := Client{BaseURL: server.URL, MaxResponseBytes: int64(len(body)) - 1}
	raw, err := client.Send(context.Background(), ports.Call{Method: http.MethodGet, Path: "/api/contact"})
	assert.Nil(t, raw)
	require.ErrorIs(t, err, ErrResponseTooLarge)
	assert.ErrorIs(t, err, domain.ErrNetwork)

	client.MaxResponseBytes = int64(len(body))
	raw, err = client.Send(context.Background(), ports.Call{Method: http.MethodGet, Path: "/api/contact"})
	require.NoError(t, err)
	assert.Equal(t, body, string(raw))
}

func TestSendKeepsEscapedPathSegments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/projects/..%2Fservices", r.URL.EscapedPath())
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	_, err := Client{BaseURL: server.URL}.Send(context.Background(), ports.Call{
		Method: http.MethodDelete,
		Path:   domain.ProjectSchema.ItemPath("../services"),
	})
	require.NoError(t, err)
}

func TestSendMapsStatusesToDomainErrors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "unauthorized",
			method: http.MethodPost,
			status: http.StatusUnauthorized,
			body:   `{"message":"Not authorized, token failed"}`,
			check: func(t *testing.T, err error) {
				var authErr *domain.AuthError
				require.ErrorAs(t, err, &authErr)
				assert.Equal(t, "Not authorized, token failed", authErr.Message)
				assert.ErrorIs(t, err, domain.ErrAuth)
			},
		},
		{
			name:   "forbidden read",
			method: http.MethodGet,
			status: http.StatusForbidden,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, domain.ErrAuth)
			},
		},
		{
			name:   "read failure",
			method: http.MethodGet,
			status: http.StatusInternalServerError,
			body:   `{"error":"database down"}`,
			check: func(t *testing.T, err error) {
				var readErr *domain.ReadError
				require.ErrorAs(t, err, &readErr)
				assert.Equal(t, "database down", readErr.Message)
			},
		},
		{
			name:   "delete missing",
			method: http.MethodDelete,
			status: http.StatusNotFound,
			body:   `Resource not found`,
			check: func(t *testing.T, err error) {
				var writeErr *domain.WriteError
				require.ErrorAs(t, err, &writeErr)
				assert.True(t, writeErr.NotFound())
				assert.Equal(t, "Resource not found", writeErr.Message)
				assert.Equal(t, "DELETE /api/things/1", writeErr.Op)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			t.Cleanup(server.Close)

			_, err := Client{BaseURL: server.URL}.Send(context.Background(), ports.Call{Method: tc.method, Path: "/api/things/1"})
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}

func TestSendReportsUnreachableServerAsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := Client{BaseURL: url}.Send(context.Background(), ports.Call{Method: http.MethodGet, Path: "/api/projects"})
	require.ErrorIs(t, err, domain.ErrNetwork)
}

func TestSendRejectsInvalidBaseURL(t *testing.T) {
	_, err := Client{BaseURL: "ftp://example.com"}.Send(context.Background(), ports.Call{Method: http.MethodGet, Path: "/api/projects"})
	require.EqualError(t, err, "api base url must use http or https")
}

func TestServerMessageTruncatesLongBodies(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	message := serverMessage(long)
	assert.Len(t, message, maxErrorMessageLength+3)
}

func TestAuthenticateReturnsSessionFromOperatorResponse(t *testing.T) {
	api := fakeapi.New()
	t.Cleanup(api.Close)
	api.AddOperator(fakeapi.Operator{ID: "op-1", Name: "Ada", Identifier: "ada@example.com", Secret: "s3cret"})

	session, err := Client{BaseURL: api.URL}.Authenticate(context.Background(), "ada@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "op-1", session.OperatorID)
	assert.Equal(t, "Ada", session.DisplayName)
	assert.NotEmpty(t, session.Token)
	assert.False(t, session.IssuedAt.IsZero())

	req, ok := api.LastRequest(http.MethodPost, LoginPath)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"identifier": "ada@example.com", "secret": "s3cret"}, req.JSON)
}

func TestAuthenticateRejectsInvalidCredentials(t *testing.T) {
	api := fakeapi.New()
	t.Cleanup(api.Close)
	api.AddOperator(fakeapi.Operator{ID: "op-1", Name: "Ada", Identifier: "ada@example.com", Secret: "s3cret"})

	_, err := Client{BaseURL: api.URL}.Authenticate(context.Background(), "ada@example.com", "wrong")
	var authErr *domain.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Invalid email or password", authErr.Message)
}

func TestAuthenticateAcceptsFlatUserResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"_id":"u-9","email":"root@example.com","token":"opaque"}`))
	}))
	t.Cleanup(server.Close)

	session, err := Client{BaseURL: server.URL}.Authenticate(context.Background(), "root@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "u-9", session.OperatorID)
	assert.Equal(t, "root@example.com", session.DisplayName)
	assert.Equal(t, "opaque", session.Token)
	assert.True(t, session.IssuedAt.IsZero())
}

func TestAuthenticateMapsBadRequestToAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Email is required"}`))
	}))
	t.Cleanup(server.Close)

	_, err := Client{BaseURL: server.URL}.Authenticate(context.Background(), "", "pw")
	var authErr *domain.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusBadRequest, authErr.Status)
}

func TestAuthenticateRequiresToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"operator":{"id":"op-1"}}`))
	}))
	t.Cleanup(server.Close)

	_, err := Client{BaseURL: server.URL}.Authenticate(context.Background(), "a", "b")
	require.ErrorIs(t, err, domain.ErrAuth)
}
