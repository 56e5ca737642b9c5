package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/bnema/folio-admin-cli/internal/adapters/auth"
	"github.com/bnema/folio-admin-cli/internal/domain"
	"github.com/bnema/folio-admin-cli/internal/ports"
)

var _ ports.Authenticator = Client{}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

type operatorBody struct {
	ID       string `json:"id"`
	MongoID  string `json:"_id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (o operatorBody) id() string {
	if o.ID != "" {
		return o.ID
	}
	return o.MongoID
}

func (o operatorBody) displayName() string {
	switch {
	case o.Name != "":
		return o.Name
	case o.Username != "":
		return o.Username
	default:
		return o.Email
	}
}

// loginResponse accepts both {operator, token} and a flat user document
// carrying the token next to the user fields.
type loginResponse struct {
	operatorBody
	Operator *operatorBody `json:"operator"`
	Token    string        `json:"token"`
}

func (c Client) Authenticate(ctx context.Context, identifier, secret string) (domain.Session, error) {
	body, err := json.Marshal(loginRequest{Identifier: identifier, Secret: secret})
	if err != nil {
		return domain.Session{}, fmt.Errorf("encode login request: %w", err)
	}

	raw, err := c.Send(ctx, ports.Call{
		Method:  http.MethodPost,
		Path:    LoginPath,
		Payload: &domain.Payload{ContentType: "application/json", Body: body},
	})
	if err != nil {
		var writeErr *domain.WriteError
		if errors.As(err, &writeErr) {
			return domain.Session{}, &domain.AuthError{Status: writeErr.Status, Message: writeErr.Message}
		}
		return domain.Session{}, err
	}

	var decoded loginResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return domain.Session{}, &domain.AuthError{Message: fmt.Sprintf("decode login response: %v", err)}
	}
	if decoded.Token == "" {
		return domain.Session{}, &domain.AuthError{Message: "login response missing token"}
	}

	operator := decoded.operatorBody
	if decoded.Operator != nil {
		operator = *decoded.Operator
	}

	session := domain.Session{
		OperatorID:  operator.id(),
		DisplayName: operator.displayName(),
		Token:       decoded.Token,
	}

	claims, err := auth.InspectToken(decoded.Token)
	if err != nil && !errors.Is(err, auth.ErrOpaqueToken) {
		c.logger().Debug("token claims unreadable")
	}
	if err == nil {
		if session.OperatorID == "" {
			session.OperatorID = claims.Subject
		}
		if session.DisplayName == "" {
			session.DisplayName = claims.Name
		}
		session.IssuedAt = claims.IssuedAt
	}
	if session.DisplayName == "" {
		session.DisplayName = identifier
	}

	return session, nil
}
