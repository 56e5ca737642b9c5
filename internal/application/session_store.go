package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/bnema/folio-admin-cli/internal/domain"
	"github.com/bnema/folio-admin-cli/internal/ports"
)

// SessionSecretKey is where the bearer token lives in the secret store.
const SessionSecretKey = "folio-admin/session/token"

// SessionAuthority is what resource controllers need from the session: a
// token for bearer calls and a way to drop the session when the server
// rejects it.
type SessionAuthority interface {
	Token() (string, error)
	InvalidateOnAuthError(ctx context.Context, err error)
}

// SessionStore owns the operator session. It is the only writer of the
// session; everything else reads through Current or Subscribe.
type SessionStore struct {
	auth    ports.Authenticator
	repo    ports.SessionRepository
	secrets ports.SecretStore
	clock   ports.Clock
	logger  *zap.Logger

	mu          sync.Mutex
	current     *domain.Session
	nextSubID   int
	subscribers map[int]func(*domain.Session)
}

func NewSessionStore(auth ports.Authenticator, repo ports.SessionRepository, secrets ports.SecretStore, clock ports.Clock, logger *zap.Logger) *SessionStore {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SessionStore{
		auth:        auth,
		repo:        repo,
		secrets:     secrets,
		clock:       clock,
		logger:      logger,
		subscribers: make(map[int]func(*domain.Session)),
	}
}

func (s *SessionStore) Login(ctx context.Context, identifier, secret string) (domain.Session, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || secret == "" {
		return domain.Session{}, &domain.AuthError{Message: "identifier and secret are required"}
	}

	session, err := s.auth.Authenticate(ctx, identifier, secret)
	if err != nil {
		return domain.Session{}, fmt.Errorf("authenticate: %w", err)
	}
	if !session.Valid() {
		return domain.Session{}, &domain.AuthError{Message: "server returned no token"}
	}
	if session.IssuedAt.IsZero() {
		session.IssuedAt = s.clock.Now().UTC()
	}

	if err := s.persist(ctx, session); err != nil {
		return domain.Session{}, err
	}

	s.publish(&session)
	s.logger.Debug("session opened", zap.String("operator", session.OperatorID))
	return session, nil
}

func (s *SessionStore) persist(ctx context.Context, session domain.Session) error {
	previousToken, getErr := s.secrets.Get(ctx, SessionSecretKey)
	hadPrevious := getErr == nil
	if getErr != nil && !errors.Is(getErr, domain.ErrSecretNotFound) {
		s.logger.Debug("read previous session token", zap.Error(getErr))
	}

	if err := s.secrets.Put(ctx, SessionSecretKey, session.Token); err != nil {
		return fmt.Errorf("store session token: %w", err)
	}

	record := domain.SessionRecord{
		OperatorID:  session.OperatorID,
		DisplayName: session.DisplayName,
		IssuedAt:    session.IssuedAt,
		SecretRef:   SessionSecretKey,
	}
	if err := s.repo.Save(ctx, record); err != nil {
		var rollbackErr error
		if hadPrevious {
			rollbackErr = s.secrets.Put(ctx, SessionSecretKey, previousToken)
		} else {
			rollbackErr = s.secrets.Delete(ctx, SessionSecretKey)
		}
		if rollbackErr != nil {
			return fmt.Errorf("save session record and rollback stored token: %w", errors.Join(err, rollbackErr))
		}
		return fmt.Errorf("save session record: %w", err)
	}

	return nil
}

// Logout always clears the in-memory session, even when storage fails.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.publish(nil)

	var errs error
	if err := s.repo.Clear(ctx); err != nil {
		errs = errors.Join(errs, fmt.Errorf("clear session record: %w", err))
	}
	if err := s.secrets.Delete(ctx, SessionSecretKey); err != nil && !errors.Is(err, domain.ErrSecretNotFound) {
		errs = errors.Join(errs, fmt.Errorf("delete session token: %w", err))
	}
	return errs
}

// Rehydrate restores a persisted session. Anything missing or unreadable
// leaves the store signed out; it never fails.
func (s *SessionStore) Rehydrate(ctx context.Context) {
	session, err := s.load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			s.logger.Warn("discarding persisted session", zap.Error(err))
		}
		s.publish(nil)
		return
	}
	s.publish(&session)
}

func (s *SessionStore) load(ctx context.Context) (domain.Session, error) {
	record, err := s.repo.Load(ctx)
	if err != nil {
		return domain.Session{}, err
	}

	ref := record.SecretRef
	if ref == "" {
		ref = SessionSecretKey
	}
	token, err := s.secrets.Get(ctx, ref)
	if err != nil {
		return domain.Session{}, fmt.Errorf("read session token: %w", err)
	}

	session := domain.Session{
		OperatorID:  record.OperatorID,
		DisplayName: record.DisplayName,
		Token:       token,
		IssuedAt:    record.IssuedAt,
	}
	if !session.Valid() {
		return domain.Session{}, errors.New("persisted session has an empty token")
	}
	return session, nil
}

func (s *SessionStore) Current() *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	session := *s.current
	return &session
}

func (s *SessionStore) Token() (string, error) {
	current := s.Current()
	if current == nil {
		return "", domain.ErrNoSession
	}
	return current.Token, nil
}

// InvalidateOnAuthError signs the operator out when err is an authorization
// failure. Other errors are left to the caller.
func (s *SessionStore) InvalidateOnAuthError(ctx context.Context, err error) {
	if err == nil || !errors.Is(err, domain.ErrAuth) {
		return
	}
	if s.Current() == nil {
		return
	}

	s.logger.Info("session invalidated by server", zap.Error(err))
	if logoutErr := s.Logout(ctx); logoutErr != nil {
		s.logger.Warn("clear invalidated session", zap.Error(logoutErr))
	}
}

// Subscribe registers fn for every session transition and returns a func
// that removes it.
func (s *SessionStore) Subscribe(fn func(*domain.Session)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *SessionStore) publish(session *domain.Session) {
	s.mu.Lock()
	if session == nil {
		s.current = nil
	} else {
		stored := *session
		s.current = &stored
	}
	subscribers := make([]func(*domain.Session), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.mu.Unlock()

	for _, fn := range subscribers {
		if session == nil {
			fn(nil)
			continue
		}
		copied := *session
		fn(&copied)
	}
}
