package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/MKhiriev/apk-portal/internal/adapter"
	"github.com/MKhiriev/apk-portal/internal/logger"
	"github.com/MKhiriev/apk-portal/internal/store"
	"github.com/MKhiriev/apk-portal/internal/utils"
	"github.com/MKhiriev/apk-portal/models"
)

type sessionService struct {
	adapter adapter.ServerAdapter
	store   store.CredentialStore
	logger  *logger.Logger

	// flow serialises login, logout and the refresh-and-retry sequence so
	// that memory and storage only change together.
	flow sync.Mutex

	mu      sync.RWMutex
	current models.Credentials
}

// NewSessionService wires the Session Client to the portal adapter and the
// credential store. The session starts empty; call Restore to pick up a
// persisted one.
func NewSessionService(serverAdapter adapter.ServerAdapter, credentials store.CredentialStore, logger *logger.Logger) SessionService {
	return &sessionService{
		adapter: serverAdapter,
		store:   credentials,
		logger:  logger,
	}
}

// Login implements [SessionService].
func (s *sessionService) Login(ctx context.Context, username, password string) (models.Credentials, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return models.Credentials{}, &AuthError{Code: CodeInvalidInput, Message: "username and password are required"}
	}

	s.flow.Lock()
	defer s.flow.Unlock()

	pair, err := s.adapter.Login(ctx, username, password)
	if err != nil {
		s.logger.Warn().Err(err).Str("username", username).Str("code", adapter.CodeOf(err)).Msg("login rejected")
		return models.Credentials{}, mapLoginError(err)
	}
	if pair.AccessToken == "" {
		return models.Credentials{}, &AuthError{Code: adapter.CodeUnknown, Message: "the portal issued no access token"}
	}

	creds := models.NewCredentials(pair, username)
	if err = s.persist(ctx, creds); err != nil {
		return models.Credentials{}, fmt.Errorf("save session: %w", err)
	}

	s.logTokenExpiry("logged in", creds)
	return creds, nil
}

// ListBuilds implements [SessionService].
func (s *sessionService) ListBuilds(ctx context.Context) ([]models.Build, error) {
	s.flow.Lock()
	defer s.flow.Unlock()

	creds := s.Current()
	if !creds.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	builds, err := s.adapter.ListBuilds(ctx, creds.AccessToken)
	if err == nil {
		return builds, nil
	}
	if !errors.Is(err, adapter.ErrTokenExpired) {
		return nil, fmt.Errorf("list builds: %w", err)
	}

	s.logger.Info().Str("username", creds.Username).Msg("access token expired, refreshing")

	refreshed, err := s.refresh(ctx)
	if err != nil {
		return nil, err
	}

	// one retry only, whatever it returns is final
	builds, err = s.adapter.ListBuilds(ctx, refreshed.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("list builds after refresh: %w", err)
	}
	return builds, nil
}

// refresh exchanges the persisted refresh token for a new pair and persists
// it. Any failure tears the session down. Callers hold s.flow.
func (s *sessionService) refresh(ctx context.Context) (models.Credentials, error) {
	stored, err := s.store.Get(ctx)
	if err != nil {
		return models.Credentials{}, s.expire(ctx, fmt.Errorf("read persisted session: %w", err))
	}
	if !stored.CanRefresh() {
		return models.Credentials{}, s.expire(ctx, errors.New("no refresh token persisted"))
	}

	pair, err := s.adapter.RefreshToken(ctx, stored.Username, stored.RefreshToken)
	if err != nil {
		return models.Credentials{}, s.expire(ctx, err)
	}
	if pair.AccessToken == "" {
		return models.Credentials{}, s.expire(ctx, errors.New("refresh issued no access token"))
	}

	next := models.NewCredentials(pair, stored.Username)
	if err = s.persist(ctx, next); err != nil {
		return models.Credentials{}, s.expire(ctx, err)
	}

	s.logTokenExpiry("session refreshed", next)
	return next, nil
}

// expire tears the session down after a failed refresh and returns the
// resulting ErrSessionExpired.
func (s *sessionService) expire(ctx context.Context, cause error) error {
	s.logger.Warn().Err(cause).Msg("token refresh failed, ending session")

	if err := s.teardown(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrSessionExpired, errors.Join(cause, err))
	}
	return fmt.Errorf("%w: %w", ErrSessionExpired, cause)
}

// Logout implements [SessionService].
func (s *sessionService) Logout(ctx context.Context) error {
	s.flow.Lock()
	defer s.flow.Unlock()

	if err := s.teardown(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.logger.Info().Msg("logged out")
	return nil
}

// Restore implements [SessionService].
func (s *sessionService) Restore(ctx context.Context) (models.Credentials, error) {
	s.flow.Lock()
	defer s.flow.Unlock()

	stored, err := s.store.Get(ctx)
	if err != nil {
		return models.Credentials{}, fmt.Errorf("restore session: %w", err)
	}
	if !stored.IsAuthenticated() {
		return models.Credentials{}, ErrNoSession
	}

	s.setCurrent(stored)
	s.logTokenExpiry("session restored", stored)
	return stored, nil
}

// Current implements [SessionService].
func (s *sessionService) Current() models.Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Download implements [SessionService].
func (s *sessionService) Download(ctx context.Context, build models.Build, dir string) (string, error) {
	path, err := s.adapter.DownloadBuild(ctx, build, dir)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", build.Version, err)
	}
	return path, nil
}

// persist writes creds to storage first and to memory second, so a failed
// write leaves the in-memory session as it was.
func (s *sessionService) persist(ctx context.Context, creds models.Credentials) error {
	if err := s.store.Set(ctx, creds); err != nil {
		s.logger.Err(err).Msg("failed to persist credentials")
		return err
	}
	s.setCurrent(creds)
	return nil
}

// teardown clears memory unconditionally and storage best-effort.
func (s *sessionService) teardown(ctx context.Context) error {
	s.setCurrent(models.Credentials{})

	if err := s.store.Clear(ctx); err != nil {
		s.logger.Err(err).Msg("failed to clear persisted credentials")
		return err
	}
	return nil
}

func (s *sessionService) setCurrent(creds models.Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = creds
}

func (s *sessionService) logTokenExpiry(msg string, creds models.Credentials) {
	event := s.logger.Info().Str("username", creds.Username)
	if exp, ok := utils.TokenExpiry(creds.AccessToken); ok {
		event = event.Time("access_token_expires_at", exp)
	}
	event.Msg(msg)
}
