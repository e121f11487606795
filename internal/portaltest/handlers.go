package portaltest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MKhiriev/apk-portal/internal/utils"
	"github.com/MKhiriev/apk-portal/models"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

// Codes answered by the fake in the "error" field.
const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidRefresh     = "INVALID_REFRESH_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeBadRequest         = "BAD_REQUEST"
)

type envelope map[string]any

func fail(code, message string) envelope {
	return envelope{"ok": false, "error": code, "message": message}
}

func (s *Server) withJournal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, basePath)
		rec := Request{
			Method:      r.Method,
			Path:        path,
			ContentType: r.Header.Get("Content-Type"),
			AccessToken: r.URL.Query().Get("accessToken"),
			RequestID:   r.Header.Get(utils.HeaderRequestID),
		}

		s.mu.Lock()
		s.requests = append(s.requests, rec)
		failure, failing := s.failures[path]
		s.mu.Unlock()

		if failing {
			writeFailure(w, failure)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeFailure(w http.ResponseWriter, f Failure) {
	status := f.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	switch body := f.Body.(type) {
	case nil:
		w.WriteHeader(status)
	case string:
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	default:
		_, _ = utils.WriteJSON(w, body, status)
	}
}

// login answers like an Apps Script deployment: HTTP 200 with ok:false for
// rejected credentials.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		_, _ = utils.WriteJSON(w, fail(CodeBadRequest, "Malformed request body"), http.StatusOK)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	password, ok := s.users[req.Username]
	if !ok || password != req.Password {
		_, _ = utils.WriteJSON(w, fail(CodeInvalidCredentials, "Invalid username or password"), http.StatusOK)
		return
	}

	pair, err := s.issueLocked(req.Username)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_, _ = utils.WriteJSON(w, envelope{"ok": true, "accessToken": pair.AccessToken, "refreshToken": pair.RefreshToken}, http.StatusOK)
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		_, _ = utils.WriteJSON(w, fail(CodeBadRequest, "Malformed request body"), http.StatusOK)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	owner, known := s.refreshTokens[req.RefreshToken]
	if s.failRefresh || !known || owner != req.Username {
		_, _ = utils.WriteJSON(w, fail(CodeInvalidRefresh, "Refresh token is invalid"), http.StatusOK)
		return
	}
	if _, err := utils.ValidateJWTToken(req.RefreshToken, signKey, issuer, utils.RefreshTokenKind); err != nil {
		_, _ = utils.WriteJSON(w, fail(CodeInvalidRefresh, "Refresh token is invalid"), http.StatusOK)
		return
	}

	// refresh tokens are single use
	delete(s.refreshTokens, req.RefreshToken)

	pair, err := s.issueLocked(req.Username)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_, _ = utils.WriteJSON(w, envelope{"ok": true, "accessToken": pair.AccessToken, "refreshToken": pair.RefreshToken}, http.StatusOK)
}

func (s *Server) listAPKs(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("accessToken")

	s.mu.Lock()
	defer s.mu.Unlock()

	_, live := s.accessTokens[token]
	_, err := utils.ValidateJWTToken(token, signKey, issuer, utils.AccessTokenKind)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired), err == nil && !live:
		_, _ = utils.WriteJSON(w, fail(CodeTokenExpired, "Access token expired"), http.StatusOK)
		return
	case err != nil:
		_, _ = utils.WriteJSON(w, fail(CodeInvalidToken, "Access token is invalid"), http.StatusOK)
		return
	}

	var data any = s.builds
	if s.buildsPayload != nil {
		data = s.buildsPayload
	}
	if s.builds == nil && s.buildsPayload == nil {
		data = []models.Build{}
	}
	_, _ = utils.WriteJSON(w, envelope{"ok": true, "data": data}, http.StatusOK)
}

func (s *Server) file(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	s.mu.Lock()
	content, ok := s.files[name]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.android.package-archive")
	_, _ = w.Write(content)
}

func (s *Server) issueLocked(username string) (models.TokenPair, error) {
	access, err := utils.GenerateJWTToken(issuer, username, utils.AccessTokenKind, s.accessTTL, signKey)
	if err != nil {
		return models.TokenPair{}, err
	}
	refresh, err := utils.GenerateJWTToken(issuer, username, utils.RefreshTokenKind, defaultRefreshTTL, signKey)
	if err != nil {
		return models.TokenPair{}, err
	}

	s.accessTokens[access] = username
	s.refreshTokens[refresh] = username
	return models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
