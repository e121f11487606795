package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/apk-portal/internal/config"
	"github.com/MKhiriev/apk-portal/internal/logger"
	"github.com/MKhiriev/apk-portal/internal/utils"
	"github.com/MKhiriev/apk-portal/models"
	"github.com/go-resty/resty/v2"
)

// Logical operation names sent in the "path" query parameter.
const (
	PathLogin   = "/login"
	PathRefresh = "/token/refresh"
	PathAPKs    = "/apks"
)

const (
	pathParam        = "path"
	accessTokenParam = "accessToken"

	// Write bodies are JSON sent as plain text so that the request needs no
	// CORS preflight on the portal side.
	simpleContentType = "text/plain;charset=utf-8"
)

type httpServerAdapter struct {
	client  *utils.HTTPClient
	baseURL string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP implementation of [ServerAdapter].
// It normalises and validates portalCfg.APIBaseURL and configures the
// underlying HTTP client with the request timeout (zero means none). Every
// request is tagged with a fresh X-Request-ID.
//
// Returns an error if the base URL is empty or cannot be parsed.
func NewHTTPServerAdapter(portalCfg config.Portal, adapterCfg config.Adapter, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := config.NormalizeBaseURL(portalCfg.APIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid portal api base url: %w", err)
	}

	client := utils.NewHTTPClient(utils.NewUUIDGenerator())
	client.SetTimeout(adapterCfg.RequestTimeout)

	return &httpServerAdapter{client: client, baseURL: baseURL, logger: logger}, nil
}

// Login implements [ServerAdapter]. It POSTs {username, password} to the
// /login operation.
func (h *httpServerAdapter) Login(ctx context.Context, username, password string) (models.TokenPair, error) {
	data, err := h.post(ctx, PathLogin, models.LoginRequest{Username: username, Password: password})
	if err != nil {
		return models.TokenPair{}, err
	}
	return data.TokenPair(), nil
}

// RefreshToken implements [ServerAdapter]. It POSTs {username, refreshToken}
// to the /token/refresh operation.
func (h *httpServerAdapter) RefreshToken(ctx context.Context, username, refreshToken string) (models.TokenPair, error) {
	data, err := h.post(ctx, PathRefresh, models.RefreshRequest{Username: username, RefreshToken: refreshToken})
	if err != nil {
		return models.TokenPair{}, err
	}
	return data.TokenPair(), nil
}

// ListBuilds implements [ServerAdapter]. It GETs the /apks operation with the
// access token as a query parameter.
func (h *httpServerAdapter) ListBuilds(ctx context.Context, accessToken string) ([]models.Build, error) {
	req := h.request(ctx, PathAPKs)
	if accessToken != "" {
		req.SetQueryParam(accessTokenParam, accessToken)
	}

	resp, err := req.Get(h.baseURL)
	data, err := h.decode(req, resp, err, PathAPKs)
	if err != nil {
		return nil, err
	}
	return data.Builds(), nil
}

// DownloadBuild implements [ServerAdapter]. The body is streamed into a
// temporary file in dir which is renamed to [models.Build.FileName] once
// complete, so a failed transfer never leaves a truncated package behind.
func (h *httpServerAdapter) DownloadBuild(ctx context.Context, build models.Build, dir string) (string, error) {
	if strings.TrimSpace(build.URL) == "" {
		return "", &APIError{Code: CodeDownload, Message: "build has no download url"}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	req := h.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true)

	resp, err := req.Get(build.URL)
	if err != nil {
		return "", h.networkError(req, "download", err)
	}
	body := resp.RawBody()
	defer body.Close()

	if !resp.IsSuccess() {
		h.logger.Warn().
			Str("request_id", utils.RequestID(req)).
			Str("url", build.URL).
			Int("status", resp.StatusCode()).
			Msg("download failed")
		return "", &APIError{
			StatusCode: resp.StatusCode(),
			Code:       CodeDownload,
			Message:    fmt.Sprintf("download failed: %s", http.StatusText(resp.StatusCode())),
			RequestID:  utils.RequestID(req),
		}
	}

	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", h.networkError(req, "download", err)
	}

	target := filepath.Join(dir, build.FileName())
	if err = os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("move downloaded file: %w", err)
	}

	h.logger.Info().
		Str("request_id", utils.RequestID(req)).
		Str("version", build.Version).
		Str("file", target).
		Int64("bytes", written).
		Msg("build downloaded")

	return target, nil
}

func (h *httpServerAdapter) request(ctx context.Context, path string) *resty.Request {
	return h.client.R().
		SetContext(ctx).
		SetQueryParam(pathParam, path)
}

func (h *httpServerAdapter) post(ctx context.Context, path string, body any) (models.APIResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return models.APIResponse{}, fmt.Errorf("encode %s request: %w", path, err)
	}

	req := h.request(ctx, path).
		SetHeader("Content-Type", simpleContentType).
		SetBody(string(payload))

	resp, err := req.Post(h.baseURL)
	return h.decode(req, resp, err, path)
}

// decode maps a finished call to the portal envelope. A body that is not a
// JSON object is treated as an empty object, so the outcome then depends on
// the HTTP status alone.
func (h *httpServerAdapter) decode(req *resty.Request, resp *resty.Response, err error, path string) (models.APIResponse, error) {
	if err != nil {
		return models.APIResponse{}, h.networkError(req, path, err)
	}

	data := models.ParseAPIResponse(resp.Body())

	log := h.logger.Debug().
		Str("request_id", utils.RequestID(req)).
		Str("path", path).
		Int("status", resp.StatusCode())

	if apiErr := mapResponse(resp.StatusCode(), data); apiErr != nil {
		apiErr.RequestID = utils.RequestID(req)
		log.Str("code", apiErr.Code).Msg("portal call failed")
		return data, apiErr
	}

	log.Msg("portal call succeeded")
	return data, nil
}

func (h *httpServerAdapter) networkError(req *resty.Request, path string, err error) error {
	requestID := utils.RequestID(req)
	h.logger.Error().
		Err(err).
		Str("request_id", requestID).
		Str("path", path).
		Msg("portal call did not complete")

	message := "cannot reach the portal"
	if errors.Is(err, context.DeadlineExceeded) {
		message = "the portal did not respond in time"
	}
	return &APIError{Code: CodeNetwork, Message: message, RequestID: requestID, Err: err}
}

// mapResponse applies the portal failure rule: a non-2xx status or an
// explicit ok:false. Message falls back from "message" to "error" to
// [DefaultFailureMessage]; the code from "error" to [CodeUnknown].
func mapResponse(statusCode int, data models.APIResponse) *APIError {
	if statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices && !data.Failed() {
		return nil
	}

	message := data.Message
	if message == "" {
		message = data.Error
	}
	if message == "" {
		message = DefaultFailureMessage
	}

	code := data.Error
	if code == "" {
		code = CodeUnknown
	}

	return &APIError{StatusCode: statusCode, Code: code, Message: message}
}
