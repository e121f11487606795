package service

import (
	"context"
	"net/url"

	"github.com/MKhiriev/apk-portal/internal/config"
	"github.com/MKhiriev/apk-portal/internal/logger"
	"github.com/MKhiriev/apk-portal/models"
)

type appInfoService struct {
	buildInfo  models.AppBuildInfo
	portalHost string

	logger *logger.Logger
}

func NewAppInfoService(buildInfo models.AppBuildInfo, cfg config.Portal, logger *logger.Logger) AppInfoService {
	var host string
	if u, err := url.Parse(cfg.APIBaseURL); err == nil {
		host = u.Host
	}

	return &appInfoService{
		buildInfo:  buildInfo,
		portalHost: host,
		logger:     logger,
	}
}

func (s *appInfoService) GetBuildInfo(ctx context.Context) models.AppBuildInfo {
	return s.buildInfo
}

func (s *appInfoService) GetPortalHost(ctx context.Context) string {
	return s.portalHost
}
