package service

import (
	"github.com/MKhiriev/apk-portal/internal/adapter"
	"github.com/MKhiriev/apk-portal/internal/config"
	"github.com/MKhiriev/apk-portal/internal/logger"
	"github.com/MKhiriev/apk-portal/internal/store"
	"github.com/MKhiriev/apk-portal/models"
)

// ClientServices groups the services used by the client runtime.
type ClientServices struct {
	SessionService SessionService
	AppInfoService AppInfoService
}

// NewClientServices builds the client services. serverAdapter and storages
// may be nil when the portal is not configured; SessionService is nil then.
func NewClientServices(storages *store.ClientStorages, serverAdapter adapter.ServerAdapter, buildInfo models.AppBuildInfo, portal config.Portal, logger *logger.Logger) *ClientServices {
	services := &ClientServices{
		AppInfoService: NewAppInfoService(buildInfo, portal, logger),
	}
	if storages != nil && serverAdapter != nil {
		services.SessionService = NewSessionService(serverAdapter, storages.Credentials, logger)
	}
	return services
}
