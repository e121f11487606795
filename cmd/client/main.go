package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/apk-portal/internal/client"
	"github.com/MKhiriev/apk-portal/internal/config"
	"github.com/MKhiriev/apk-portal/internal/logger"
	"github.com/MKhiriev/apk-portal/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewClientLogger("apk-portal-client", "")

	// a missing or malformed API base URL is shown in the UI instead of ending the process
	cfg, cfgErr := config.GetClientConfig()
	if cfgErr != nil && !config.IsPortalError(cfgErr) {
		fmt.Fprintln(os.Stderr, cfgErr)
		log.Fatal().Err(cfgErr).Msg("error getting configs")
	}

	ctx, stop := signal.NotifyContext(log.WithContext(context.Background()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	app, err := client.NewApp(ctx, cfg, cfgErr, buildInfo, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Fatal().Err(err).Msg("client run error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
