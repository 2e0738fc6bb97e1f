// Package wire provides dependency injection for the accord application.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log"
	"os"
	"sync"

	cliadapter "github.com/example/accord/internal/adapters/cli"
	"github.com/example/accord/internal/adapters/notify"
	"github.com/example/accord/internal/adapters/sqlite"
	"github.com/example/accord/internal/app"
	"github.com/example/accord/internal/config"
	"github.com/example/accord/internal/core/mou"
	"github.com/example/accord/internal/db"
	"github.com/example/accord/internal/ports/primary"
)

var (
	mouService     primary.MoUService
	renewalService primary.RenewalService
	once           sync.Once
)

// MoUService returns the singleton MoUService instance.
func MoUService() primary.MoUService {
	once.Do(initServices)
	return mouService
}

// RenewalService returns the singleton RenewalService instance.
func RenewalService() primary.RenewalService {
	once.Do(initServices)
	return renewalService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Secondary adapters with injected DB
	mouRepo := sqlite.NewMoURepository(database)
	renewalRepo := sqlite.NewRenewalRepository(database)
	auditLog := sqlite.NewAuditLog(database)
	jobQueue := sqlite.NewJobQueue(database)
	notifier := notify.NewJobNotifier(jobQueue)

	// Alert settings from the local config, defaults when absent
	settings := loadSettings()

	// Services (primary port implementations)
	mouService = app.NewMoUService(mouRepo, auditLog, jobQueue, notifier, settings)
	renewalService = app.NewRenewalService(renewalRepo, mouRepo, auditLog)
}

func loadSettings() mou.AlertSettings {
	cwd, err := os.Getwd()
	if err != nil {
		return mou.DefaultAlertSettings()
	}
	cfg, err := config.LoadConfig(cwd)
	if err != nil {
		return mou.DefaultAlertSettings()
	}
	return cfg.AlertSettings()
}

// MoUAdapter returns a new MoUAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func MoUAdapter() *cliadapter.MoUAdapter {
	return MoUAdapterWithOutput(os.Stdout)
}

// MoUAdapterWithOutput returns a new MoUAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func MoUAdapterWithOutput(out io.Writer) *cliadapter.MoUAdapter {
	once.Do(initServices)
	return cliadapter.NewMoUAdapter(mouService, out)
}

// RenewalAdapter returns a new RenewalAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func RenewalAdapter() *cliadapter.RenewalAdapter {
	return RenewalAdapterWithOutput(os.Stdout)
}

// RenewalAdapterWithOutput returns a new RenewalAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func RenewalAdapterWithOutput(out io.Writer) *cliadapter.RenewalAdapter {
	once.Do(initServices)
	return cliadapter.NewRenewalAdapter(renewalService, out)
}
