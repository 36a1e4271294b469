// Package wire provides dependency injection for the renewbot
// application. It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"os"
	"sync"

	"github.com/example/renewbot/internal/adapters/clock"
	"github.com/example/renewbot/internal/adapters/console"
	"github.com/example/renewbot/internal/adapters/imap"
	"github.com/example/renewbot/internal/adapters/sqlite"
	"github.com/example/renewbot/internal/adapters/statefile"
	"github.com/example/renewbot/internal/adapters/web"
	"github.com/example/renewbot/internal/app"
	"github.com/example/renewbot/internal/config"
	"github.com/example/renewbot/internal/db"
	"github.com/example/renewbot/internal/ports/primary"
	"github.com/example/renewbot/internal/ports/secondary"
)

var (
	cfg            *config.Config
	renewalService primary.RenewalService
	historyRepo    secondary.HistoryRepository
	stateStore     secondary.StateStore
	mailChannel    secondary.MailChannel
	once           sync.Once
)

// Cfg returns the loaded configuration.
func Cfg() *config.Config {
	once.Do(initServices)
	return cfg
}

// RenewalService returns the singleton RenewalService instance.
func RenewalService() primary.RenewalService {
	once.Do(initServices)
	return renewalService
}

// HistoryRepository returns the singleton history repository.
func HistoryRepository() secondary.HistoryRepository {
	once.Do(initServices)
	return historyRepo
}

// StateStore returns the singleton state store.
func StateStore() secondary.StateStore {
	once.Do(initServices)
	return stateStore
}

// MailChannel returns the singleton mail channel so callers can close
// it when the process exits.
func MailChannel() secondary.MailChannel {
	once.Do(initServices)
	return mailChannel
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	dir, err := config.Dir()
	if err != nil {
		log.Fatalf("failed to resolve renewbot directory: %v", err)
	}

	cfg, err = config.LoadOrDefault(dir)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Secondary adapters
	historyRepo = sqlite.NewHistoryRepository(database)
	stateStore = statefile.NewStore(dir)
	cookieStore := statefile.NewCookieFile(dir)
	reporter := console.NewReporter(os.Stdout)
	clk := clock.System{}
	mailChannel = imap.NewChannel(cfg.IMAPServer, cfg.IMAPLogin, cfg.IMAPPassword)

	webSession, err := web.NewSession(app.PortalBaseURL)
	if err != nil {
		log.Fatalf("failed to create web session: %v", err)
	}

	// Application services (primary ports implementation)
	pins := app.NewPinResolver(mailChannel, clk, reporter, app.PinConfig{})
	sessions := app.NewSessionManager(webSession, cookieStore, stateStore, pins, clk, reporter, &cfg.Credentials)
	discoverySvc := app.NewDiscoveryService(mailChannel, clk, reporter, 0)
	extension := app.NewExtensionWorkflow(webSession, pins, stateStore, clk, reporter)
	renewalService = app.NewOrchestrator(stateStore, historyRepo, mailChannel, discoverySvc, sessions, extension, clk, reporter, 0)
}
