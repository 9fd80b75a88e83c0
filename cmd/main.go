package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"modguard/internal/bot"
	"modguard/internal/commands"
	"modguard/internal/config"
	"modguard/internal/database"
	"modguard/internal/detectors"
	"modguard/internal/enforcer"
	"modguard/internal/logging"
	"modguard/internal/notifier"
	"modguard/internal/storage"
	"modguard/internal/tracker"
	"modguard/internal/warnings"
	"modguard/internal/watchdog"
	"modguard/internal/web"
)

func main() {
	fmt.Println("Starting modguard security bot")

	cfg := loadConfig()

	if err := initializeLogging(cfg); err != nil {
		panic(err)
	}

	if err := initializeDatabase(cfg); err != nil {
		panic(err)
	}

	store, err := storage.NewStore(cfg.DataDir)
	if err != nil {
		panic(err)
	}

	components := startComponents(cfg, store)

	if err := initializeBot(cfg, components); err != nil {
		panic(err)
	}

	logging.Info("All components started successfully")

	waitForShutdown()

	stopComponents(components)

	bot.GetSession().Close()
	store.Close()
	database.Close()

	logging.Info("Shutdown complete")
	logging.GlobalLogger.Close()
}

func loadConfig() *config.App {
	cfg, err := config.LoadApp("config.json")
	if err != nil {
		fmt.Printf("Config load failed, using defaults: %v\n", err)
		cfg = config.DefaultApp()
	}

	if cfg.Token == "" {
		fmt.Println("No Discord token configured (config.json or DISCORD_TOKEN)")
		os.Exit(1)
	}

	return cfg
}

func initializeLogging(cfg *config.App) error {
	level := logging.LevelInfo
	if cfg.LogLevel == "debug" {
		level = logging.LevelDebug
	}
	return logging.InitGlobalLogger(level, cfg.LogFile)
}

func initializeDatabase(cfg *config.App) error {
	fmt.Println("Initializing SQLite database...")

	if err := database.Initialize(cfg.DBPath); err != nil {
		return err
	}

	if database.IsConnected() {
		fmt.Println("Database initialized and connection verified")
	}
	return nil
}

// incidentReporter fans a confirmed violation out to the audit database and
// the configured alert channel.
type incidentReporter struct {
	policy *config.Policy
}

func (r *incidentReporter) ReportIncident(guildID, userID, detector, action, reason string) {
	if db := database.GetDB(); db != nil {
		if err := db.RecordIncident(guildID, userID, detector, action, reason); err != nil {
			logging.Error("Failed to record incident: %v", err)
		}
	}
	notifier.SendSecurityAlert(r.policy.Snapshot().LogChannel, guildID, userID, detector, action, reason)
}

type Components struct {
	store     *storage.Store
	policy    *config.Policy
	state     *config.BotState
	warns     *warnings.Engine
	reporter  *incidentReporter
	nukeTrack *tracker.Tracker
	history   *tracker.MessageHistory
	dog       *watchdog.Watchdog
	webServer *web.Server
	stopFlush func()
}

func startComponents(cfg *config.App, store *storage.Store) *Components {
	policy := config.LoadPolicy(store)
	state := config.LoadBotState(store)
	reporter := &incidentReporter{policy: policy}

	dog := watchdog.NewWatchdog(30 * time.Second)
	dog.RegisterComponent("gateway", 5*time.Minute)
	dog.RegisterComponent("autosave", 15*time.Minute)
	dog.Start()

	webServer := web.NewServer(cfg.WebAddr, dog)
	webServer.Start()

	return &Components{
		store:     store,
		policy:    policy,
		state:     state,
		reporter:  reporter,
		nukeTrack: tracker.NewTracker(),
		history:   tracker.NewMessageHistory(),
		dog:       dog,
		webServer: webServer,
	}
}

func initializeBot(cfg *config.App, c *Components) error {
	fmt.Println("Initializing Discord bot...")

	if err := bot.Initialize(cfg.Token); err != nil {
		return err
	}

	session := bot.GetSession()
	enf := enforcer.NewDiscord(session.GetDiscord())

	c.warns = warnings.Load(c.store, enf)
	c.stopFlush = c.warns.StartAutoFlush(5*time.Minute, func() { c.dog.Heartbeat("autosave") })

	antiNuke := detectors.NewAntiNuke(c.policy, c.nukeTrack, enf, c.reporter)
	antiSpam := detectors.NewAntiSpam(c.policy, c.history, enf, c.reporter)

	// Handlers must be in place before the gateway opens.
	session.SetupEventHandlers(&bot.EventDeps{
		State:       c.state,
		AntiNuke:    antiNuke,
		AntiSpam:    antiSpam,
		NukeTracker: c.nukeTrack,
		Dog:         c.dog,
	})

	if err := session.Connect(); err != nil {
		return err
	}

	notifier.SetSession(session.GetDiscord())

	if err := commands.Initialize(commands.Deps{
		Session:  session,
		Policy:   c.policy,
		State:    c.state,
		Warnings: c.warns,
		Enforcer: enf,
		Reporter: c.reporter,
		DB:       database.GetDB(),
		OwnerID:  cfg.OwnerID,
	}); err != nil {
		return err
	}

	fmt.Println("Discord bot initialized successfully")
	return nil
}

func waitForShutdown() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	fmt.Println("\nShutdown signal received")
}

func stopComponents(c *Components) {
	if c.stopFlush != nil {
		c.stopFlush()
	}
	if c.warns != nil {
		if err := c.warns.Flush(); err != nil {
			logging.Error("Final warning flush failed: %v", err)
		}
	}
	c.dog.Stop()
	if err := c.webServer.Stop(); err != nil {
		logging.Error("Web server shutdown failed: %v", err)
	}
}
