package config

import (
	"os"

	"github.com/goccy/go-json"
)

// App is the process-level configuration: credentials and paths, loaded once
// at startup. Security policy lives in its own persisted document.
type App struct {
	Token    string `json:"token"`
	OwnerID  string `json:"owner_id"`
	DataDir  string `json:"data_dir"`
	DBPath   string `json:"db_path"`
	WebAddr  string `json:"web_addr"`
	LogFile  string `json:"log_file"`
	LogLevel string `json:"log_level"`
}

func DefaultApp() *App {
	return &App{
		DataDir:  ".",
		DBPath:   "modguard.db",
		WebAddr:  ":8080",
		LogFile:  "modguard.log",
		LogLevel: "info",
	}
}

// LoadApp reads config.json and applies environment overrides. A missing file
// is fine as long as a token arrives through the environment.
func LoadApp(path string) (*App, error) {
	cfg := DefaultApp()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if token := os.Getenv("DISCORD_TOKEN"); token != "" {
		cfg.Token = token
	}
	if owner := os.Getenv("OWNER_ID"); owner != "" {
		cfg.OwnerID = owner
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.WebAddr = ":" + port
	}

	return cfg, nil
}
