// Package internal provides the App struct that wires the query engine,
// storage, and observability components together and initializes the CLI
// layer.
package internal

import (
	"os"
	"path/filepath"

	"github.com/valter-silva-au/taskquery/internal/cli"
	"github.com/valter-silva-au/taskquery/internal/config"
	"github.com/valter-silva-au/taskquery/internal/observability"
	"github.com/valter-silva-au/taskquery/internal/query"
)

// App holds all service dependencies for the taskquery system.
type App struct {
	BasePath string

	Cfg    *config.Config
	Engine *query.Engine

	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
}

// NewApp creates and wires all components. basePath is the directory that
// holds the config file, the task collection, and the event log.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	cfg, err := config.NewLoader(basePath).Load()
	if err != nil {
		return nil, err
	}
	app.Cfg = cfg

	app.Engine = query.NewEngine()

	// Observability is best-effort: an empty path or an unwritable event
	// log disables it without failing startup.
	if cfg.EventLog != "" {
		eventLogPath := cfg.EventLog
		if !filepath.IsAbs(eventLogPath) {
			eventLogPath = filepath.Join(basePath, eventLogPath)
		}
		app.EventLog, err = observability.NewJSONLEventLog(eventLogPath)
		if err != nil {
			app.EventLog = nil
		}
	}
	if app.EventLog != nil {
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
	}

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.Cfg = app.Cfg
	cli.Engine = app.Engine
	cli.EventLog = app.EventLog
	cli.MetricsCalc = app.MetricsCalc

	return app, nil
}

// Close releases resources held by the App, such as the event log file handle.
// It is safe to call Close on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the directory taskquery reads its data from.
// It checks the TQ_HOME env var, then walks up from the current directory
// looking for a .taskqueryrc, and falls back to the current directory.
func ResolveBasePath() string {
	if home := os.Getenv("TQ_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".taskqueryrc")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	cwd, _ := os.Getwd()
	return cwd
}
