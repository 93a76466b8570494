package cli

import (
	"github.com/valter-silva-au/taskquery/internal/config"
	"github.com/valter-silva-au/taskquery/internal/observability"
	"github.com/valter-silva-au/taskquery/internal/query"
)

// Service instances, set during app initialization in app.go.
var (
	BasePath string
	Cfg      *config.Config
	Engine   *query.Engine

	// EventLog and MetricsCalc may be nil when event recording is
	// disabled in the config.
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
)
