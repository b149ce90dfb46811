package config

import "time"

// Timer cadence.
const (
	TickInterval    = time.Second
	AlertWindow     = 3 * time.Second
	CompletionDelay = time.Second
)

// Color thresholds, in seconds remaining, for default durations.
const (
	DefaultGreenThreshold  = 60
	DefaultOrangeThreshold = 30
)

// Proportional thresholds for custom durations.
const (
	GreenFraction  = 0.32
	OrangeFraction = 0.16
)

// Topic generation.
const (
	TopicsPerDraw = 3
	DefaultTheme  = "technology"
)

// Database/application settings.
const (
	AppName         = "spt"
	DBFileName      = "sessions.db"
	LogFileName     = "spt.log"
	HistoryPageSize = 20
)

// HTTP server settings.
const (
	DefaultListenAddr = "127.0.0.1:8787"
	APIRequestLimit   = 120
	APIWindow         = time.Minute
	ShutdownTimeout   = 5 * time.Second
)
