package config

import "time"

const (
	DefaultHTTPPort        = "8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultFixingFallback  = 7
	DefaultSQLiteBusyWait  = 5 * time.Second
	DefaultChartWidth      = 1280
	DefaultChartHeight     = 720
)
