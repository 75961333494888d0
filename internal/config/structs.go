package config

import (
	"github.com/studiokasse/studiokasse/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath      bool // use clean path middleware to allow multi slash requests
	DisableRecover bool // disable recover middleware
	Port           int  // listening port for the webserver
	ShutDownTime   int  // wait time for shutdown in seconds
}
