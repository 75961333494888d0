package config

import (
	"errors"
)

var (
	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrDBEngineInvalid error if config db.gormengine names an unsupported engine.
	ErrDBEngineInvalid = errors.New("toml config db.gormengine must be sqlite, mysql or postgres")
)
