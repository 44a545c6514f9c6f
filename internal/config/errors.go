package config

import "errors"

// Sentinel errors. A file problem matches both ErrConfigFile and
// ErrLoadConfig; validation failures match ErrInvalidConfig only.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
	ErrConfigFile    = errors.New("config file unusable")
)
