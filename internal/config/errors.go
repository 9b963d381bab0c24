package config

import "errors"

var (
	ErrInvalidSourceConfigs  = errors.New("invalid source configs: need base url and timeout, or an offline root")
	ErrInvalidStorageConfigs = errors.New("invalid storage configs: exactly one of root directory or sqlite dsn")
	ErrInvalidPollerConfigs  = errors.New("invalid poller configs")
)
