package mcml

import "errors"

var (
	ErrNotConfigured    = errors.New("run is not configured")
	ErrNotInitialized   = errors.New("simulation is not initialized")
	ErrInvalidConfig    = errors.New("invalid run configuration")
	ErrEvanescentLaunch = errors.New("incident angle causes total internal reflection at entry")
)
