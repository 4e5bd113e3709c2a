package feedback

import "fmt"

// ConfigError means the remote model is not usable with the current
// configuration, usually because the credential is absent. No remote call
// was attempted.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return e.Err.Error() }

func (e *ConfigError) Unwrap() error { return e.Err }

// GenerationError means the remote call failed or returned nothing usable.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("Failed to generate feedback: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
