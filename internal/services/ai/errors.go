package ai

import "fmt"

// ConfigError reports a misconfiguration the caller must fix; no retry
// or failover can recover from it.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// ExhaustedError reports that the primary provider and the fallback both
// failed for one request.
type ExhaustedError struct {
	Primary     string
	Fallback    string
	PrimaryErr  error
	FallbackErr error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all AI providers failed: %s: %v; fallback %s: %v",
		e.Primary, e.PrimaryErr, e.Fallback, e.FallbackErr)
}
