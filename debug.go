package elastictiny

import "github.com/google/uuid"

// DebugConfig controls the client's debug logging. It is disabled by
// default; enabling it requires a Logger.
type DebugConfig struct {
	Enabled      bool
	LogRequests  bool
	LogRetries   bool
	RequestIDGen func() string
}

// DefaultDebugConfig returns a disabled configuration with all log
// categories on and UUID request IDs, so WithDebug alone gives full
// output.
func DefaultDebugConfig() *DebugConfig {
	return &DebugConfig{
		Enabled:      false,
		LogRequests:  true,
		LogRetries:   true,
		RequestIDGen: uuid.NewString,
	}
}
