package parkctl

import "time"

// Config holds configuration for one parkctl invocation.
type Config struct {
	BaseURL     string        // Origin serving the API root
	APIRoot     string        // Prefix in front of logical paths
	SessionFile string        // Role marker and cookie persistence
	Timeout     time.Duration // Per-call timeout; 0 disables it
	LogFile     string        // Optional rotated log file
	Verbose     bool          // Enable debug logging
}

// loginRequest is the body of POST /login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse is what the backend answers to a successful login.
type loginResponse struct {
	Message string `json:"message"`
	UserID  int    `json:"user_id"`
	Role    string `json:"role"`
}
