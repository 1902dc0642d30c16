package auth

// Identity is the canonical user record handed to protected handlers
// once a request is authenticated. It contains facts only, no decisions.
type Identity struct {
	UserID   string         `json:"user_id"`
	Username string         `json:"username"`
	Data     map[string]any `json:"data,omitempty"`
}
