package domain

import "time"

// AccessClaims is the decoded content of a bearer token. The fields this
// service depends on (subject and the two timestamps) are typed; anything
// else the token carried survives in Extra.
type AccessClaims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Extra     map[string]any
}

// AuthEvent is an audit record of one authentication outcome.
type AuthEvent struct {
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Outcome   string    `json:"outcome"`
	Timestamp time.Time `json:"timestamp"`
}

// Audit actions and outcomes. Outcome strings double as metric label values.
const (
	ActionRegister = "register"
	ActionLogin    = "login"

	OutcomeSuccess   = "success"
	OutcomeRejected  = "rejected"
	OutcomeInactive  = "inactive"
	OutcomeThrottled = "throttled"
)
