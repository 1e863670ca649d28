package common

// Fixed key names for the persisted session, shared by the session store and
// its tests. The pairing invariant (token and user are set and cleared
// together) is enforced by the session store, not by the storage layer.
const (
	SessionTokenKey = "token"
	SessionUserKey  = "user"
)

// AuthorizationHeader is the HTTP header carrying the bearer token.
const AuthorizationHeader = "Authorization"

// RequestIDHeader carries a per-request UUID for log correlation.
const RequestIDHeader = "X-Request-Id"
