package common

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "cropcare_session"

// AuthHeaderName is the HTTP header that may carry "Bearer <token>".
const AuthHeaderName = "Authorization"
