package common

// CsrfHeaderName is the custom header whose presence every state-mutating
// endpoint requires. Only presence is checked, not the value.
const CsrfHeaderName = "x-hivegate-csrf-protection"

// Cookie names. The server-side challenge copy is httpOnly; the readable
// copy carries the same value for client-side signing.
const (
	SessionCookieName         = "hivegate_session"
	ChallengeServerCookieName = "hivegate_login_challenge_server"
	ChallengeCookieName       = "hivegate_login_challenge"
)
