package workflow

import "github.com/SebastinST/tms-backend/internal/domain"

// Authorized reports whether user may act on tasks currently in state
// under app. The check is fail-closed: an unconfigured permit authorizes
// nobody. Membership is exact-match set lookup, never substring.
func Authorized(app *domain.Application, state domain.State, user *domain.User) bool {
	permit := app.PermitFor(state)
	if permit == "" {
		return false
	}
	return user.Groups.Contains(permit)
}

// AuthorizedCreate reports whether user may create tasks under app,
// resolved against the application's create permit. Fail-closed like
// the per-state permits.
func AuthorizedCreate(app *domain.Application, user *domain.User) bool {
	if app.PermitCreate == "" {
		return false
	}
	return user.Groups.Contains(app.PermitCreate)
}
