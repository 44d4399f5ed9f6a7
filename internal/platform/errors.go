package platform

import "errors"

var (
	// ErrNotFound means the member, role or channel no longer exists at call
	// time.
	ErrNotFound = errors.New("platform: not found")
	// ErrPermissionDenied means the platform rejected a role or message
	// operation for this bot.
	ErrPermissionDenied = errors.New("platform: permission denied")
	// ErrRateLimited means the platform asked us to back off; callers treat
	// it like any other transient failure.
	ErrRateLimited = errors.New("platform: rate limited")
)
