package resilience

import "strings"

var busyPatterns = []string{
	"database is locked",
	"database table is locked",
	"sqlite_busy",
	"sqlite_locked",
}

// IsBusy reports whether err looks like SQLite lock contention that a later
// attempt can get past.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range busyPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
