package storage

import (
	"net/url"
	"strings"
)

// IsPostgres reports whether dsn names a PostgreSQL database rather than
// a SQLite file path.
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// HasEmbeddedCredentials reports whether a PostgreSQL URL carries a
// password. Passwords belong in the environment, .pgpass or the keyring.
func HasEmbeddedCredentials(dsn string) bool {
	if !IsPostgres(dsn) {
		for _, pair := range strings.Fields(dsn) {
			parts := strings.SplitN(pair, "=", 2)
			if len(parts) == 2 && strings.EqualFold(strings.TrimSpace(parts[0]), "password") {
				return true
			}
		}
		return false
	}
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return false
	}
	_, isSet := u.User.Password()
	return isSet
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return home + path[1:]
	}
	return path
}
