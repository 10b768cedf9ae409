package postgres

import "strings"

// isUniqueViolation reports whether err is a unique-constraint violation.
// The pgx stdlib driver surfaces these as plain errors, so the check is
// textual, matching the Postgres 23505 message.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key")
}
