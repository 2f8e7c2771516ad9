package services

import (
	"errors"
	"strings"
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
)

// Lifecycle rules shared by every ownership-scoped entity: other users'
// rows are invisible to reads and forbidden to writes, and inactive rows
// exist only for restore.

func checkReadable(owner, uid string, active bool, entity string) error {
	if owner != uid || !active {
		return errs.NewNotFoundError(entity + " not found")
	}
	return nil
}

func checkWritable(owner, uid string, active bool, entity string) error {
	if owner != uid {
		return errs.NewPermissionError("You do not have permission to modify this " + entity + ".")
	}
	if !active {
		return errs.NewNotFoundError(entity + " not found")
	}
	return nil
}

func checkRestorable(owner, uid string, active bool, entity string) error {
	if owner != uid {
		return errs.NewPermissionError("You do not have permission to restore this " + entity + ".")
	}
	if active {
		return errs.NewConflictError(capitalize(entity) + " is already active.")
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func isNotFound(err error) bool {
	var nf *errs.NotFoundError
	return errors.As(err, &nf)
}

func utcNow() time.Time {
	return time.Now().UTC()
}
