package shared

import (
	"errors"
	"fmt"
	"testing"
)

func TestSQLiteErrorClassification(t *testing.T) {
	busy := errors.New("database is locked (5) (SQLITE_BUSY)")
	unique := fmt.Errorf("insert user: %w", errors.New("constraint failed: UNIQUE constraint failed: users.telegram_id (2067)"))

	if !IsSQLiteConflictError(busy) {
		t.Error("expected busy error to be a conflict")
	}
	if IsSQLiteConflictError(unique) {
		t.Error("unique violation is not a lock conflict")
	}
	if !IsSQLiteUniqueError(unique) {
		t.Error("expected wrapped unique violation to be detected")
	}
	if IsSQLiteUniqueError(nil) || IsSQLiteConflictError(nil) {
		t.Error("nil error must not classify")
	}
}
