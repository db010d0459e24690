package testsupport

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// MustExecSQL runs statements directly against a database file, bypassing
// the store. Tests use it to build legacy schema layouts and to tamper with
// stored state.
func MustExecSQL(t testing.TB, path string, stmts ...string) {
	t.Helper()

	db, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		t.Fatalf("open raw database: %v", err)
	}
	defer db.Close()

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
}
