package mysql

import (
	"strings"
	"testing"
)

func TestSplitStatements(t *testing.T) {
	t.Parallel()

	raw := `
CREATE TABLE IF NOT EXISTS a (id CHAR(36) PRIMARY KEY);

CREATE TABLE IF NOT EXISTS b (id CHAR(36) PRIMARY KEY);
`
	statements := splitStatements(raw)
	if len(statements) != 2 {
		t.Fatalf("expected 2 statements, got %d: %#v", len(statements), statements)
	}
	for _, stmt := range statements {
		if strings.HasSuffix(stmt, ";") {
			t.Fatalf("statement should not keep its terminator: %q", stmt)
		}
		if strings.TrimSpace(stmt) != stmt {
			t.Fatalf("statement should be trimmed: %q", stmt)
		}
	}
}

func TestSplitStatementsSkipsEmpty(t *testing.T) {
	t.Parallel()

	if got := splitStatements(";;\n ; "); len(got) != 0 {
		t.Fatalf("expected no statements, got %#v", got)
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	t.Parallel()

	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatalf("expected at least one embedded migration")
	}
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".sql") {
			t.Fatalf("unexpected file in migrations: %s", e.Name())
		}
	}
}

func TestAttemptSortColumnWhitelist(t *testing.T) {
	t.Parallel()

	if _, ok := attemptSortColumns["attempted_at"]; !ok {
		t.Fatalf("attempted_at must be sortable")
	}
	if _, ok := attemptSortColumns["password_hash"]; ok {
		t.Fatalf("whitelist must not expose arbitrary columns")
	}
	if _, ok := attemptSortColumns["username; DROP TABLE users"]; ok {
		t.Fatalf("whitelist must reject injected input")
	}
}
