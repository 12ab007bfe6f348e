package iocache

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/huangsam/githeat/schema"
)

var tableNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// validateTableName validates that the table name is a safe SQL identifier.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !tableNameRe.MatchString(name) {
		return fmt.Errorf("invalid table name: %s (must match pattern %s)", name, tableNameRe.String())
	}
	return nil
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("%q", name)
	}
}

// bindVar returns the i-th (1-based) bind variable for the backend.
func bindVar(i int, backend schema.DatabaseBackend) string {
	if backend == schema.PostgreSQLBackend {
		return "$" + strconv.Itoa(i)
	}
	return "?"
}

// placeholders returns n comma-separated bind variables for the backend.
func placeholders(n int, backend schema.DatabaseBackend) string {
	vars := make([]string, n)
	for i := range vars {
		vars[i] = bindVar(i+1, backend)
	}
	return strings.Join(vars, ", ")
}
