package store

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect describes the differences between the supported databases.
type Dialect struct {
	// Name is the name the dialect is selected by.
	Name string
	// DriverName is the database/sql driver the dialect opens connections with.
	DriverName string
	// Returning reports whether INSERT and UPDATE support a RETURNING clause.
	Returning bool
	// numbered placeholders ($1, $2) instead of ?
	numbered bool
}

var (
	Postgres = Dialect{Name: "postgres", DriverName: "pgx", Returning: true, numbered: true}
	MySQL    = Dialect{Name: "mysql", DriverName: "mysql"}
	SQLite   = Dialect{Name: "sqlite", DriverName: "sqlite", Returning: true}
)

// Placeholder returns the bind parameter for the n-th argument, counted from 1.
func (d Dialect) Placeholder(n int) string {
	if d.numbered {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// ResolveDialect picks the dialect for a connection string and returns the
// data source name in the form the driver expects. An empty driver is
// inferred from the scheme of the connection string.
func ResolveDialect(driver, databaseURL string) (Dialect, string, error) {
	if databaseURL == "" {
		return Dialect{}, "", fmt.Errorf("database url is empty")
	}
	if driver == "" {
		driver = schemeOf(databaseURL)
	}
	switch strings.ToLower(driver) {
	case "postgres", "postgresql", "pgx":
		return Postgres, databaseURL, nil
	case "mysql":
		dsn, err := mysqlDSN(databaseURL)
		if err != nil {
			return Dialect{}, "", err
		}
		return MySQL, dsn, nil
	case "sqlite", "sqlite3", "file":
		return SQLite, strings.TrimPrefix(databaseURL, "sqlite://"), nil
	case "":
		return Dialect{}, "", fmt.Errorf("cannot infer database driver from url, set the driver explicitly")
	default:
		return Dialect{}, "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

func schemeOf(databaseURL string) string {
	scheme, _, found := strings.Cut(databaseURL, ":")
	if !found {
		return ""
	}
	return scheme
}

// mysqlDSN converts a mysql:// URL into the go-sql-driver DSN format.
// Anything else is assumed to already be a DSN.
func mysqlDSN(databaseURL string) (string, error) {
	if !strings.HasPrefix(databaseURL, "mysql://") {
		if _, err := mysql.ParseDSN(databaseURL); err != nil {
			return "", fmt.Errorf("invalid mysql dsn: %w", err)
		}
		return databaseURL, nil
	}
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid mysql url: %w", err)
	}
	cfg := mysql.NewConfig()
	cfg.User = u.User.Username()
	cfg.Passwd, _ = u.User.Password()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	cfg.AllowNativePasswords = true
	for key, values := range u.Query() {
		if len(values) == 0 {
			continue
		}
		if cfg.Params == nil {
			cfg.Params = map[string]string{}
		}
		cfg.Params[key] = values[0]
	}
	return cfg.FormatDSN(), nil
}
