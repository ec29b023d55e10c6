package database

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	drv "github.com/go-sql-driver/mysql"
)

// mysqlDSN accepts either a native driver DSN (user:pass@tcp(host)/db) or a
// JDBC style URL (jdbc:mysql://host/db?useSSL=false...) and returns a native
// DSN. Non-empty user/pass override whatever the input carries.
func mysqlDSN(in, user, pass string) (string, error) {
	in = strings.TrimPrefix(strings.TrimSpace(in), "jdbc:")
	var (
		cfg *drv.Config
		err error
	)
	if strings.HasPrefix(in, "mysql://") {
		cfg, err = fromURL(in)
	} else {
		cfg, err = drv.ParseDSN(in)
	}
	if err != nil {
		return "", fmt.Errorf("mysql dsn: %w", err)
	}
	if user != "" {
		cfg.User = user
	}
	if pass != "" {
		cfg.Passwd = pass
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

func fromURL(raw string) (*drv.Config, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	cfg := drv.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}

	q := u.Query()
	if v := q.Get("user"); v != "" {
		cfg.User = v
	}
	if v := q.Get("password"); v != "" {
		cfg.Passwd = v
	}
	// JDBC 参数翻译成驱动参数
	if v := q.Get("useSSL"); v != "" {
		switch strings.ToLower(v) {
		case "true", "1":
			cfg.TLSConfig = "true"
		case "skip-verify", "preferred":
			cfg.TLSConfig = strings.ToLower(v)
		default:
			cfg.TLSConfig = "false"
		}
	}
	if tz := q.Get("serverTimezone"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("serverTimezone: %w", err)
		}
		cfg.Loc = loc
	}
	charset := q.Get("charset")
	if charset == "" {
		charset = q.Get("characterEncoding")
	}
	if charset == "" {
		charset = "utf8mb4"
	}
	cfg.Params = map[string]string{"charset": charset}
	return cfg, nil
}

// maskDSN hides the password for logging.
func maskDSN(dsn string) string {
	cfg, err := drv.ParseDSN(dsn)
	if err != nil {
		return "<invalid dsn>"
	}
	if cfg.Passwd != "" {
		cfg.Passwd = "****"
	}
	return cfg.FormatDSN()
}
