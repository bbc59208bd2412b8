package config

import (
	"net"
	"strconv"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
)

// MySQLDSN returns the explicit DSN, or one assembled from the discrete fields.
func (c DatabaseConfig) MySQLDSN() string {
	if v := strings.TrimSpace(c.DSN); v != "" {
		return v
	}

	host := strings.TrimSpace(c.Host)
	if host == "" {
		host = defaultDBHost
	}
	port := c.Port
	if port == 0 {
		port = defaultDBPort
	}
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = defaultDBName
	}

	mc := mysqldriver.NewConfig()
	mc.User = strings.TrimSpace(c.User)
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	mc.DBName = name
	mc.ParseTime = true
	mc.Loc = time.Local
	mc.Params = map[string]string{"charset": defaultDBCharset}
	for k, v := range c.Params {
		if v != "" {
			mc.Params[k] = v
		}
	}
	return mc.FormatDSN()
}

// SQLitePath resolves the sqlite file; ":memory:" and "file:" URIs pass through.
func (c DatabaseConfig) SQLitePath() string {
	p := strings.TrimSpace(c.Path)
	if p == ":memory:" || strings.HasPrefix(p, "file:") {
		return p
	}
	return ResolveRuntimePath(p, defaultDBPath)
}
