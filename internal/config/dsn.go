package config

import (
	"net"
	"net/url"
	"strconv"
)

// AppName is reported to SQL Server in the login packet.
const AppName = "stock-overview"

// DSN returns the go-mssqldb connection URL for this configuration.
// A named instance is encoded as the URL path, a port as part of the host.
func (c ConnectionConfig) DSN() string {
	host := c.Server
	if c.Port > 0 {
		host = net.JoinHostPort(c.Server, strconv.Itoa(c.Port))
	}

	query := url.Values{}
	query.Set("database", c.Database)
	query.Set("encrypt", strconv.FormatBool(c.Encrypt))
	query.Set("TrustServerCertificate", strconv.FormatBool(c.TrustServerCertificate))
	query.Set("app name", AppName)
	if c.ConnectTimeout > 0 {
		query.Set("connection timeout", strconv.Itoa(int(c.ConnectTimeout.Seconds())))
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(c.User, c.Password),
		Host:     host,
		RawQuery: query.Encode(),
	}
	if c.InstanceName != "" {
		u.Path = "/" + c.InstanceName
	}
	return u.String()
}

// Addr returns a printable server address without credentials.
func (c ConnectionConfig) Addr() string {
	switch {
	case c.Port > 0:
		return net.JoinHostPort(c.Server, strconv.Itoa(c.Port))
	case c.InstanceName != "":
		return c.Server + `\` + c.InstanceName
	default:
		return c.Server
	}
}

// Summary is the credential-free view of the connection reported by the
// health endpoint. Absent port or instance render as JSON null.
type Summary struct {
	Server       string  `json:"server"`
	Port         *int    `json:"port"`
	InstanceName *string `json:"instanceName"`
	Database     string  `json:"database"`
}

// Summary returns the credential-free view of c.
func (c ConnectionConfig) Summary() Summary {
	s := Summary{
		Server:   c.Server,
		Database: c.Database,
	}
	if c.Port > 0 {
		port := c.Port
		s.Port = &port
	}
	if c.InstanceName != "" {
		instance := c.InstanceName
		s.InstanceName = &instance
	}
	return s
}
