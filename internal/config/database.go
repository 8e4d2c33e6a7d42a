package config

import (
	"fmt"
	"net/url"
	"strings"
)

const jdbcPrefix = "jdbc:"

// ConnString returns a pgx connection string. JDBC-style URLs
// (jdbc:postgresql://host/db) are accepted; Username and Password, when set,
// replace any credentials embedded in the URL.
func (d DatabaseConfig) ConnString() (string, error) {
	raw := strings.TrimSpace(d.URL)
	if raw == "" {
		return "", fmt.Errorf("database url is empty")
	}
	raw = strings.TrimPrefix(raw, jdbcPrefix)

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse database url: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("unsupported database url scheme %q", u.Scheme)
	}

	// JDBC URLs carry credentials as query parameters.
	q := u.Query()
	user, pass := q.Get("user"), q.Get("password")
	q.Del("user")
	q.Del("password")
	u.RawQuery = q.Encode()
	if u.User != nil {
		user = u.User.Username()
		if p, ok := u.User.Password(); ok {
			pass = p
		}
	}

	if d.Username != "" {
		user = d.Username
	}
	if d.Password != "" {
		pass = d.Password
	}

	switch {
	case user != "" && pass != "":
		u.User = url.UserPassword(user, pass)
	case user != "":
		u.User = url.User(user)
	default:
		u.User = nil
	}

	return u.String(), nil
}

// Redacted returns the connection target without the password.
func (d DatabaseConfig) Redacted() string {
	s, err := d.ConnString()
	if err != nil {
		return "<invalid>"
	}
	u, err := url.Parse(s)
	if err != nil {
		return "<invalid>"
	}
	return u.Redacted()
}
