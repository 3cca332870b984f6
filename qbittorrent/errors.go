package qbittorrent

import (
	"errors"
	"fmt"
)

// Common errors returned by the qBittorrent client.
var (
	// ErrMissingHostname is returned when no hostname is configured.
	ErrMissingHostname = errors.New("hostname is required")

	// ErrMissingUsername is returned when no username is configured.
	ErrMissingUsername = errors.New("username is required")

	// ErrTorrentNotFound is returned when a torrent is not found.
	ErrTorrentNotFound = errors.New("torrent not found")
)

// ErrorKind classifies authentication failures.
type ErrorKind int

const (
	// KindConnection covers unreachable hosts and protocol errors.
	KindConnection ErrorKind = iota
	// KindCredentials covers rejected logins.
	KindCredentials
)

func (k ErrorKind) String() string {
	switch k {
	case KindCredentials:
		return "credentials"
	default:
		return "connection"
	}
}

// AuthenticationError is returned when a session cannot be established.
type AuthenticationError struct {
	Host     string
	Port     int
	Username string
	Kind     ErrorKind
	Err      error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("could not connect to '%s' at port '%d' as user '%s' (%s error): %v",
		e.Host, e.Port, e.Username, e.Kind, e.Err)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// QueryError wraps a failed query or command issued over an established session.
type QueryError struct {
	Op   string
	Hash string
	Err  error
}

func (e *QueryError) Error() string {
	if e.Hash == "" {
		return fmt.Sprintf("qbittorrent %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("qbittorrent %s failed for %s: %v", e.Op, e.Hash, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
