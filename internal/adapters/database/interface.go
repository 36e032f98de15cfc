// Package database defines database adapter interfaces.
package database

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/moyeah/diesel/pkg/query"
	"github.com/moyeah/diesel/pkg/sqlerr"
)

// Adapter is a single database session usable by the query core.
type Adapter interface {
	query.Connection

	// Ping checks the session is alive.
	Ping(ctx context.Context) error

	// Close releases the session.
	Close() error

	// Dialect returns the SQL dialect.
	Dialect() SQLDialect
}

// SQLDialect represents a SQL dialect.
type SQLDialect string

const (
	// PostgreSQL dialect.
	PostgreSQL SQLDialect = "postgres"
	// MySQL dialect.
	MySQL SQLDialect = "mysql"
	// SQLite dialect.
	SQLite SQLDialect = "sqlite"
)

// Provider describes one database: the driver to open it with, how to set
// up a new session, and how to classify the driver's errors.
type Provider interface {
	// Dialect returns the SQL dialect.
	Dialect() SQLDialect

	// DriverName is the database/sql driver name.
	DriverName() string

	// InitSession runs once on every newly pinned session.
	InitSession(ctx context.Context, conn *sqlx.Conn) error

	// Classify maps a driver error to a connection error kind. It returns
	// false for errors it does not recognize.
	Classify(err error) (sqlerr.ConnectionKind, bool)
}

// Config holds database connection configuration.
type Config struct {
	Provider       string
	URL            string
	ConnectTimeout time.Duration
}

var (
	providersMu sync.RWMutex
	providers   = make(map[string]Provider)
)

// Register makes a provider available under the given names. It is called
// from the init function of each provider package and panics on duplicate
// names, like sql.Register.
func Register(p Provider, names ...string) {
	providersMu.Lock()
	defer providersMu.Unlock()

	for _, name := range names {
		key := strings.ToLower(name)
		if _, dup := providers[key]; dup {
			panic("database: Register called twice for provider " + name)
		}
		providers[key] = p
	}
}

// Lookup returns the provider registered under name.
func Lookup(name string) (Provider, error) {
	providersMu.RLock()
	defer providersMu.RUnlock()

	p, ok := providers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unsupported provider %q (registered: %s)", name, strings.Join(providerNames(), ", "))
	}
	return p, nil
}

// Providers returns the registered provider names, sorted.
func Providers() []string {
	providersMu.RLock()
	defer providersMu.RUnlock()
	return providerNames()
}

func providerNames() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
