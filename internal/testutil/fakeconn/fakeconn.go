// Package fakeconn provides a scripted in-memory query.Connection for tests.
package fakeconn

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/moyeah/diesel/pkg/sqlerr"
	"github.com/moyeah/diesel/pkg/sqltypes"
)

// Call records one Execute invocation.
type Call struct {
	Query string
	Args  []any
}

type response struct {
	rows []sqltypes.Row
	err  error
}

// Conn answers scripted queries. Queries that were not scripted fail with a
// syntax error, as a database would reject text it cannot parse.
type Conn struct {
	mu        sync.Mutex
	responses map[string][]response
	calls     []Call
	closed    bool
}

// New creates an empty Conn.
func New() *Conn {
	return &Conn{responses: make(map[string][]response)}
}

// On scripts the rows returned for query. Scripting the same query again
// queues another response; the last one is repeated once the queue drains.
func (c *Conn) On(query string, rows ...sqltypes.Row) *Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses[query] = append(c.responses[query], response{rows: rows})
	return c
}

// OnError scripts a connection error of the given kind for query.
func (c *Conn) OnError(query string, kind sqlerr.ConnectionKind, msg string) *Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := sqlerr.NewConnectionError(kind, query, errors.New(msg))
	c.responses[query] = append(c.responses[query], response{err: err})
	return c
}

// Execute implements query.Connection.
func (c *Conn) Execute(ctx context.Context, query string, args ...any) ([]sqltypes.Row, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = append(c.calls, Call{Query: query, Args: slices.Clone(args)})

	if err := ctx.Err(); err != nil {
		return nil, sqlerr.NewConnectionError(sqlerr.Unavailable, query, err)
	}
	if c.closed {
		return nil, sqlerr.NewConnectionError(sqlerr.Unavailable, query, errors.New("connection closed"))
	}

	queue, ok := c.responses[query]
	if !ok || len(queue) == 0 {
		return nil, sqlerr.NewConnectionError(sqlerr.Syntax, query, fmt.Errorf("unrecognized statement %q", query))
	}

	resp := queue[0]
	if len(queue) > 1 {
		c.responses[query] = queue[1:]
	}
	if resp.err != nil {
		return nil, resp.err
	}
	return slices.Clone(resp.rows), nil
}

// Close marks the connection closed; later calls fail as unavailable.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Calls returns the recorded invocations in order.
func (c *Conn) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.calls)
}

// Closed reports whether Close was called.
func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
