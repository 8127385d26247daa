//go:build integration

package pgeventlog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"eve.evalgo.org/db"
	"eve.evalgo.org/kgcl/eventlog"
	"eve.evalgo.org/kgcl/rdf"
)

// setupPostgresContainer starts a PostgreSQL container for testing,
// mirroring db.setupPostgresContainer's image/env/wait-strategy.
func setupPostgresContainer(t *testing.T) (string, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}
	return dsn, cleanup
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn, cleanup := setupPostgresContainer(t)
	t.Cleanup(cleanup)

	pg, err := db.NewPostgresDB(dsn)
	require.NoError(t, err, "failed to connect to PostgreSQL")
	t.Cleanup(pg.Close)

	s := New(pg)
	require.NoError(t, s.CreateTables(context.Background()))
	return s
}

func TestPgEventLog_AppendAssignsSequence(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	e1, err := s.Append(ctx, eventlog.NewEvent(eventlog.TickStart, "graph-1", map[string]interface{}{"tick": 1}))
	require.NoError(t, err)
	assert.Equal(t, int64(1), e1.Sequence)

	e2, err := s.Append(ctx, eventlog.NewEvent(eventlog.TickEnd, "graph-1", map[string]interface{}{"tick": 1}))
	require.NoError(t, err)
	assert.Equal(t, int64(2), e2.Sequence)
}

func TestPgEventLog_ReplayOrdersBySequence(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.Append(ctx, eventlog.NewEvent(eventlog.TickStart, "graph-1", map[string]interface{}{"tick": i}))
		require.NoError(t, err)
	}

	events, err := s.Replay(ctx, "graph-1")
	require.NoError(t, err)
	require.Len(t, events, 3)
	for i := 1; i < len(events); i++ {
		assert.Less(t, events[i-1].Sequence, events[i].Sequence)
	}
}

func TestPgEventLog_ReplayScopesByGraph(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Append(ctx, eventlog.NewEvent(eventlog.TickStart, "graph-a", nil))
	require.NoError(t, err)
	_, err = s.Append(ctx, eventlog.NewEvent(eventlog.TickStart, "graph-b", nil))
	require.NoError(t, err)

	events, err := s.Replay(ctx, "graph-a")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "graph-a", events[0].GraphID)
}

func TestPgEventLog_ByType(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Append(ctx, eventlog.NewEvent(eventlog.TickStart, "graph-1", nil))
	require.NoError(t, err)
	_, err = s.Append(ctx, eventlog.NewEvent(eventlog.TickEnd, "graph-1", nil))
	require.NoError(t, err)

	events, err := s.ByType(ctx, eventlog.TickEnd, 10, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, eventlog.TickEnd, events[0].EventType)
}

func TestPgEventLog_StateAtReplaysTripleEvents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t1 := rdf.Triple{Subject: rdf.IRI("http://example.org/task1"), Predicate: rdf.IRI("http://example.org/status"), Object: rdf.Literal("pending")}
	t2 := rdf.Triple{Subject: rdf.IRI("http://example.org/task1"), Predicate: rdf.IRI("http://example.org/status"), Object: rdf.Literal("active")}

	added1, err := s.Append(ctx, eventlog.NewEvent(eventlog.TripleAdded, "graph-1", eventlog.TripleAddedPayload(t1)))
	require.NoError(t, err)
	_, err = s.Append(ctx, eventlog.NewEvent(eventlog.TripleRemoved, "graph-1", eventlog.TripleRemovedPayload(t1)))
	require.NoError(t, err)
	_, err = s.Append(ctx, eventlog.NewEvent(eventlog.TripleAdded, "graph-1", eventlog.TripleAddedPayload(t2)))
	require.NoError(t, err)

	atFirst, err := s.StateAt(ctx, "graph-1", added1.Sequence)
	require.NoError(t, err)
	require.Len(t, atFirst, 1)
	assert.True(t, atFirst[0].Equal(t1))

	full, err := s.StateAt(ctx, "graph-1", -1)
	require.NoError(t, err)
	require.Len(t, full, 1)
	assert.True(t, full[0].Equal(t2))
}
