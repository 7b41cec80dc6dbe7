package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"io/fs"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(embeddedMigrations, migrationsDir)
	require.NoError(t, err)

	ups, downs := map[string]bool{}, map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}
	require.NotEmpty(t, ups)
	assert.Equal(t, ups, downs)
}

func TestSchemaDeclaresCascadesAndSoCBounds(t *testing.T) {
	raw, err := fs.ReadFile(embeddedMigrations, migrationsDir+"/000001_fleet_schema.up.sql")
	require.NoError(t, err)
	schema := string(raw)

	for _, table := range []string{"battery_pack", "telemetry", "charging_session", "trip", "alert"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Equal(t, 5, strings.Count(schema, "REFERENCES vehicle (id) ON DELETE CASCADE"))
	assert.Contains(t, schema, "vehicle_id   VARCHAR(50)      NOT NULL UNIQUE")
	assert.Contains(t, schema, "CHECK (soc >= 0 AND soc <= 100)")
}

func TestMigrateRejectsNilHandle(t *testing.T) {
	assert.Error(t, Migrate(context.Background(), nil))
}

func TestMigrateReleasesItsConnection(t *testing.T) {
	connector := &recordingConnector{}
	sqlDB := sql.OpenDB(connector)
	t.Cleanup(func() { sqlDB.Close() })
	sqlDB.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, Migrate(ctx, sqlDB))
	assert.Equal(t, 0, sqlDB.Stats().InUse)
	assert.True(t, connector.executed("CREATE TABLE IF NOT EXISTS vehicle"))

	_, err := sqlDB.ExecContext(ctx, "SELECT 1")
	require.NoError(t, err)

	require.NoError(t, Migrate(ctx, sqlDB))
	assert.Equal(t, 0, sqlDB.Stats().InUse)
}

// recordingConnector is a database/sql driver that answers the catalog
// queries the migrator issues and records every executed statement.
type recordingConnector struct {
	mu    sync.Mutex
	execs []string
}

func (c *recordingConnector) Connect(context.Context) (driver.Conn, error) {
	return &recordingConn{c: c}, nil
}

func (c *recordingConnector) Driver() driver.Driver { return recordingDriver{} }

func (c *recordingConnector) record(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.execs = append(c.execs, query)
}

func (c *recordingConnector) executed(fragment string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, q := range c.execs {
		if strings.Contains(q, fragment) {
			return true
		}
	}
	return false
}

type recordingDriver struct{}

func (recordingDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("open through the connector")
}

type recordingConn struct{ c *recordingConnector }

func (rc *recordingConn) Prepare(query string) (driver.Stmt, error) {
	return &recordingStmt{c: rc.c, query: query}, nil
}

func (rc *recordingConn) Close() error { return nil }

func (rc *recordingConn) Begin() (driver.Tx, error) { return recordingTx{}, nil }

type recordingTx struct{}

func (recordingTx) Commit() error   { return nil }
func (recordingTx) Rollback() error { return nil }

type recordingStmt struct {
	c     *recordingConnector
	query string
}

func (s *recordingStmt) Close() error  { return nil }
func (s *recordingStmt) NumInput() int { return -1 }

func (s *recordingStmt) Exec([]driver.Value) (driver.Result, error) {
	s.c.record(s.query)
	return driver.RowsAffected(0), nil
}

func (s *recordingStmt) Query([]driver.Value) (driver.Rows, error) {
	switch {
	case strings.Contains(s.query, "CURRENT_DATABASE()"):
		return &staticRows{cols: []string{"current_database"}, values: [][]driver.Value{{"fleet"}}}, nil
	case strings.Contains(s.query, "CURRENT_SCHEMA()"):
		return &staticRows{cols: []string{"current_schema"}, values: [][]driver.Value{{"public"}}}, nil
	case strings.Contains(s.query, "information_schema.tables"):
		return &staticRows{cols: []string{"count"}, values: [][]driver.Value{{int64(0)}}}, nil
	default:
		// No recorded version: every migration is pending.
		return &staticRows{cols: []string{"version", "dirty"}}, nil
	}
}

type staticRows struct {
	cols   []string
	values [][]driver.Value
}

func (r *staticRows) Columns() []string { return r.cols }
func (r *staticRows) Close() error      { return nil }

func (r *staticRows) Next(dest []driver.Value) error {
	if len(r.values) == 0 {
		return io.EOF
	}
	copy(dest, r.values[0])
	r.values = r.values[1:]
	return nil
}
