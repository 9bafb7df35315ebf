package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recordingConn answers every query with an empty result and keeps the SQL.
type recordingConn struct {
	mu      sync.Mutex
	queries []string
	args    [][]driver.NamedValue
}

func (c *recordingConn) Prepare(string) (driver.Stmt, error) { return nil, driver.ErrSkip }
func (c *recordingConn) Close() error                        { return nil }
func (c *recordingConn) Begin() (driver.Tx, error)           { return nil, driver.ErrSkip }

func (c *recordingConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queries = append(c.queries, query)
	c.args = append(c.args, args)
	return emptyRows{}, nil
}

type emptyRows struct{}

func (emptyRows) Columns() []string         { return nil }
func (emptyRows) Close() error              { return nil }
func (emptyRows) Next([]driver.Value) error { return io.EOF }

type recordingConnector struct{ conn *recordingConn }

func (r recordingConnector) Connect(context.Context) (driver.Conn, error) { return r.conn, nil }
func (r recordingConnector) Driver() driver.Driver                        { return recordingDriver(r) }

type recordingDriver recordingConnector

func (r recordingDriver) Open(string) (driver.Conn, error) { return r.conn, nil }

func newRecordingDB(t *testing.T) (*gorm.DB, *recordingConn) {
	t.Helper()
	conn := &recordingConn{}
	sqlDB := sql.OpenDB(recordingConnector{conn: conn})
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}
	return db, conn
}

func TestLeadAnalyticsAppliesWindowToEveryAggregate(t *testing.T) {
	db, conn := newRecordingDB(t)
	repo := NewLeadRepository(db)
	since := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	if _, err := repo.Analytics(context.Background(), since, 5); err != nil {
		t.Fatalf("Analytics() error = %v", err)
	}

	if len(conn.queries) != 7 {
		t.Fatalf("queries = %d, want 7:\n%s", len(conn.queries), strings.Join(conn.queries, "\n"))
	}
	for i, q := range conn.queries {
		if !strings.Contains(q, "created_at >=") {
			t.Errorf("query %d is not windowed: %s", i, q)
		}

		windowed := false
		for _, arg := range conn.args[i] {
			if ts, ok := arg.Value.(time.Time); ok && ts.Equal(since) {
				windowed = true
			}
		}
		if !windowed {
			t.Errorf("query %d missing since argument: %v", i, conn.args[i])
		}
	}
}
