//go:build integration

package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
)

var (
	sharedMongo   *MongoDBContainer
	sharedPG      *PostgresContainer
	sharedMu      sync.RWMutex
	sharedStarted bool
)

// Containers selects which shared containers SetupTestMain starts.
type Containers struct {
	Postgres bool
	Mongo    bool
}

// SetupTestMain starts the selected containers once for the package, runs
// the tests and terminates the containers.
//
//	func TestMain(m *testing.M) {
//		os.Exit(testutil.SetupTestMain(context.Background(), m, testutil.Containers{Postgres: true}))
//	}
func SetupTestMain(ctx context.Context, m *testing.M, want Containers) int {
	sharedMu.Lock()
	var err error
	if want.Postgres {
		sharedPG, err = SetupPostgres(ctx)
	}
	if err == nil && want.Mongo {
		sharedMongo, err = SetupMongoDB(ctx)
	}
	sharedStarted = true
	sharedMu.Unlock()
	if err != nil {
		cleanupShared(ctx)
		panic(err)
	}

	code := m.Run()
	cleanupShared(ctx)
	return code
}

func cleanupShared(ctx context.Context) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedPG != nil {
		if err := sharedPG.Cleanup(ctx); err != nil {
			_, _ = os.Stderr.WriteString("Warning: failed to cleanup shared Postgres container: " + err.Error() + "\n")
		}
		sharedPG = nil
	}
	if sharedMongo != nil {
		if err := sharedMongo.Cleanup(ctx); err != nil {
			_, _ = os.Stderr.WriteString("Warning: failed to cleanup shared MongoDB container: " + err.Error() + "\n")
		}
		sharedMongo = nil
	}
}

// GetSharedMongoURI returns the URI of the shared MongoDB container.
func GetSharedMongoURI() string {
	sharedMu.RLock()
	defer sharedMu.RUnlock()
	if sharedMongo == nil {
		panic("shared MongoDB container not initialized - call SetupTestMain with Mongo")
	}
	return sharedMongo.URI
}

// NewPostgresDatabase creates an empty database named after the test in the
// shared container and returns its DSN.
func NewPostgresDatabase(t *testing.T) string {
	t.Helper()

	sharedMu.RLock()
	started, pg := sharedStarted, sharedPG
	sharedMu.RUnlock()
	if !started || pg == nil {
		t.Fatal("shared Postgres container not initialized - call SetupTestMain with Postgres")
	}

	name := strings.ToLower(SanitizeDBName(t.Name()))
	admin, err := sql.Open("postgres", pg.DSN)
	if err != nil {
		t.Fatalf("open admin connection: %v", err)
	}
	defer admin.Close()

	if _, err := admin.Exec("CREATE DATABASE " + pq.QuoteIdentifier(name)); err != nil {
		t.Fatalf("create database %s: %v", name, err)
	}

	u, err := url.Parse(pg.DSN)
	if err != nil {
		t.Fatalf("parse dsn: %v", err)
	}
	u.Path = "/" + name
	return u.String()
}

// SanitizeDBName turns a test name into a database name with a unique suffix.
func SanitizeDBName(testName string) string {
	var b strings.Builder
	for _, r := range testName {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	sanitized := b.String()
	if len(sanitized) > 40 {
		sanitized = sanitized[:40]
	}
	return fmt.Sprintf("%s_%d", sanitized, time.Now().UnixNano()%1000000)
}
