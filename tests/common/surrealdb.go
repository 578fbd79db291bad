// Package common holds container fixtures shared by integration tests.
package common

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	appcommon "github.com/bobmcallan/glossa/internal/common"
)

const (
	surrealImage     = "surrealdb/surrealdb:v3.0.0"
	surrealUser      = "root"
	surrealPass      = "root"
	surrealNamespace = "glossa_test"
)

var (
	surrealOnce sync.Once
	surrealDB   *SurrealDB
	surrealErr  error
	dbSeq       atomic.Int64
)

// SurrealDB is a SurrealDB server running in a container, shared by every
// test in the process.
type SurrealDB struct {
	container testcontainers.Container
	address   string
}

// DockerEnabled reports whether container-backed tests should run.
func DockerEnabled() bool {
	return os.Getenv("GLOSSA_TEST_DOCKER") == "true"
}

// StartSurrealDB returns the shared container, starting it on first use.
// The test is skipped unless GLOSSA_TEST_DOCKER=true.
func StartSurrealDB(t *testing.T) *SurrealDB {
	t.Helper()

	if !DockerEnabled() {
		t.Skip("set GLOSSA_TEST_DOCKER=true to run SurrealDB tests")
	}

	surrealOnce.Do(func() {
		surrealDB, surrealErr = startSurrealDB(context.Background())
	})
	if surrealErr != nil {
		t.Fatalf("SurrealDB container failed: %v", surrealErr)
	}
	return surrealDB
}

func startSurrealDB(ctx context.Context) (*SurrealDB, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        surrealImage,
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"start", "--user", surrealUser, "--pass", surrealPass},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("8000/tcp"),
				wait.ForLog("Started web server"),
			).WithDeadline(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start SurrealDB container: %w", err)
	}

	endpoint, err := container.PortEndpoint(ctx, "8000/tcp", "ws")
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("resolve SurrealDB endpoint: %w", err)
	}

	return &SurrealDB{container: container, address: endpoint + "/rpc"}, nil
}

// Address returns the WebSocket RPC address.
func (s *SurrealDB) Address() string {
	return s.address
}

// StorageConfig returns a [storage] section pointing at a database no other
// test uses.
func (s *SurrealDB) StorageConfig(t *testing.T) *appcommon.StorageConfig {
	t.Helper()
	// SurrealDB rejects "/" in database names, which subtests produce.
	name := strings.NewReplacer("/", "_", " ", "_", "-", "_").Replace(t.Name())
	return &appcommon.StorageConfig{
		Address:   s.address,
		Username:  surrealUser,
		Password:  surrealPass,
		Namespace: surrealNamespace,
		Database:  fmt.Sprintf("t_%s_%d", name, dbSeq.Add(1)),
	}
}

// Cleanup terminates the container. Call from TestMain if needed.
func (s *SurrealDB) Cleanup() {
	if s != nil && s.container != nil {
		s.container.Terminate(context.Background())
	}
}
