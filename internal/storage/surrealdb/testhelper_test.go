package surrealdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	surreal "github.com/surrealdb/surrealdb.go"

	"github.com/bobmcallan/glossa/internal/common"
	tcommon "github.com/bobmcallan/glossa/tests/common"
)

// testStore opens a TermStore on a fresh database through the same path
// the application uses.
func testStore(t *testing.T) *TermStore {
	t.Helper()

	cfg := tcommon.StartSurrealDB(t).StorageConfig(t)
	store, err := NewTermStore(context.Background(), testLogger(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// testDB returns a raw connection to a fresh database.
func testDB(t *testing.T) *surreal.DB {
	t.Helper()

	cfg := tcommon.StartSurrealDB(t).StorageConfig(t)
	ctx := context.Background()

	db, err := surreal.New(cfg.Address)
	require.NoError(t, err, "connect to SurrealDB")

	_, err = db.SignIn(ctx, map[string]interface{}{"user": cfg.Username, "pass": cfg.Password})
	require.NoError(t, err, "sign in to SurrealDB")
	require.NoError(t, db.Use(ctx, cfg.Namespace, cfg.Database))

	t.Cleanup(func() { db.Close(context.Background()) })
	return db
}

func testLogger() *common.Logger {
	return common.NewSilentLogger()
}
