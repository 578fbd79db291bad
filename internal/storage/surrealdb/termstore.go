// Package surrealdb stores glossary terms in SurrealDB.
package surrealdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/glossa/internal/common"
	"github.com/bobmcallan/glossa/internal/interfaces"
	"github.com/bobmcallan/glossa/internal/models"
)

const termTable = "glossary_term"

// termSelectFields aliases term_id to id for struct mapping.
const termSelectFields = "term_id AS id, name, definition, category, related, position"

// termRecord is the stored shape of a glossary term. Position preserves
// the authored order, which deduplication depends on.
type termRecord struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Definition string   `json:"definition"`
	Category   string   `json:"category"`
	Related    []string `json:"related"`
	Position   int      `json:"position"`
}

// TermStore implements interfaces.TermStore using SurrealDB.
type TermStore struct {
	db     *surrealdb.DB
	logger *common.Logger
	owned  bool
}

// NewTermStore connects to SurrealDB, signs in, selects the namespace and
// database and makes sure the term table exists.
func NewTermStore(ctx context.Context, logger *common.Logger, config *common.StorageConfig) (*TermStore, error) {
	db, err := surrealdb.New(config.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": config.Username,
		"pass": config.Password,
	}); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	if err := db.Use(ctx, config.Namespace, config.Database); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	s, err := NewTermStoreWithDB(ctx, db, logger)
	if err != nil {
		db.Close(ctx)
		return nil, err
	}
	s.owned = true

	logger.Info().
		Str("address", config.Address).
		Str("namespace", config.Namespace).
		Str("database", config.Database).
		Msg("SurrealDB term store initialized")

	return s, nil
}

// NewTermStoreWithDB wraps an open connection. Close leaves the connection
// open.
func NewTermStoreWithDB(ctx context.Context, db *surrealdb.DB, logger *common.Logger) (*TermStore, error) {
	// SurrealDB v3 errors on querying non-existent tables
	sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", termTable)
	if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
		return nil, fmt.Errorf("failed to define table %s: %w", termTable, err)
	}
	return &TermStore{db: db, logger: logger}, nil
}

func (s *TermStore) Name() string {
	return "surrealdb"
}

func (s *TermStore) Fetch(ctx context.Context) ([]models.GlossaryTerm, error) {
	sql := "SELECT " + termSelectFields + " FROM " + termTable + " ORDER BY position ASC"

	results, err := surrealdb.Query[[]termRecord](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list glossary terms: %w", err)
	}

	terms := make([]models.GlossaryTerm, 0)
	if results == nil || len(*results) == 0 {
		return terms, nil
	}
	for _, r := range (*results)[0].Result {
		terms = append(terms, models.GlossaryTerm{
			ID:         models.TermID(r.ID),
			Name:       r.Name,
			Definition: r.Definition,
			Category:   r.Category,
			Related:    r.Related,
		})
	}
	return terms, nil
}

// Seed replaces the table contents with terms in a single transaction, so a
// failure leaves the previous contents in place.
func (s *TermStore) Seed(ctx context.Context, terms []models.GlossaryTerm) (int, error) {
	sql, vars := seedQuery(terms)
	results, err := surrealdb.Query[any](ctx, s.db, sql, vars)
	if err != nil {
		return 0, fmt.Errorf("failed to seed glossary terms: %w", err)
	}
	if results != nil {
		for _, r := range *results {
			if r.Status != "" && r.Status != "OK" {
				return 0, fmt.Errorf("failed to seed glossary terms: statement status %s", r.Status)
			}
		}
	}

	s.logger.Info().Int("terms", len(terms)).Msg("Glossary terms seeded")
	return len(terms), nil
}

// seedQuery builds the transaction that clears the table and upserts every
// term at its position. Each term gets its own indexed variables.
func seedQuery(terms []models.GlossaryTerm) (string, map[string]any) {
	var b strings.Builder
	b.WriteString("BEGIN TRANSACTION;\n")
	b.WriteString("DELETE " + termTable + ";\n")

	vars := make(map[string]any, len(terms)*6)
	for i, t := range terms {
		related := t.Related
		if related == nil {
			related = []string{}
		}
		fmt.Fprintf(&b, "UPSERT $rid%[1]d SET term_id = $term_id%[1]d, name = $name%[1]d, "+
			"definition = $definition%[1]d, category = $category%[1]d, related = $related%[1]d, position = %[1]d;\n", i)
		vars[fmt.Sprintf("rid%d", i)] = surrealmodels.NewRecordID(termTable, fmt.Sprintf("p%06d", i))
		vars[fmt.Sprintf("term_id%d", i)] = string(t.ID)
		vars[fmt.Sprintf("name%d", i)] = t.Name
		vars[fmt.Sprintf("definition%d", i)] = t.Definition
		vars[fmt.Sprintf("category%d", i)] = t.Category
		vars[fmt.Sprintf("related%d", i)] = related
	}

	b.WriteString("COMMIT TRANSACTION;")
	return b.String(), vars
}

func (s *TermStore) Count(ctx context.Context) (int, error) {
	type countResult struct {
		Cnt int `json:"cnt"`
	}
	sql := "SELECT count() AS cnt FROM " + termTable + " GROUP ALL"
	results, err := surrealdb.Query[[]countResult](ctx, s.db, sql, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count glossary terms: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return 0, nil
	}
	return (*results)[0].Result[0].Cnt, nil
}

// Close closes the connection if the store opened it.
func (s *TermStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close(context.Background())
}

var _ interfaces.TermStore = (*TermStore)(nil)
