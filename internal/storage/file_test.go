package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/glossa/internal/common"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFileSource_JSON(t *testing.T) {
	path := writeFile(t, "glossary.json", `[
		{"id": 1, "name": "DeFi", "definition": "Decentralized finance", "category": "Finance"},
		{"id": "2", "term": "Gas", "definition": "Fee", "related": ["EVM"]}
	]`)
	src := NewFileSource(common.NewSilentLogger(), path)

	terms, err := src.Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, terms, 2)
	assert.Equal(t, "1", string(terms[0].ID))
	assert.Equal(t, "Finance", terms[0].Category)
	assert.Equal(t, "Gas", terms[1].Name)
	assert.Equal(t, []string{"EVM"}, terms[1].Related)
	assert.Equal(t, "file:"+path, src.Name())
}

func TestFileSource_YAML(t *testing.T) {
	path := writeFile(t, "glossary.yaml", `
- id: 1
  name: DAO
  definition: Decentralized autonomous organisation
  category: Governance
  related: [Proposal, Governance Token]
- id: two
  term: Proposal
  definition: ""
`)
	terms, err := NewFileSource(common.NewSilentLogger(), path).Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, terms, 2)
	assert.Equal(t, "1", string(terms[0].ID))
	assert.Equal(t, []string{"Proposal", "Governance Token"}, terms[0].Related)
	assert.Equal(t, "two", string(terms[1].ID))
	assert.Equal(t, "Proposal", terms[1].Name)
	assert.Equal(t, "", terms[1].Definition)
}

func TestFileSource_Errors(t *testing.T) {
	logger := common.NewSilentLogger()
	ctx := context.Background()

	_, err := NewFileSource(logger, filepath.Join(t.TempDir(), "missing.json")).Fetch(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = NewFileSource(logger, writeFile(t, "bad.json", `{"not": "a list"}`)).Fetch(ctx)
	assert.Error(t, err)

	_, err = NewFileSource(logger, writeFile(t, "bad.yml", "key: value\n")).Fetch(ctx)
	assert.Error(t, err)
}
