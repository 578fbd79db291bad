// Package storage provides the glossary term sources and the factory that
// selects one from configuration.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bobmcallan/glossa/internal/common"
	"github.com/bobmcallan/glossa/internal/interfaces"
	"github.com/bobmcallan/glossa/internal/models"
	"github.com/bobmcallan/glossa/internal/storage/embedded"
)

// FileSource reads the glossary from a JSON or YAML file on disk.
type FileSource struct {
	path   string
	logger *common.Logger
}

// NewFileSource creates a FileSource. The format is chosen by extension:
// .yaml and .yml are YAML, anything else is JSON.
func NewFileSource(logger *common.Logger, path string) *FileSource {
	return &FileSource{path: path, logger: logger}
}

func (s *FileSource) Name() string {
	return "file:" + s.path
}

// Path returns the file being read.
func (s *FileSource) Path() string {
	return s.path
}

func (s *FileSource) Fetch(ctx context.Context) ([]models.GlossaryTerm, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("glossary file '%s' not found", s.path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	var terms []models.GlossaryTerm
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		terms, err = decodeYAML(data)
	default:
		terms, err = embedded.Decode(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	s.logger.Debug().Str("path", s.path).Int("records", len(terms)).Msg("Glossary file read")
	return terms, nil
}

func decodeYAML(data []byte) ([]models.GlossaryTerm, error) {
	var terms []models.GlossaryTerm
	if err := yaml.Unmarshal(data, &terms); err != nil {
		return nil, fmt.Errorf("failed to decode glossary YAML: %w", err)
	}
	if terms == nil {
		return nil, fmt.Errorf("glossary YAML is not a list")
	}
	return terms, nil
}

var _ interfaces.TermSource = (*FileSource)(nil)
