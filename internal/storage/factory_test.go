package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/glossa/internal/common"
)

func TestNewTermSource(t *testing.T) {
	logger := common.NewSilentLogger()
	ctx := context.Background()

	tests := []struct {
		name     string
		mutate   func(*common.Config)
		wantName string
		wantErr  bool
	}{
		{name: "default", mutate: func(c *common.Config) { c.Glossary.Source = "" }, wantName: "embedded"},
		{name: "embedded", mutate: func(c *common.Config) {}, wantName: "embedded"},
		{name: "file", mutate: func(c *common.Config) {
			c.Glossary.Source = SourceFile
			c.Glossary.Path = "data/glossary.yaml"
		}, wantName: "file:data/glossary.yaml"},
		{name: "file without path", mutate: func(c *common.Config) {
			c.Glossary.Source = SourceFile
			c.Glossary.Path = ""
		}, wantErr: true},
		{name: "http", mutate: func(c *common.Config) {
			c.Glossary.Source = SourceHTTP
			c.Glossary.URL = "https://example.com/data/glossary.json"
		}, wantName: "http:https://example.com/data/glossary.json"},
		{name: "http without url", mutate: func(c *common.Config) { c.Glossary.Source = SourceHTTP }, wantErr: true},
		{name: "unknown", mutate: func(c *common.Config) { c.Glossary.Source = "s3" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := common.NewDefaultConfig()
			tt.mutate(cfg)

			src, err := NewTermSource(ctx, logger, cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, src.Name())
			assert.NoError(t, CloseSource(src))
		})
	}
}
