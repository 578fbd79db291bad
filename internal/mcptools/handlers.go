package mcptools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/glossa/internal/common"
	"github.com/bobmcallan/glossa/internal/glossary"
	"github.com/bobmcallan/glossa/internal/interfaces"
	"github.com/bobmcallan/glossa/internal/models"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// handleGetVersion implements the get_version tool
func handleGetVersion() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		v := common.GetVersionInfo()
		result := fmt.Sprintf("Glossa MCP Server\nVersion: %s\nBuild: %s\nCommit: %s\nStatus: OK",
			v.Version, v.Build, v.Commit)
		return textResult(result), nil
	}
}

// handleGlossarySearch implements the glossary_search tool
func handleGlossarySearch(svc interfaces.GlossaryService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		facets := models.Facets{
			Query:    request.GetString("query", ""),
			Category: request.GetString("category", ""),
			Letter:   request.GetString("letter", ""),
		}
		limit := request.GetInt("limit", defaultSearchLimit)
		if limit <= 0 {
			limit = defaultSearchLimit
		}
		if limit > maxSearchLimit {
			limit = maxSearchLimit
		}

		page, err := svc.Directory(ctx, facets, 0, limit)
		if err != nil {
			if errors.Is(err, glossary.ErrInvalidFacet) {
				return errorResult(fmt.Sprintf("Error: %v", err)), nil
			}
			logger.Error().Err(err).Str("query", facets.Query).Msg("Glossary search failed")
			return errorResult(fmt.Sprintf("Search error: %v", err)), nil
		}

		return textResult(formatDirectoryPage(page)), nil
	}
}

// handleGlossaryTerm implements the glossary_term tool
func handleGlossaryTerm(svc interfaces.GlossaryService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil || name == "" {
			return errorResult("Error: name parameter is required"), nil
		}

		// Accept a plain name as well as a slug. The name is tried first.
		detail, err := svc.Term(ctx, glossary.Slug(name))
		if errors.Is(err, glossary.ErrNotFound) {
			detail, err = svc.Term(ctx, name)
		}
		if err != nil {
			if errors.Is(err, glossary.ErrNotFound) {
				return errorResult(fmt.Sprintf("Term not found: %s. Use glossary_search to browse the directory.", name)), nil
			}
			logger.Error().Err(err).Str("name", name).Msg("Glossary term lookup failed")
			return errorResult(fmt.Sprintf("Lookup error: %v", err)), nil
		}

		return textResult(formatTermDetail(detail)), nil
	}
}

// handleGlossaryCategories implements the glossary_categories tool
func handleGlossaryCategories(svc interfaces.GlossaryService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		categories, err := svc.Categories(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Glossary categories failed")
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		letters, err := svc.Letters(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Glossary letters failed")
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return textResult(formatFacets(categories, letters)), nil
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}
