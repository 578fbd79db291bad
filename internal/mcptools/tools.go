// Package mcptools exposes glossary lookups as MCP tools.
package mcptools

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/glossa/internal/common"
	"github.com/bobmcallan/glossa/internal/interfaces"
)

// Register adds every glossary tool to s.
func Register(s *server.MCPServer, svc interfaces.GlossaryService, logger *common.Logger) {
	s.AddTool(createGetVersionTool(), handleGetVersion())
	s.AddTool(createGlossarySearchTool(), handleGlossarySearch(svc, logger))
	s.AddTool(createGlossaryTermTool(), handleGlossaryTerm(svc, logger))
	s.AddTool(createGlossaryCategoriesTool(), handleGlossaryCategories(svc, logger))
}

// createGetVersionTool returns the get_version tool definition
func createGetVersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the Glossa server version and status. Use this to verify connectivity."),
	)
}

// createGlossarySearchTool returns the glossary_search tool definition
func createGlossarySearchTool() mcp.Tool {
	return mcp.NewTool("glossary_search",
		mcp.WithDescription("Search the glossary. Matching is approximate and tolerates typos; results are ranked best first. Category and letter narrow the list before matching. With no query, terms are listed in glossary order."),
		mcp.WithString("query",
			mcp.Description("Free text to match against term names and definitions (e.g., 'blokchain', 'yield')"),
		),
		mcp.WithString("category",
			mcp.Description("Exact category name (e.g., 'Finance', 'Technology'). Use glossary_categories to list them."),
		),
		mcp.WithString("letter",
			mcp.Description("Single starting letter of the term name (case-insensitive)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum results to return (default: 10, max: 50)"),
		),
	)
}

// createGlossaryTermTool returns the glossary_term tool definition
func createGlossaryTermTool() mcp.Tool {
	return mcp.NewTool("glossary_term",
		mcp.WithDescription("Get the full definition of one glossary term, with its related terms."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Term name or URL slug (e.g., 'Smart Contract' or 'Smart%20Contract'). Case-insensitive exact match."),
		),
	)
}

// createGlossaryCategoriesTool returns the glossary_categories tool definition
func createGlossaryCategoriesTool() mcp.Tool {
	return mcp.NewTool("glossary_categories",
		mcp.WithDescription("List glossary categories and starting letters with term counts."),
	)
}
