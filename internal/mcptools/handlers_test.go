package mcptools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/glossa/internal/common"
	core "github.com/bobmcallan/glossa/internal/glossary"
	"github.com/bobmcallan/glossa/internal/models"
	glossarysvc "github.com/bobmcallan/glossa/internal/services/glossary"
	"github.com/bobmcallan/glossa/internal/storage/embedded"
)

func newTestService() *glossarysvc.Service {
	return glossarysvc.NewService(embedded.NewSource(), core.NewMatcher(core.DefaultMatcherOptions()), common.NewSilentLogger())
}

func callTool(t *testing.T, handler server.ToolHandlerFunc, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args
	result, err := handler(context.Background(), request)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return result
}

func resultText(result *mcp.CallToolResult) string {
	return result.Content[0].(mcp.TextContent).Text
}

func TestHandleGlossarySearch_Typo(t *testing.T) {
	handler := handleGlossarySearch(newTestService(), common.NewSilentLogger())

	result := callTool(t, handler, map[string]interface{}{"query": "blokchain", "limit": float64(3)})

	if result.IsError {
		t.Fatalf("Expected success, got error: %s", resultText(result))
	}
	text := resultText(result)
	if !strings.Contains(text, "**Blockchain**") {
		t.Errorf("Result should list Blockchain, got:\n%s", text)
	}
	if !strings.Contains(text, `# Glossary: "blokchain"`) {
		t.Errorf("Result should echo the query, got:\n%s", text)
	}
}

func TestHandleGlossarySearch_FacetsOnly(t *testing.T) {
	handler := handleGlossarySearch(newTestService(), common.NewSilentLogger())

	result := callTool(t, handler, map[string]interface{}{"category": "Governance", "letter": "d"})

	text := resultText(result)
	if !strings.Contains(text, "Showing 1 of 1 terms.") {
		t.Errorf("Expected one Governance term starting with D, got:\n%s", text)
	}
	if !strings.Contains(text, "**DAO**") {
		t.Errorf("Expected DAO, got:\n%s", text)
	}
}

func TestHandleGlossarySearch_NoMatches(t *testing.T) {
	handler := handleGlossarySearch(newTestService(), common.NewSilentLogger())

	result := callTool(t, handler, map[string]interface{}{"query": "zzzzqqq"})

	if result.IsError {
		t.Fatal("An empty result is not an error")
	}
	if !strings.Contains(resultText(result), "No terms match") {
		t.Errorf("Expected no-match message, got:\n%s", resultText(result))
	}
}

func TestHandleGlossarySearch_InvalidLetter(t *testing.T) {
	handler := handleGlossarySearch(newTestService(), common.NewSilentLogger())

	result := callTool(t, handler, map[string]interface{}{"letter": "ab"})

	if !result.IsError {
		t.Fatal("Expected an error for a two-character letter")
	}
}

func TestHandleGlossaryTerm(t *testing.T) {
	handler := handleGlossaryTerm(newTestService(), common.NewSilentLogger())

	for _, name := range []string{"Smart Contract", "smart contract", "Smart%20Contract"} {
		result := callTool(t, handler, map[string]interface{}{"name": name})
		if result.IsError {
			t.Fatalf("%q: expected success, got %s", name, resultText(result))
		}
		text := resultText(result)
		if !strings.HasPrefix(text, "# Smart Contract\n") {
			t.Errorf("%q: unexpected heading:\n%s", name, text)
		}
		if !strings.Contains(text, "## Related") || !strings.Contains(text, "- Solidity (`Solidity`)") {
			t.Errorf("%q: expected related terms, got:\n%s", name, text)
		}
	}
}

type staticSource []models.GlossaryTerm

func (s staticSource) Name() string { return "static" }

func (s staticSource) Fetch(ctx context.Context) ([]models.GlossaryTerm, error) {
	return append([]models.GlossaryTerm(nil), s...), nil
}

func TestHandleGlossaryTerm_NameWithPercentEncoding(t *testing.T) {
	src := staticSource{
		{ID: "1", Name: "Top Tier", Definition: "Decoded"},
		{ID: "2", Name: "Top%20Tier", Definition: "Literal"},
	}
	svc := glossarysvc.NewService(src, core.NewMatcher(core.DefaultMatcherOptions()), common.NewSilentLogger())
	handler := handleGlossaryTerm(svc, common.NewSilentLogger())

	result := callTool(t, handler, map[string]interface{}{"name": "Top%20Tier"})
	if result.IsError {
		t.Fatalf("Expected success, got %s", resultText(result))
	}
	if text := resultText(result); !strings.HasPrefix(text, "# Top%20Tier\n") {
		t.Errorf("Expected the literally named term, got:\n%s", text)
	}

	result = callTool(t, handler, map[string]interface{}{"name": "Top%2520Tier"})
	if result.IsError {
		t.Fatalf("Expected slug lookup to succeed, got %s", resultText(result))
	}
	if text := resultText(result); !strings.HasPrefix(text, "# Top%20Tier\n") {
		t.Errorf("Expected slug to resolve to the literal term, got:\n%s", text)
	}
}

func TestHandleGlossaryTerm_NotFound(t *testing.T) {
	handler := handleGlossaryTerm(newTestService(), common.NewSilentLogger())

	result := callTool(t, handler, map[string]interface{}{"name": "100% Unknown"})
	if !result.IsError {
		t.Fatal("Expected not found error")
	}
	if !strings.Contains(resultText(result), "glossary_search") {
		t.Errorf("Not found message should point back to search, got %s", resultText(result))
	}

	missing := callTool(t, handler, map[string]interface{}{})
	if !missing.IsError {
		t.Fatal("Expected error when name is missing")
	}
}

func TestHandleGlossaryCategories(t *testing.T) {
	handler := handleGlossaryCategories(newTestService(), common.NewSilentLogger())

	text := resultText(callTool(t, handler, nil))

	for _, want := range []string{"| Finance |", "| Technology |", "## Letters", "B (3)"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in:\n%s", want, text)
		}
	}
}

func TestRegister(t *testing.T) {
	s := server.NewMCPServer("glossa-test", "0.0.0", server.WithToolCapabilities(true))
	Register(s, newTestService(), common.NewSilentLogger())

	resp := s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Failed to marshal response: %v", err)
	}
	for _, name := range []string{"get_version", "glossary_search", "glossary_term", "glossary_categories"} {
		if !strings.Contains(string(data), `"name":"`+name+`"`) {
			t.Errorf("Tool %s not registered", name)
		}
	}
}

func TestHandleGetVersion(t *testing.T) {
	text := resultText(callTool(t, handleGetVersion(), nil))
	if !strings.Contains(text, "Glossa MCP Server") || !strings.Contains(text, "Status: OK") {
		t.Errorf("Unexpected version output: %s", text)
	}
}
