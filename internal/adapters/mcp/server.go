// Package mcp exposes the glossary as Model Context Protocol tools so that
// assistants can resolve networking terms while they read or write about RFCs.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/corey/rfcguide/internal/common"
	"github.com/corey/rfcguide/internal/domain/glossary"
	"github.com/corey/rfcguide/internal/ports"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Arguments structs

type ResolveTermArgs struct {
	Keyword string `json:"keyword" jsonschema:"Free-text keyword such as 'three way handshake' or 'MTU'"`
}

type GetEntryArgs struct {
	ID string `json:"id" jsonschema:"Exact entry id, lowercase kebab-case (e.g. three-way-handshake)"`
}

type ListEntriesArgs struct {
	Category string `json:"category,omitempty" jsonschema:"Category filter: protocol, network, security, web, email, general or all"`
	Search   string `json:"search,omitempty" jsonschema:"Case-insensitive substring matched against term and definition"`
}

type ListCategoriesArgs struct{}

type AnnotateTextArgs struct {
	Text string `json:"text" jsonschema:"Prose to scan for glossary terms"`
}

// Server serves glossary tools over MCP.
type Server struct {
	queries   ports.GlossaryQueries
	logger    *common.Logger
	mcpServer *sdk.Server
}

// NewServer creates the MCP server and registers every tool.
func NewServer(queries ports.GlossaryQueries, logger *common.Logger) *Server {
	s := &Server{
		queries: queries,
		logger:  logger,
		mcpServer: sdk.NewServer(&sdk.Implementation{
			Name:    "rfcguide",
			Version: common.Version,
		}, nil),
	}
	s.registerTools()
	return s
}

// Run serves on stdin/stdout until the client disconnects or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info().Int("entries", s.queries.Catalog().Len()).Msg("MCP server listening on stdio")
	return s.mcpServer.Run(ctx, &sdk.StdioTransport{})
}

// Connect attaches the server to an arbitrary transport (used by tests with
// in-memory transports).
func (s *Server) Connect(ctx context.Context, t sdk.Transport) (*sdk.ServerSession, error) {
	return s.mcpServer.Connect(ctx, t, nil)
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcpServer, &sdk.Tool{
		Name:        "resolve_term",
		Description: "Looks up a networking glossary term by free-text keyword. Matching ignores case, spaces and punctuation.",
	}, s.resolveTerm)

	sdk.AddTool(s.mcpServer, &sdk.Tool{
		Name:        "get_entry",
		Description: "Returns one glossary entry by exact id, with its related entries",
	}, s.getEntry)

	sdk.AddTool(s.mcpServer, &sdk.Tool{
		Name:        "list_entries",
		Description: "Lists glossary entries, optionally filtered by category and search text",
	}, s.listEntries)

	sdk.AddTool(s.mcpServer, &sdk.Tool{
		Name:        "list_categories",
		Description: "Lists glossary categories with entry counts",
	}, s.listCategories)

	sdk.AddTool(s.mcpServer, &sdk.Tool{
		Name:        "annotate_text",
		Description: "Finds glossary terms mentioned in a piece of prose, with byte offsets",
	}, s.annotateText)
}

type entryView struct {
	Match   string           `json:"match,omitempty"`
	Entry   glossary.Entry   `json:"entry"`
	Related []glossary.Entry `json:"related"`
}

func (s *Server) resolveTerm(ctx context.Context, req *sdk.CallToolRequest, args ResolveTermArgs) (*sdk.CallToolResult, any, error) {
	e, kind := s.queries.Lookup(args.Keyword)
	if kind == glossary.MatchNone {
		return textResult(fmt.Sprintf("No glossary entry matches %q.", args.Keyword)), nil, nil
	}
	return jsonResult(entryView{
		Match:   kind.String(),
		Entry:   e,
		Related: s.queries.Catalog().Related(e.ID),
	}), nil, nil
}

func (s *Server) getEntry(ctx context.Context, req *sdk.CallToolRequest, args GetEntryArgs) (*sdk.CallToolResult, any, error) {
	c := s.queries.Catalog()
	e, ok := c.EntryByID(args.ID)
	if !ok {
		return textResult(fmt.Sprintf("No glossary entry has id %q.", args.ID)), nil, nil
	}
	return jsonResult(entryView{Entry: e, Related: c.Related(e.ID)}), nil, nil
}

func (s *Server) listEntries(ctx context.Context, req *sdk.CallToolRequest, args ListEntriesArgs) (*sdk.CallToolResult, any, error) {
	cat, err := glossary.ParseFilter(args.Category)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}
	entries := s.queries.Catalog().Search(args.Search, cat)
	return jsonResult(map[string]any{
		"category": cat.String(),
		"count":    len(entries),
		"entries":  entries,
	}), nil, nil
}

func (s *Server) listCategories(ctx context.Context, req *sdk.CallToolRequest, args ListCategoriesArgs) (*sdk.CallToolResult, any, error) {
	c := s.queries.Catalog()
	counts := c.CategoryCounts()

	type row struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	rows := make([]row, 0, len(counts)+1)
	for _, cat := range c.Categories() {
		n := counts[cat]
		if cat == glossary.CategoryAll {
			n = c.Len()
		}
		rows = append(rows, row{Name: cat.String(), Count: n})
	}
	return jsonResult(rows), nil, nil
}

func (s *Server) annotateText(ctx context.Context, req *sdk.CallToolRequest, args AnnotateTextArgs) (*sdk.CallToolResult, any, error) {
	mentions := s.queries.Annotate(args.Text)
	return jsonResult(map[string]any{
		"count":    len(mentions),
		"mentions": mentions,
	}), nil, nil
}

func textResult(text string) *sdk.CallToolResult {
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: text}},
	}
}

func errorResult(text string) *sdk.CallToolResult {
	r := textResult(text)
	r.IsError = true
	return r
}

func jsonResult(v any) *sdk.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("encode result: %v", err))
	}
	return textResult(string(data))
}
