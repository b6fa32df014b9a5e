// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes jsonref resolution as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/jsonref"
)

const serverInstructions = `jsonref MCP server: resolves JSON Reference ($ref) objects in JSON and YAML documents.

Every tool takes a document as exactly one of file, url, or content. References to other documents are loaded relative to the file path or URL; inline content needs base_uri for relative references. Each call loads its documents fresh.

Configuration: All defaults are configurable via JSONREF_* environment variables set in your MCP client config.

Key settings:
- JSONREF_HTTP_TIMEOUT (default: 30s): timeout for each remote document
- JSONREF_MAX_DOCUMENT_SIZE (default: 10MB): maximum bytes read per document
- JSONREF_MAX_INLINE_SIZE (default: 10MB): maximum inline content size
- JSONREF_ALLOW_PRIVATE_IPS (default: false): allow remote loads from private and loopback addresses
- JSONREF_REFS_LIMIT (default: 100): default result limit for the refs tool
- JSONREF_REFS_DETAIL_LIMIT (default: 25): default limit in detail mode
- JSONREF_LOG_LEVEL (default: warn): server log level on stderr`

// serverLogger receives resolution logs. stdout carries the protocol, so
// logs go to stderr.
var serverLogger jsonref.Logger = jsonref.NewSlogAdapter(
	slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})),
)

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "jsonref", Version: jsonref.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve",
		Description: "Resolve the JSON references in a JSON or YAML document and return it with every referent inlined. References that point back into their own ancestors (recursive schemas) are kept as $ref objects so the result is finite. Use pointer to return only part of the document. Use keep_refs=true to return the document with its $ref objects unchanged after checking them.",
	}, handleResolve)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "lookup",
		Description: "Evaluate a JSON pointer against a document, following references on the way. Reports whether the node at the pointer is itself a reference, where it points, and the resolved value. Use depth to limit how much of a large value is returned.",
	}, handleLookup)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "refs",
		Description: "List the JSON references reachable from a document, including those inside loaded documents, and check that each resolves. By default returns unique reference targets ranked by count. Use detail=true for individual sites with their errors, failed_only=true to focus on broken references, and target to filter by a glob (e.g. *definitions/*). Use group_by (document or status) to get distribution counts. Default limit is configurable via JSONREF_REFS_LIMIT.",
	}, handleRefs)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.RefsLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.RefsLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// detailLimit returns a lower default limit for detail mode output.
func detailLimit(limit int) int {
	if limit <= 0 {
		return cfg.RefsDetailLimit
	}
	return limit
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// groupCount represents a single group in group_by results.
type groupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// groupAndSort groups items by key, sorts by count descending (ties
// broken alphabetically by key), and returns the sorted groups.
func groupAndSort[T any](items []T, keyFn func(T) string) []groupCount {
	counts := make(map[string]int)
	for _, item := range items {
		counts[keyFn(item)]++
	}
	groups := make([]groupCount, 0, len(counts))
	for key, count := range counts {
		groups = append(groups, groupCount{Key: key, Count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// validateGroupBy checks that group_by is a valid value and is not combined with detail.
func validateGroupBy(groupBy string, detail bool, allowed []string) error {
	if groupBy == "" {
		return nil
	}
	if detail {
		return fmt.Errorf("cannot use both group_by and detail")
	}
	for _, a := range allowed {
		if strings.EqualFold(groupBy, a) {
			return nil
		}
	}
	return fmt.Errorf("invalid group_by value %q; valid values: %s", groupBy, strings.Join(allowed, ", "))
}

// validateGlobPattern checks whether a glob pattern is syntactically valid.
// Call this once before a filter loop so matchRefGlob never encounters an
// invalid pattern at match time.
func validateGlobPattern(pattern string) error {
	if pattern == "" || !strings.ContainsAny(pattern, "*?[") {
		return nil
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}
	return nil
}
