package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/jsonref"
	"github.com/erraggy/jsonref/internal/pointer"
)

type lookupInput struct {
	Doc     docInput       `json:"doc"               jsonschema:"The document to query"`
	Options resolveOptions `json:"options,omitempty" jsonschema:"Resolution settings"`
	Pointer string         `json:"pointer"           jsonschema:"JSON pointer to evaluate (e.g. /definitions/Pet/properties/name). A leading # is accepted."`
	Depth   int            `json:"depth,omitempty"   jsonschema:"Maximum nesting depth of the returned value; deeper containers are summarized. 0 means unlimited."`
}

type lookupOutput struct {
	Pointer     string `json:"pointer"`
	IsReference bool   `json:"is_reference"`
	Ref         string `json:"ref,omitempty"`
	URI         string `json:"uri,omitempty"`
	Type        string `json:"type"`
	Value       any    `json:"value"`
}

func handleLookup(_ context.Context, _ *mcp.CallToolRequest, input lookupInput) (*mcp.CallToolResult, any, error) {
	if input.Depth < 0 {
		return errResult(fmt.Errorf("depth must not be negative")), nil, nil
	}

	doc, err := input.Doc.load(input.Options)
	if err != nil {
		return errResult(err), nil, nil
	}

	output := lookupOutput{Pointer: input.Pointer}

	// Find the raw node at the pointer so a reference there can be reported
	// before it is followed.
	ptr := strings.TrimPrefix(input.Pointer, "#")
	tokens, err := pointer.Parse(ptr)
	if err != nil {
		return errResult(err), nil, nil
	}
	node := doc
	if len(tokens) > 0 {
		parent, err := jsonref.Lookup(doc, pointer.Format(tokens[:len(tokens)-1]))
		if err != nil {
			return errResult(err), nil, nil
		}
		last := tokens[len(tokens)-1]
		switch p := parent.(type) {
		case map[string]any:
			node = p[last]
		case []any:
			if i, ok := pointer.Index(last); ok && i < len(p) {
				node = p[i]
			}
		}
	}
	if r, ok := node.(*jsonref.Ref); ok {
		output.IsReference = true
		output.Ref = r.RefString()
		output.URI = r.URI()
	}

	value, err := jsonref.Lookup(doc, ptr)
	if err != nil {
		return errResult(err), nil, nil
	}
	expanded, err := jsonref.Expand(value)
	if err != nil {
		return errResult(err), nil, nil
	}
	output.Type = jsonType(expanded)
	output.Value = truncate(expanded, input.Depth)
	return nil, output, nil
}

// jsonType names the JSON type of v.
func jsonType(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return "number"
	}
}

// truncate replaces containers deeper than depth with a short summary.
// depth 0 returns v unchanged.
func truncate(v any, depth int) any {
	if depth <= 0 {
		return v
	}
	return truncateAt(v, depth)
}

func truncateAt(v any, remaining int) any {
	switch t := v.(type) {
	case map[string]any:
		if remaining == 0 {
			return fmt.Sprintf("{...%d keys}", len(t))
		}
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = truncateAt(child, remaining-1)
		}
		return out
	case []any:
		if remaining == 0 {
			return fmt.Sprintf("[...%d items]", len(t))
		}
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = truncateAt(child, remaining-1)
		}
		return out
	default:
		return v
	}
}
