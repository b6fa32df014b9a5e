package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/jsonref"
)

type resolveInput struct {
	Doc      docInput       `json:"doc"                 jsonschema:"The document to resolve"`
	Options  resolveOptions `json:"options,omitempty"   jsonschema:"Resolution settings"`
	Pointer  string         `json:"pointer,omitempty"   jsonschema:"JSON pointer selecting the part of the document to return (e.g. /definitions/Pet)"`
	KeepRefs bool           `json:"keep_refs,omitempty" jsonschema:"Return $ref objects unchanged instead of inlining referents"`
}

type resolveOutput struct {
	Pointer  string `json:"pointer,omitempty"`
	Document any    `json:"document"`
}

func handleResolve(_ context.Context, _ *mcp.CallToolRequest, input resolveInput) (*mcp.CallToolResult, any, error) {
	doc, err := input.Doc.load(input.Options)
	if err != nil {
		return errResult(err), nil, nil
	}

	target := doc
	if input.Pointer != "" {
		if target, err = jsonref.Lookup(doc, input.Pointer); err != nil {
			return errResult(err), nil, nil
		}
	}

	var out any
	if input.KeepRefs {
		// Resolve everything first so broken references are reported.
		if err := jsonref.WalkRefs(target, func(*jsonref.Ref) error { return nil }); err != nil {
			return errResult(err), nil, nil
		}
		out, err = jsonref.Unwalk(target)
	} else {
		out, err = jsonref.Expand(target)
	}
	if err != nil {
		return errResult(err), nil, nil
	}

	return nil, resolveOutput{Pointer: input.Pointer, Document: out}, nil
}
