package jsonref_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/erraggy/jsonref"
	"github.com/erraggy/jsonref/referrors"
)

// Example demonstrates lazy resolution of a local reference.
func Example() {
	doc, err := jsonref.Loads(`{"a": 12345, "b": {"$ref": "#/a"}}`)
	if err != nil {
		log.Fatal(err)
	}
	b := doc.(map[string]any)["b"].(*jsonref.Ref)
	fmt.Println("resolved:", b.Resolved())

	n, err := b.Float64()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(n + 1)
	fmt.Println("resolved:", b.Resolved())
	// Output:
	// resolved: false
	// 12346
	// resolved: true
}

// Example_customLoader demonstrates resolving references to documents held
// in memory.
func Example_customLoader() {
	docs := map[string]any{
		"mem:///schemas/pet.json": map[string]any{
			"Pet": map[string]any{"type": "object"},
		},
	}
	doc, err := jsonref.ReplaceRefs(
		map[string]any{"pet": map[string]any{"$ref": "pet.json#/Pet"}},
		jsonref.WithBaseURI("mem:///schemas/root.json"),
		jsonref.WithSchemeLoader("mem", func(uri string) (any, error) {
			fmt.Println("loading", uri)
			return docs[uri], nil
		}),
	)
	if err != nil {
		log.Fatal(err)
	}
	typ, err := jsonref.Lookup(doc, "/pet/type")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(typ)
	// Output:
	// loading mem:///schemas/pet.json
	// object
}

// Example_dumps demonstrates that serialization keeps references intact.
func Example_dumps() {
	doc, err := jsonref.Loads(`{"a": [1, 2], "b": {"$ref": "#/a"}}`)
	if err != nil {
		log.Fatal(err)
	}
	s, err := jsonref.Dumps(doc)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(s)

	expanded, err := jsonref.Expand(doc)
	if err != nil {
		log.Fatal(err)
	}
	s, err = jsonref.Dumps(expanded)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(s)
	// Output:
	// {"a":[1,2],"b":{"$ref":"#/a"}}
	// {"a":[1,2],"b":[1,2]}
}

// Example_mergeProps demonstrates overlaying extra reference keys.
func Example_mergeProps() {
	doc, err := jsonref.Loads(
		`{"base": {"type": "string"}, "name": {"$ref": "#/base", "description": "pet name"}}`,
		jsonref.WithMergeProps(true),
	)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(doc.(map[string]any)["name"])
	// Output:
	// {"description": "pet name", "type": "string"}
}

// Example_errors demonstrates inspecting a resolution failure.
func Example_errors() {
	doc, err := jsonref.Loads(`{"pet": {"$ref": "#/definitions/Pet"}}`)
	if err != nil {
		log.Fatal(err)
	}
	_, err = jsonref.Deref(doc.(map[string]any)["pet"])

	var refErr *referrors.JSONRefError
	if errors.As(err, &refErr) {
		fmt.Println(refErr.Kind)
		fmt.Println(refErr.URI)
		fmt.Println(referrors.FormatPath(refErr.Path))
	}
	// Output:
	// PointerResolutionError
	// #/definitions/Pet
	// /pet
}
