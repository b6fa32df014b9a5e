package commands

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/erraggy/jsonref"
)

// ResolveFlags contains flags for the resolve command
type ResolveFlags struct {
	loadFlags
	Format   string
	Pointer  string
	KeepRefs bool
	Compact  bool
}

// SetupResolveFlags creates and configures a FlagSet for the resolve command.
// Returns the FlagSet and a ResolveFlags struct with bound flag variables.
func SetupResolveFlags() (*flag.FlagSet, *ResolveFlags) {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	flags := &ResolveFlags{}

	flags.register(fs)
	fs.StringVar(&flags.Format, "format", FormatJSON, "output format: text, json, or yaml")
	fs.StringVar(&flags.Pointer, "pointer", "", "JSON pointer selecting the part of the document to output")
	fs.BoolVar(&flags.KeepRefs, "keep-refs", false, "output reference objects instead of inlining their referents")
	fs.BoolVar(&flags.Compact, "compact", false, "compact JSON output")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: jsonref resolve [flags] <file|url|->\n\n")
		Writef(fs.Output(), "Resolve JSON references in a JSON or YAML document and print the result.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  jsonref resolve schema.json\n")
		Writef(fs.Output(), "  jsonref resolve --pointer /definitions/Pet api.yaml\n")
		Writef(fs.Output(), "  jsonref resolve --merge-props --format yaml https://example.com/schema.json\n")
		Writef(fs.Output(), "  cat schema.json | jsonref resolve --base-uri file:///schemas/ -\n")
		Writef(fs.Output(), "\nReferences that point back into their own ancestors are kept as $ref\n")
		Writef(fs.Output(), "objects, so recursive schemas produce finite output.\n")
		Writef(fs.Output(), "\nPipelining:\n")
		Writef(fs.Output(), "  - Use '-' as the input to read from stdin\n")
	}

	return fs, flags
}

// HandleResolve executes the resolve command
func HandleResolve(args []string) error {
	return runResolve(args, os.Stdin, os.Stdout, os.Stderr)
}

func runResolve(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs, flags := SetupResolveFlags()
	fs.SetOutput(stderr)

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("resolve command requires exactly one file path, URL, or '-' for stdin")
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	src, err := inputSource(fs.Arg(0), stdin)
	if err != nil {
		return err
	}

	doc, err := src.Load(flags.options(stderr)...)
	if err != nil {
		return fmt.Errorf("loading %s: %w", src.Name(), err)
	}

	target := doc
	if flags.Pointer != "" {
		if target, err = jsonref.Lookup(doc, flags.Pointer); err != nil {
			return err
		}
	}

	if flags.Format == FormatText {
		Writef(stdout, "%s\n", jsonref.Repr(target))
		return nil
	}

	var out any
	if flags.KeepRefs {
		out, err = jsonref.Unwalk(target)
	} else {
		out, err = jsonref.Expand(target)
	}
	if err != nil {
		return err
	}
	return OutputStructured(stdout, out, flags.Format, flags.Compact)
}
