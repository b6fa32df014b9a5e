// Package commands provides CLI command handlers for jsonref.
package commands

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/jsonref"
	"github.com/erraggy/jsonref/internal/cliutil"
	"github.com/erraggy/jsonref/internal/options"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured writes data to w in the specified format (json or yaml).
// JSON is indented unless compact is set.
func OutputStructured(w io.Writer, data any, format string, compact bool) error {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		if compact {
			bytes, err = json.Marshal(data)
		} else {
			bytes, err = json.MarshalIndent(data, "", "  ")
		}
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	Writef(w, "%s\n", strings.TrimRight(string(bytes), "\n"))
	return nil
}

// Writef writes formatted output to the writer, reporting write failures on stderr.
func Writef(w io.Writer, format string, args ...any) {
	cliutil.Writef(w, format, args...)
}

// inputSource maps a command line argument to an input source.
// StdinFilePath reads the whole of stdin as inline content.
func inputSource(arg string, stdin io.Reader) (options.Source, error) {
	switch {
	case arg == StdinFilePath:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return options.Source{}, fmt.Errorf("reading stdin: %w", err)
		}
		if len(data) == 0 {
			return options.Source{}, fmt.Errorf("reading stdin: no input")
		}
		return options.Source{Content: string(data)}, nil
	case strings.HasPrefix(arg, "http://"), strings.HasPrefix(arg, "https://"):
		return options.Source{URL: arg}, nil
	default:
		return options.Source{File: arg}, nil
	}
}

// loadFlags are the resolution flags shared by commands that load documents.
type loadFlags struct {
	BaseURI    string
	MergeProps bool
	JSONSchema bool
	Verbose    bool
}

func (f *loadFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.BaseURI, "base-uri", "", "base URI for relative references (defaults to the input location)")
	fs.BoolVar(&f.MergeProps, "merge-props", false, "merge extra properties of reference objects into their referents")
	fs.BoolVar(&f.JSONSchema, "jsonschema", false, "honor JSON Schema $id/id members when resolving")
	fs.BoolVar(&f.Verbose, "verbose", false, "log resolution activity to stderr")
}

func (f *loadFlags) options(stderr io.Writer) []jsonref.Option {
	opts := []jsonref.Option{
		jsonref.WithMergeProps(f.MergeProps),
		jsonref.WithJSONSchema(f.JSONSchema),
	}
	if f.BaseURI != "" {
		opts = append(opts, jsonref.WithBaseURI(f.BaseURI))
	}
	if f.Verbose {
		handler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		opts = append(opts, jsonref.WithLogger(jsonref.NewSlogAdapter(slog.New(handler))))
	}
	return opts
}
