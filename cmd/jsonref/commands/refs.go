package commands

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/erraggy/jsonref"
	"github.com/erraggy/jsonref/internal/cliutil"
	"github.com/erraggy/jsonref/referrors"
)

// RefsFlags contains flags for the refs command
type RefsFlags struct {
	loadFlags
	Format     string
	FailedOnly bool
	Quiet      bool
}

// RefReport is the structured output of the refs command.
type RefReport struct {
	Source string      `json:"source"          yaml:"source"`
	Total  int         `json:"total"           yaml:"total"`
	Failed int         `json:"failed"          yaml:"failed"`
	Sites  []RefResult `json:"sites,omitempty" yaml:"sites,omitempty"`
}

// RefResult describes one reference in a RefReport.
type RefResult struct {
	Path  string `json:"path"            yaml:"path"`
	Ref   string `json:"ref"             yaml:"ref"`
	URI   string `json:"uri"             yaml:"uri"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// SetupRefsFlags creates and configures a FlagSet for the refs command.
// Returns the FlagSet and a RefsFlags struct with bound flag variables.
func SetupRefsFlags() (*flag.FlagSet, *RefsFlags) {
	fs := flag.NewFlagSet("refs", flag.ContinueOnError)
	flags := &RefsFlags{}

	flags.register(fs)
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.BoolVar(&flags.FailedOnly, "failed", false, "only list references that fail to resolve")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only print the summary line")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: jsonref refs [flags] <file|url|->\n\n")
		Writef(fs.Output(), "List every JSON reference reachable from a document and check that it resolves.\n")
		Writef(fs.Output(), "References inside loaded documents are followed too.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  jsonref refs schema.json\n")
		Writef(fs.Output(), "  jsonref refs --failed --format json api.yaml\n")
		Writef(fs.Output(), "\nExit Status:\n")
		Writef(fs.Output(), "  0    All references resolve\n")
		Writef(fs.Output(), "  1    At least one reference fails to resolve, or the input cannot be loaded\n")
	}

	return fs, flags
}

// HandleRefs executes the refs command
func HandleRefs(args []string) error {
	return runRefs(args, os.Stdin, os.Stdout, os.Stderr)
}

func runRefs(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs, flags := SetupRefsFlags()
	fs.SetOutput(stderr)

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("refs command requires exactly one file path, URL, or '-' for stdin")
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

	report := buildRefReport(src.Name(), jsonref.Inspect(doc), flags.FailedOnly)

	if flags.Format == FormatText {
		writeRefReport(stdout, report, flags.Quiet)
	} else if err := OutputStructured(stdout, report, flags.Format, false); err != nil {
		return err
	}

	if report.Failed > 0 {
		return fmt.Errorf("%d of %d references failed to resolve", report.Failed, report.Total)
	}
	return nil
}

func buildRefReport(source string, sites []jsonref.RefSite, failedOnly bool) RefReport {
	report := RefReport{Source: source, Total: len(sites)}
	for _, site := range sites {
		if site.Err != nil {
			report.Failed++
		} else if failedOnly {
			continue
		}
		res := RefResult{
			Path: referrors.FormatPath(site.Path),
			Ref:  site.Ref,
			URI:  site.URI,
		}
		if site.Err != nil {
			res.Error = site.Err.Error()
		}
		report.Sites = append(report.Sites, res)
	}
	return report
}

func writeRefReport(w io.Writer, report RefReport, quiet bool) {
	if !quiet {
		Writef(w, "%s\n\n", cliutil.Heading("References in "+report.Source))
		for _, site := range report.Sites {
			if site.Error != "" {
				Writef(w, "  %s %s -> %s\n      %s\n", cliutil.Failed("✗"), site.Path, site.Ref, cliutil.Muted(site.Error))
				continue
			}
			Writef(w, "  %s %s -> %s\n", cliutil.OK("✓"), site.Path, site.Ref)
		}
		if len(report.Sites) > 0 {
			Writef(w, "\n")
		}
	}

	summary := fmt.Sprintf("%d references, %d failed", report.Total, report.Failed)
	if report.Failed > 0 {
		Writef(w, "%s\n", cliutil.Failed(summary))
		return
	}
	Writef(w, "%s\n", cliutil.OK(summary))
}
