package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/jsonref/internal/mcpserver"
)

// SetupMCPFlags creates the FlagSet for the mcp command. It takes no flags;
// the server is configured through JSONREF_* environment variables.
func SetupMCPFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.Usage = func() {
		Writef(fs.Output(), "Usage: jsonref mcp\n\n")
		Writef(fs.Output(), "Run an MCP (Model Context Protocol) server over stdio exposing the\n")
		Writef(fs.Output(), "resolve, lookup, and refs tools.\n\n")
		Writef(fs.Output(), "Environment:\n")
		Writef(fs.Output(), "  JSONREF_HTTP_TIMEOUT         timeout for remote documents (default 30s)\n")
		Writef(fs.Output(), "  JSONREF_MAX_DOCUMENT_SIZE    maximum bytes per loaded document (default 10MB)\n")
		Writef(fs.Output(), "  JSONREF_MAX_INLINE_SIZE      maximum bytes of inline content (default 10MB)\n")
		Writef(fs.Output(), "  JSONREF_ALLOW_PRIVATE_IPS    allow remote loads from private addresses (default false)\n")
		Writef(fs.Output(), "  JSONREF_REFS_LIMIT           default page size of the refs tool (default 100)\n")
	}
	return fs
}

// HandleMCP executes the mcp command
func HandleMCP(args []string) error {
	fs := SetupMCPFlags()
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("mcp command takes no arguments")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return mcpserver.Run(ctx)
}
