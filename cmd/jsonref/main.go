package main

import (
	"fmt"
	"os"

	"github.com/erraggy/jsonref"
	"github.com/erraggy/jsonref/cmd/jsonref/commands"
	"github.com/erraggy/jsonref/internal/cliutil"
)

// validCommands lists the names accepted as the first argument.
var validCommands = []string{"resolve", "refs", "mcp", "version", "help"}

func main() {
	cliutil.SetColor(cliutil.IsTerminal(os.Stdout))

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("jsonref v%s\n", jsonref.Version())
		if len(os.Args) > 2 && os.Args[2] == "--verbose" {
			fmt.Println(jsonref.BuildInfo())
		}
	case "help", "-h", "--help":
		printUsage()
	case "resolve":
		run(commands.HandleResolve(os.Args[2:]))
	case "refs":
		run(commands.HandleRefs(os.Args[2:]))
	case "mcp":
		run(commands.HandleMCP(os.Args[2:]))
	default:
		cliutil.Errorf(os.Stderr, "unknown command: %s", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			commands.Writef(os.Stderr, "\nDid you mean: %s?\n", suggestion)
		}
		commands.Writef(os.Stderr, "\n")
		printUsage()
		os.Exit(1)
	}
}

func run(err error) {
	if err != nil {
		cliutil.Errorf(os.Stderr, "%v", err)
		os.Exit(1)
	}
}

// suggestCommand returns the closest valid command within edit distance 2,
// or "" when nothing is close enough.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, cmd := range validCommands {
		if d := levenshtein(input, cmd); d < bestDist {
			best, bestDist = cmd, d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

func printUsage() {
	w := os.Stdout
	commands.Writef(w, "%s\n\n", cliutil.Heading("jsonref - JSON Reference resolution"))
	commands.Writef(w, "Usage:\n")
	commands.Writef(w, "  jsonref <command> [flags] [arguments]\n\n")
	commands.Writef(w, "Commands:\n")
	commands.Writef(w, "  resolve    Resolve the references in a document and print the result\n")
	commands.Writef(w, "  refs       List every reference in a document and check it resolves\n")
	commands.Writef(w, "  mcp        Run an MCP server over stdio\n")
	commands.Writef(w, "  version    Show version information (--verbose for build details)\n")
	commands.Writef(w, "  help       Show this help message\n\n")
	commands.Writef(w, "Inputs may be a file path, an http(s) URL, or '-' for stdin.\n")
	commands.Writef(w, "Documents may be JSON or YAML.\n\n")
	commands.Writef(w, "Run 'jsonref <command> --help' for more information on a command.\n")
}
