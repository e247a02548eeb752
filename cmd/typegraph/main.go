// Command typegraph reads an ESTree-JSON program from a file (or stdin),
// builds its module type graph, and prints the result.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/yifan-blog/hegel/internal/analyzer"
	"github.com/yifan-blog/hegel/internal/ast"
	"github.com/yifan-blog/hegel/internal/normalize"
)

func readInputFromArgs(args []string) ([]byte, error) {
	if len(args) == 1 {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			return nil, fmt.Errorf("usage: %s <file.json> or pipe ESTree JSON from stdin", args[0])
		}
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[1])
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	input, err := readInputFromArgs(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	prog, err := ast.DecodeProgram(bytes.NewReader(input))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	prog = normalize.Program(prog)
	module, diags := analyzer.Build(prog, nil)

	hasErrors := false
	for _, d := range diags {
		hasErrors = true
		fmt.Fprintf(os.Stderr, "- %s\n", d.Error())
	}

	names := module.LocalNames()
	fmt.Printf("module %s: %d top-level binding(s), %d diagnostic(s)\n", module.BuildID, len(names), len(diags))
	for _, name := range names {
		info, ok := module.Lookup(name)
		if !ok {
			continue
		}
		fmt.Printf("  %s: %s\n", name, info.Type.String())
	}

	if hasErrors {
		os.Exit(1)
	}
}
