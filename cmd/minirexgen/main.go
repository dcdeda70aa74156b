// Command minirexgen compiles a pattern ahead of time and emits a Go
// source file that rebuilds the compiled program as a static instruction
// table, so the pattern cost is paid at build time instead of at startup.
//
// Usage:
//
//	minirexgen -pattern 'a(b|c)*' -name Route -package routes -o routes_gen.go
//
// The generated file exposes a single function, <Name>Program, returning
// a *nfa.Program identical to what compiling the pattern would produce.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/coregx/miniregex/internal/gen"
	"github.com/coregx/miniregex/nfa"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("minirexgen: ")

	var (
		pattern  = flag.String("pattern", "", "pattern to compile (required)")
		name     = flag.String("name", "Pattern", "base name for the generated function")
		pkg      = flag.String("package", "main", "package name of the generated file")
		out      = flag.String("o", "", "output file (default: stdout)")
		optimize = flag.Bool("optimize", true, "run the goto-elimination pass before emitting")
	)
	flag.Parse()

	if *pattern == "" {
		flag.Usage()
		os.Exit(2)
	}

	prog, err := nfa.Compile(*pattern)
	if err != nil {
		log.Fatal(err)
	}
	if *optimize {
		nfa.OptimizeGotos(prog)
	}

	f := gen.File(prog, *pattern, *pkg, *name)

	w := os.Stdout
	if *out != "" {
		file, err := os.Create(*out)
		if err != nil {
			log.Fatal(err)
		}
		defer file.Close()
		w = file
	}
	if err := f.Render(w); err != nil {
		log.Fatal(err)
	}
}
