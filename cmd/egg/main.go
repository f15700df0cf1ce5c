// Command egg is the front-end CLI: it promotes and prepares egg programs
// and installs manifest dependencies. Lexing and parsing egg source text
// is an external collaborator's job, so the commands consume concrete
// syntax trees serialized as YAML (the shape syntax.FromMap decodes); an
// embedder with a tree-sitter grammar wires syntax.FromTreeSitterNode in
// front of the same pipeline instead.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zeta1999/egg/pkg/ast"
	"github.com/zeta1999/egg/pkg/driver"
	"github.com/zeta1999/egg/pkg/prepare"
	"github.com/zeta1999/egg/pkg/syntax"
)

const usage = `usage: egg <command> [arguments]

commands:
  run <file>    promote, prepare, and dump the program with diagnostics
  dump <file>   promote and dump the program without preparing it
  deps [dir]    install the dependencies named in dir/package.yml
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}
	switch args[0] {
	case "run":
		return cmdRun(args[1:], true)
	case "dump":
		return cmdRun(args[1:], false)
	case "deps":
		return cmdDeps(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "egg: unknown command %q\n%s", args[0], usage)
		return 2
	}
}

func cmdRun(args []string, prepareIt bool) int {
	if len(args) != 1 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}
	path := args[0]
	root, err := loadSyntaxTree(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "egg: %v\n", err)
		return 1
	}
	resource := filepath.Base(path)
	if !prepareIt {
		module, err := ast.Promote(resource, root)
		if err != nil {
			fmt.Fprintf(os.Stderr, "egg: %v\n", err)
			return 1
		}
		fmt.Println(ast.Dump(module))
		return 0
	}
	result, err := driver.Prepare(resource, root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "egg: %v\n", err)
		return 1
	}
	for _, d := range result.Diagnostics {
		fmt.Fprintln(os.Stderr, d)
	}
	fmt.Println(ast.Dump(result.Module))
	if result.Severity >= prepare.Error {
		return 1
	}
	return 0
}

func cmdDeps(args []string) int {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	manifest, err := driver.LoadManifest(filepath.Join(dir, "package.yml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "egg: %v\n", err)
		return 1
	}
	cacheDir := os.Getenv("EGG_HOME")
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "egg: resolve home directory: %v\n", err)
			return 1
		}
		cacheDir = filepath.Join(home, ".egg")
	}
	installer, err := driver.NewInstaller(cacheDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "egg: %v\n", err)
		return 1
	}
	installed, err := installer.Install(manifest)
	for _, pkg := range installed {
		fmt.Printf("installed %s (%s)\n", pkg.Name, pkg.Source)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "egg: %v\n", err)
		return 1
	}
	return 0
}

// loadSyntaxTree reads a YAML-serialized concrete syntax tree and decodes
// it into the node shape promotion consumes.
func loadSyntaxTree(path string) (syntax.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return syntax.FromMap(raw)
}
