package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sunholo/ailang/internal/builtins"
	"github.com/sunholo/ailang/internal/checker"
	"github.com/sunholo/ailang/internal/config"
	"github.com/sunholo/ailang/internal/eval"
	"github.com/sunholo/ailang/internal/module"
	"github.com/sunholo/ailang/internal/parser"
)

var (
	// Version info - set by ldflags during build
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"

	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	root := &cobra.Command{
		Use:   "ailang",
		Short: "A Hindley-Milner language with row polymorphism and qualified types",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "run <file.ail>",
			Short: "Run a program",
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) { runFile(args[0]) },
		},
		&cobra.Command{
			Use:   "check <file.ail>",
			Short: "Type-check a file without running it",
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) { checkFile(args[0]) },
		},
		&cobra.Command{
			Use:   "repl",
			Short: "Start the interactive REPL",
			Run:   func(cmd *cobra.Command, args []string) { runREPL(loadProjectConfig()) },
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run:   func(cmd *cobra.Command, args []string) { printVersion() },
		},
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("AILANG %s\n", bold(version))
	if commit != "unknown" {
		fmt.Printf("Commit: %s\n", commit)
	}
	if buildTime != "unknown" {
		fmt.Printf("Built:  %s\n", buildTime)
	}
}

// loadProjectConfig walks up from the working directory looking for an
// ailang.yaml manifest, falling back to config.Default() if none exists.
func loadProjectConfig() *config.Project {
	dir, err := os.Getwd()
	if err != nil {
		return config.Default()
	}
	p, err := config.Discover(dir)
	if err != nil {
		return config.Default()
	}
	return p
}

// newChecker returns a Checker with the built-in surface (spec §6) already
// installed into its global scope, so every module sees pureIO, mapIO,
// eqInt, mapArray and the rest without an explicit import.
func newChecker() *checker.Checker {
	c := checker.New()
	builtins.Install(c)
	return c
}

// loadModule parses, type-checks and elaborates one source string into a
// module the evaluator can run, under its own import path.
func loadModule(path, content string) (*module.Module, error) {
	tree, err := parser.ParseModule(content)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	c := newChecker()
	return c.CheckModule(path, tree)
}

func runFile(filename string) {
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read file '%s': %v\n", red("Error"), filename, err)
		os.Exit(1)
	}

	mod, err := loadModule("main", string(content))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}

	ctx := module.NewContext()
	ctx.Add(mod)
	interp := eval.New(ctx)
	if err := interp.EvalModule(mod); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Runtime error"), err)
		os.Exit(1)
	}

	v, err := interp.Global("main", "main")
	if err != nil {
		// No `main` binding: evaluating the module's top-level definitions
		// for their cached values is all there is to do.
		return
	}
	if action, ok := v.(*eval.IOAction); ok {
		if _, err := action.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Runtime error"), err)
			os.Exit(1)
		}
		return
	}
	fmt.Println(v.String())
}

func checkFile(filename string) {
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read file '%s': %v\n", red("Error"), filename, err)
		os.Exit(1)
	}

	if _, err := loadModule("main", string(content)); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
	fmt.Printf("%s No errors found\n", green("✓"))
}
