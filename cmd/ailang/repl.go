package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/sunholo/ailang/internal/config"
	"github.com/sunholo/ailang/internal/eval"
	"github.com/sunholo/ailang/internal/module"
)

// runREPL is grounded on the teacher's internal/repl/repl.go Start method:
// a liner.Liner for readline-style editing and persisted history, one
// Interpreter reused across turns. Unlike the teacher's REPL,
// each turn here re-checks the whole accumulated session source under a
// fresh Checker (rather than mutating one long-lived type environment),
// because this repo's Checker has no incremental re-entry API; module
// paths are kept distinct per turn (repl-1, repl-2, ...) purely so the
// evaluator's per-path binding cache never collides across turns.
func runREPL(cfg *config.Project) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyFile := filepath.Join(os.TempDir(), ".ailang_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("%s %s\n", bold("AILANG"), bold(version))
	fmt.Println("Type :help for help, :quit to exit")
	fmt.Println()

	ctx := module.NewContext()
	interp := eval.New(ctx)
	var session strings.Builder
	turn := 0

	for {
		input, err := line.Prompt(cfg.REPL.Prompt)
		if err == io.EOF {
			fmt.Println("\nGoodbye!")
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if input == ":help" || input == ":h" {
			fmt.Println("  :help, :h   Show this help")
			fmt.Println("  :quit, :q   Exit the REPL")
			continue
		}
		if input == ":quit" || input == ":q" {
			fmt.Println("Goodbye!")
			break
		}

		turn++
		prevSession := session.String()
		session.WriteString(input)
		session.WriteString(";\n")
		path := fmt.Sprintf("repl-%d", turn)

		mod, err := loadModule(path, session.String())
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			// Drop the line that failed to check so the next turn
			// re-tries from the last good session state.
			session.Reset()
			session.WriteString(prevSession)
			continue
		}
		ctx.Add(mod)
		if err := interp.EvalModule(mod); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Runtime error"), err)
			continue
		}
		if len(mod.Order) == 0 {
			continue
		}
		last := mod.Order[len(mod.Order)-1]
		v, err := interp.Global(path, last)
		if err != nil {
			continue
		}
		fmt.Printf("%s = %s\n", cyan(last), green(v.String()))
	}

	writeCappedHistory(line, historyFile, cfg.REPL.HistoryMax)
}

// writeCappedHistory persists only the most recent max lines of liner's
// history, since liner itself has no history-size limit.
func writeCappedHistory(line *liner.State, historyFile string, max int) {
	var buf strings.Builder
	if _, err := line.WriteHistory(&buf); err != nil {
		return
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if max > 0 && len(lines) > max {
		lines = lines[len(lines)-max:]
	}
	f, err := os.Create(historyFile)
	if err != nil {
		return
	}
	defer f.Close()
	for _, l := range lines {
		fmt.Fprintln(f, l)
	}
}
