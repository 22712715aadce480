// Command goprolog is a batch query runner for the embeddable engine in
// pkg/prolog: it loads a file of clauses, runs one query against them,
// and prints the resulting bindings. It is a thin demonstration harness,
// not a REPL or a general Prolog toplevel — the engine core deliberately
// ships without a parser, so this binary's own line-oriented reader
// (parser.go) only understands the subset of syntax its example
// programs need.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/gitrdm/goprolog/pkg/prolog"
)

var (
	flagProgram       string
	flagQuery         string
	flagAll           bool
	flagOccursCheck   bool
	flagVerbose       bool
	flagMaxInferences int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goprolog",
		Short: "Run a Prolog query against a file of clauses",
		RunE:  runQuery,
	}
	cmd.Flags().StringVarP(&flagProgram, "program", "p", "", "path to a file of clauses (required)")
	cmd.Flags().StringVarP(&flagQuery, "query", "q", "", "goal to run against the loaded clauses (required)")
	cmd.Flags().BoolVar(&flagAll, "all", false, "print every solution instead of just the first")
	cmd.Flags().BoolVar(&flagOccursCheck, "occurs-check", false, "use the occurs-check on every unification")
	cmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "log clause loading and trace events")
	cmd.Flags().IntVar(&flagMaxInferences, "max-inferences", 0, "abort the query after this many goal dispatches (0 = unbounded)")
	cmd.MarkFlagRequired("program")
	cmd.MarkFlagRequired("query")
	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	var logger hclog.Logger
	if flagVerbose {
		logger = hclog.New(&hclog.LoggerOptions{Name: "goprolog", Level: hclog.Trace})
	}

	engine := prolog.New(
		prolog.WithLogger(logger),
		prolog.WithOccurCheck(flagOccursCheck),
		prolog.WithMaxInferences(flagMaxInferences),
	)

	if err := loadProgram(engine, flagProgram); err != nil {
		return fmt.Errorf("loading %s: %w", flagProgram, err)
	}

	goal, vars, err := ParseQueryText(flagQuery)
	if err != nil {
		return fmt.Errorf("parsing query: %w", err)
	}

	ctx := context.Background()
	if flagAll {
		solutions, err := engine.QueryAll(ctx, goal, vars...)
		if err != nil {
			return err
		}
		if len(solutions) == 0 {
			fmt.Println("false.")
			return nil
		}
		for _, sol := range solutions {
			printSolution(sol, vars)
		}
		return nil
	}

	sol, ok, err := engine.QueryOnce(ctx, goal, vars...)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("false.")
		return nil
	}
	printSolution(sol, vars)
	return nil
}

func printSolution(sol prolog.Solution, vars []*prolog.Variable) {
	if len(vars) == 0 {
		fmt.Println("true.")
		return
	}
	parts := make([]string, len(vars))
	for i, v := range vars {
		parts[i] = fmt.Sprintf("%s = %s", v.Name, sol[v.Name].String())
	}
	fmt.Println(strings.Join(parts, ", "))
}

func loadProgram(engine *prolog.Engine, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var buf strings.Builder
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		buf.WriteString(line)
		buf.WriteByte(' ')
		if strings.HasSuffix(line, ".") {
			term, err := ParseClauseText(buf.String())
			buf.Reset()
			if err != nil {
				return err
			}
			if err := engine.AssertClause(term); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}
