package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/florianpollitt/radical/internal/config"
	"github.com/florianpollitt/radical/internal/dimacsio"
	"github.com/florianpollitt/radical/internal/obslog"
	"github.com/florianpollitt/radical/internal/proof"
	"github.com/florianpollitt/radical/internal/sat"
	"github.com/florianpollitt/radical/internal/search"
)

var (
	flagConfigFile string
	flagGzip       bool
	flagLogLevel   string
	flagLRAT       bool
	flagMultitrail bool
	flagChrono     int

	v = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "radical",
	Short: "radical is an incremental CDCL SAT solver",
	Long: `radical reads a DIMACS CNF instance, decides its satisfiability by
CDCL search with two-watched-literals unit propagation (chronological
backtracking is selected with --chrono), and checks its own reasoning
online against a DRUP or LRAT proof.`,
}

var solveCmd = &cobra.Command{
	Use:   "solve [instance.cnf]",
	Short: "Solve a DIMACS CNF instance",
	Args:  cobra.ExactArgs(1),
	RunE:  runSolve,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigFile, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level: debug, info, warn, error")

	solveCmd.Flags().BoolVar(&flagGzip, "gzip", false, "the instance file is gzip-compressed")
	solveCmd.Flags().BoolVar(&flagLRAT, "lrat", false, "check an online LRAT proof instead of DRUP")
	solveCmd.Flags().BoolVar(&flagMultitrail, "multitrail", false, "use per-level trails")
	solveCmd.Flags().IntVar(&flagChrono, "chrono", int(sat.ChronoOff), "chronological backtracking mode: 0=off, 1, 2")

	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	level, err := obslog.ParseLevel(flagLogLevel)
	if err != nil {
		return err
	}
	logger := obslog.NewText(level)
	obslog.SetDefault(logger)

	if err := config.ReadFile(v, flagConfigFile); err != nil {
		return fmt.Errorf("radical: loading config: %w", err)
	}
	v.Set("lrat", flagLRAT || v.GetBool("lrat"))
	v.Set("multitrail", flagMultitrail || v.GetBool("multitrail"))
	if cmd.Flags().Changed("chrono") {
		v.Set("chrono", flagChrono)
	}

	opts, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("radical: %w", err)
	}

	var observer sat.Observer
	var checker interface{ Err() error }
	if opts.LRAT {
		lrat := proof.NewLRATChecker()
		observer, checker = lrat, lrat
	} else {
		drup := proof.NewDRUPChecker()
		observer, checker = drup, drup
	}

	core, err := sat.NewCore(opts, observer, nil)
	if err != nil {
		return fmt.Errorf("radical: building core: %w", err)
	}

	// NewDriver attaches its own arena.Pool to core.Arena unconditionally;
	// Core.AddClause only actually draws from it when opts.Arena is set.
	driver := search.NewDriver(core, opts.Multitrail, logger)

	instance := args[0]
	if err := dimacsio.LoadIntoAdder(instance, flagGzip, driver); err != nil {
		return fmt.Errorf("radical: loading %s: %w", instance, err)
	}
	fmt.Printf("c variables:  %d\n", core.NumVars())

	start := time.Now()
	status := driver.Solve()
	elapsed := time.Since(start)

	fmt.Printf("c time (sec): %f\n", elapsed.Seconds())
	fmt.Printf("c conflicts:  %d\n", driver.TotalConflicts)
	fmt.Printf("c restarts:   %d\n", driver.TotalRestarts)
	fmt.Printf("c status:     %s\n", status.String())

	if err := checker.Err(); err != nil {
		return fmt.Errorf("radical: proof check failed: %w", err)
	}

	switch status {
	case sat.True:
		fmt.Println("s SATISFIABLE")
		printModel(driver.Model())
	case sat.False:
		fmt.Println("s UNSATISFIABLE")
	default:
		fmt.Println("s UNKNOWN")
	}
	return nil
}

func printModel(model []bool) {
	fmt.Print("v")
	for i, b := range model {
		if b {
			fmt.Printf(" %d", i+1)
		} else {
			fmt.Printf(" -%d", i+1)
		}
	}
	fmt.Println(" 0")
}
