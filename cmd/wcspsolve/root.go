package main

import (
	"github.com/spf13/cobra"

	"github.com/toulbar2go/wcspsolve/internal/config"
)

// flagSet mirrors internal/config.Config field-for-field: every CLI flag
// from spec.md §6, bound directly to cobra pflag vars. cfgPath and
// flagsSeen let solve.go tell "flag given" apart from "flag left at its
// zero value", so a config-file default isn't silently clobbered by an
// unset flag (SPEC_FULL.md §10.2).
var (
	cfgPath string

	flagUB                 float64
	flagAllSolutions       bool
	flagMaxSolutions       int
	flagTimerSeconds       int
	flagSeed               int64
	flagPrecision          uint
	flagConsistencyLevel   int
	flagVAC                bool
	flagVACDepth           int
	flagDEELevel           int
	flagHBFSThreshold      int
	flagLDSMaxDiscrepancy  int
	flagInitialLocalSearch string
	flagVerbosity          int
	flagSolutionMode       int
	flagWriteSolutionPath  string
	flagDumpProblemPath    string
	flagCostMultiplier     float64
	flagMetricsAddr        string
)

var rootCmd = &cobra.Command{
	Use:   "wcspsolve <problem-file>",
	Short: "Solve a weighted constraint satisfaction problem by branch and bound",
	Long: `wcspsolve reads a WCSP instance (legacy .wcsp, .cfn, .wcnf, .opb,
.uai, or .qpbo) and searches for the minimum-cost assignment strictly
below its upper bound, reporting either the best solution
found, every solution found (--all), or that none exists.`,
	Args: cobra.ExactArgs(1),
	RunE: runSolve,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&cfgPath, "config", "", "path to a YAML defaults file (unset flags fall back to it, then to built-ins)")

	f.Float64Var(&flagUB, "ub", 0, "initial upper bound (0 = use the problem's declared top)")
	f.BoolVarP(&flagAllSolutions, "all", "a", false, "enumerate every solution strictly below the initial bound instead of optimizing")
	f.IntVar(&flagMaxSolutions, "max-solutions", 0, "stop enumeration after this many solutions (0 = unbounded, only with --all)")
	f.IntVar(&flagTimerSeconds, "timer", 0, "abort search after this many seconds (0 = unbounded)")
	f.Int64Var(&flagSeed, "seed", 0, "random seed for local search restarts")
	f.UintVar(&flagPrecision, "precision", 0, "decimal digits of cost precision")
	f.IntVarP(&flagConsistencyLevel, "k", "k", 0, "local consistency level, 0 (NC) to 4 (EAC)")
	f.BoolVarP(&flagVAC, "vac", "A", false, "enable virtual arc consistency")
	f.IntVar(&flagVACDepth, "vac-depth", 0, "VAC search depth bound")
	f.IntVar(&flagDEELevel, "dee", 0, "dead-end elimination level, 0 (off) to 3")
	f.IntVar(&flagHBFSThreshold, "hbfs", 0, "hybrid best-first search node threshold (0 = plain DFBB)")
	f.IntVarP(&flagLDSMaxDiscrepancy, "lds", "l", -1, "limited discrepancy search bound (-1 = disabled)")
	f.StringVarP(&flagInitialLocalSearch, "init", "i", "", `seed the initial upper bound with local search: "", "pils", or "lrbcd"`)
	f.IntVarP(&flagVerbosity, "verbosity", "v", 0, "verbosity level")
	f.IntVarP(&flagSolutionMode, "solution-mode", "s", 0, "solution print mode: 1=indices, 2=names, 3=assignments")
	f.StringVarP(&flagWriteSolutionPath, "write", "w", "", "also write the best solution to this file")
	f.StringVarP(&flagDumpProblemPath, "dump", "z", "", "dump the loaded problem (legacy format) to this file before solving")
	f.Float64VarP(&flagCostMultiplier, "cost-multiplier", "C", 0, "multiply QPBO objective terms by this factor before conversion")
	f.StringVar(&flagMetricsAddr, "metrics-addr", "", "expose Prometheus metrics at http://<addr>/metrics while solving")

	rootCmd.AddCommand(versionCmd)
}

// mergedConfig loads cfgPath (if any) and overlays every flag the user
// actually set on top of it, leaving config-file/default values in place
// for flags left untouched — the flags-win merge SPEC_FULL.md §10.2
// describes.
func mergedConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return cfg, err
	}
	set := cmd.Flags().Changed
	if set("ub") {
		cfg.UB = flagUB
	}
	if set("all") {
		cfg.AllSolutions = flagAllSolutions
	}
	if set("max-solutions") {
		cfg.MaxSolutions = flagMaxSolutions
	}
	if set("timer") {
		cfg.TimerSeconds = flagTimerSeconds
	}
	if set("seed") {
		cfg.Seed = flagSeed
	}
	if set("precision") {
		cfg.Precision = flagPrecision
	}
	if set("k") {
		cfg.ConsistencyLevel = flagConsistencyLevel
	}
	if set("vac") {
		cfg.VAC = flagVAC
	}
	if set("vac-depth") {
		cfg.VACDepth = flagVACDepth
	}
	if set("dee") {
		cfg.DEELevel = flagDEELevel
	}
	if set("hbfs") {
		cfg.HBFSThreshold = flagHBFSThreshold
	}
	if set("lds") {
		cfg.LDSMaxDiscrepancy = flagLDSMaxDiscrepancy
	}
	if set("init") {
		cfg.InitialLocalSearch = flagInitialLocalSearch
	}
	if set("verbosity") {
		cfg.Verbosity = flagVerbosity
	}
	if set("solution-mode") {
		cfg.SolutionMode = flagSolutionMode
	}
	if set("write") {
		cfg.WriteSolutionPath = flagWriteSolutionPath
	}
	if set("dump") {
		cfg.DumpProblemPath = flagDumpProblemPath
	}
	if set("cost-multiplier") {
		cfg.CostMultiplier = flagCostMultiplier
	}
	if set("metrics-addr") {
		cfg.MetricsAddr = flagMetricsAddr
	}
	return cfg, nil
}
