package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/toulbar2go/wcspsolve/internal/config"
	"github.com/toulbar2go/wcspsolve/internal/localsearch"
	"github.com/toulbar2go/wcspsolve/internal/metrics"
	"github.com/toulbar2go/wcspsolve/internal/output"
	"github.com/toulbar2go/wcspsolve/internal/propagate"
	"github.com/toulbar2go/wcspsolve/internal/search"
	"github.com/toulbar2go/wcspsolve/internal/store"
	"github.com/toulbar2go/wcspsolve/internal/wcsp"
)

// runSolve is rootCmd's RunE: load the problem, optionally seed an
// initial upper bound via local search, run branch and bound, and report
// the result — the same load/solve/OutputModel shape as the teacher's
// main.go solve(), generalized to WCSP and cobra (spec.md §6).
func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := mergedConfig(cmd)
	if err != nil {
		return err
	}
	path := args[0]

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("wcspsolve: %w", err)
	}
	defer f.Close()

	s := store.New()
	w := wcsp.New(s)
	if err := loadProblem(f, path, w, cfg.Precision, cfg.CostMultiplier); err != nil {
		return fmt.Errorf("wcspsolve: loading %s: %w", path, err)
	}
	w.Precision = cfg.Precision

	if cfg.UB != 0 {
		ub := int64(math.Round(cfg.UB * math.Pow(10, float64(cfg.Precision))))
		w.SetUB(ub)
	}

	if cfg.DumpProblemPath != "" {
		if err := dumpToFile(cfg.DumpProblemPath, w); err != nil {
			return err
		}
	}

	if cfg.InitialLocalSearch != "" {
		seedInitialBound(w, cfg)
	}

	var reg *prometheus.Registry
	var collector *metrics.Collector
	var stopMetrics context.CancelFunc
	if cfg.MetricsAddr != "" {
		reg = prometheus.NewRegistry()
		collector = metrics.NewCollector(reg)
		var ctx context.Context
		ctx, stopMetrics = context.WithCancel(context.Background())
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, reg); err != nil {
				fmt.Fprintf(os.Stderr, "wcspsolve: metrics server: %v\n", err)
			}
		}()
		defer stopMetrics()
	}

	if cfg.TimerSeconds > 0 {
		time.AfterFunc(time.Duration(cfg.TimerSeconds)*time.Second, func() {
			fmt.Fprintln(os.Stderr, "wcspsolve: timer expired, aborting")
			os.Exit(1)
		})
	}

	engine := propagate.New(w, cfg.DEELevel > 0)
	searcher := search.New(w, engine, search.Options{
		AllSolutions:      cfg.AllSolutions,
		LastConflict:      true,
		LDSMaxDiscrepancy: cfg.LDSMaxDiscrepancy,
	})
	searcher.Verbose = cfg.Verbosity > 0

	solutionsWritten := 0
	searcher.OnSolution(func(assignment []int, c int64) {
		solutionsWritten++
		if collector != nil {
			collector.Update(searcher.Stats, w.LB(), w.UB())
		}
		if cfg.AllSolutions {
			mode := output.Mode(cfg.SolutionMode)
			if mode == 0 {
				mode = output.ModeIndices
			}
			output.WriteSolution(os.Stdout, w, assignment, c, mode)
			if cfg.MaxSolutions > 0 && solutionsWritten >= cfg.MaxSolutions {
				os.Exit(0)
			}
		}
	})

	assignment, c := searcher.Solve()
	if collector != nil {
		collector.Update(searcher.Stats, w.LB(), w.UB())
	}
	if cfg.Verbosity > 0 {
		fmt.Fprintf(os.Stderr, "c nodes: %d\nc backtracks: %d\nc solutions: %d\n",
			searcher.Stats.NbNodes, searcher.Stats.NbBacktracks, searcher.Stats.NbSolutionsFound)
	}

	if !cfg.AllSolutions {
		mode := output.Mode(cfg.SolutionMode)
		if mode == 0 {
			mode = output.ModeIndices
		}
		if assignment == nil {
			if err := output.WriteUnsat(os.Stdout); err != nil {
				return err
			}
		} else if err := output.WriteSolution(os.Stdout, w, assignment, c, mode); err != nil {
			return err
		}
		if cfg.WriteSolutionPath != "" && assignment != nil {
			if err := writeSolutionFile(cfg.WriteSolutionPath, w, assignment, c, mode); err != nil {
				return err
			}
		}
	}
	return nil
}

// seedInitialBound runs local search (per --init pils/lrbcd) to tighten
// w's upper bound before branch and bound starts, mirroring spec.md
// §4.8's INCOP seeding step. "pils" runs a single restart sequence;
// "lrbcd" fans multiple restarts out in parallel via
// localsearch.RunParallel, matching the two flags' distinct cardinality
// in spec.md §6.
func seedInitialBound(w *wcsp.WCSP, cfg config.Config) {
	const movesPerRestart = 500
	snapshot := w.ReadOnly()
	var result localsearch.Result
	switch cfg.InitialLocalSearch {
	case "lrbcd":
		res, err := localsearch.RunParallel(context.Background(), snapshot, 8, movesPerRestart, cfg.Seed)
		if err != nil {
			return
		}
		result = res
	default: // "pils" and any other truthy value: one restart sequence
		rng := rand.New(rand.NewSource(cfg.Seed))
		result = localsearch.Run(snapshot, movesPerRestart, rng)
	}
	if result.Assignment != nil && result.Cost < w.UB() {
		w.SetUB(result.Cost)
	}
}

func dumpToFile(path string, w *wcsp.WCSP) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wcspsolve: dumping problem: %w", err)
	}
	defer f.Close()
	return output.DumpProblem(f, w)
}

func writeSolutionFile(path string, w *wcsp.WCSP, assignment []int, c int64, mode output.Mode) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wcspsolve: writing solution: %w", err)
	}
	defer f.Close()
	return output.WriteSolution(f, w, assignment, c, mode)
}
