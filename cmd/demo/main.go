// Command demo drives a TemporalMemory engine against a generated column
// sequence and prints the resulting activation state at every step. It is
// the "pattern/sequence generator" collaborator spec.md §1 scopes out of
// the core engine, wired up end to end: internal/generators produces the
// input SDR stream, internal/cortical/temporal learns it.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/htm-project/temporal-memory/internal/cortical/temporal"
	"github.com/htm-project/temporal-memory/internal/generators"
	"github.com/htm-project/temporal-memory/internal/generators/sdr"
)

func main() {
	generatorType := flag.String("generator", "repeating", "generator type: random, repeating, or fixed")
	steps := flag.Int("steps", 20, "number of Compute steps to run")
	numColumns := flag.Int("columns", 128, "size of the column space")
	sparsity := flag.Float64("sparsity", 0.05, "target sparsity of generated patterns")
	seed := flag.Uint64("seed", 42, "seed for both the generator and the engine")
	snapshotPath := flag.String("snapshot", "", "if set, write the final engine snapshot to this path")
	flag.Parse()

	registry := generators.GetGlobalRegistry()
	gen, err := registry.Create(*generatorType)
	if err != nil {
		log.Fatalf("unknown generator %q: %v", *generatorType, err)
	}

	genCfg := *generators.NewGeneratorConfig()
	genCfg.NumColumns = *numColumns
	genCfg.TargetSparsity = *sparsity
	genCfg.Seed = *seed
	if err := gen.Configure(genCfg); err != nil {
		log.Fatalf("failed to configure generator: %v", err)
	}

	params := temporal.DefaultParameters()
	params.ColumnDimensions = []int{*numColumns}
	params.Seed = *seed

	tm, err := temporal.NewTemporalMemory(params)
	if err != nil {
		log.Fatalf("failed to construct engine: %v", err)
	}

	tracker, err := sdr.NewSparsityTracker(*sparsity)
	if err != nil {
		log.Fatalf("failed to construct sparsity tracker: %v", err)
	}

	var previous *sdr.Pattern
	for step := 0; step < *steps; step++ {
		activeColumns, err := gen.Generate(step)
		if err != nil {
			log.Fatalf("generator failed at step %d: %v", step, err)
		}
		if err := tm.Compute(activeColumns, true); err != nil {
			log.Fatalf("compute failed at step %d: %v", step, err)
		}

		current, err := sdr.NewPattern(*numColumns, activeColumns)
		if err != nil {
			log.Fatalf("failed to wrap step %d's pattern: %v", step, err)
		}
		tracker.Add(current)

		repeatSimilarity := sdr.OverlapSimilarity(previous, current)
		previous = current

		fmt.Printf("step=%d active_columns=%v repeat_similarity=%.3f active_cells=%d winner_cells=%d predictive_cells=%d segments=%d synapses=%d\n",
			step, activeColumns, repeatSimilarity, len(tm.GetActiveCells()), len(tm.GetWinnerCells()), len(tm.GetPredictiveCells()),
			tm.NumSegments(), tm.NumSynapses())
	}

	report := tracker.Report()
	fmt.Printf("sparsity: mean=%.4f min=%.4f max=%.4f stddev=%.4f in_range=%d/%d\n",
		report.Mean, report.Min, report.Max, report.StdDev, report.InRange, report.Count)

	if *snapshotPath != "" {
		f, err := os.Create(*snapshotPath)
		if err != nil {
			log.Fatalf("failed to create snapshot file: %v", err)
		}
		defer f.Close()
		if err := tm.Write(f); err != nil {
			log.Fatalf("failed to write snapshot: %v", err)
		}
		fmt.Printf("snapshot written to %s\n", *snapshotPath)
	}
}
