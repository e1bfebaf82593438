package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daypatu/ers-pymatching/pkg/decode"
	graphio "github.com/daypatu/ers-pymatching/pkg/io"
	"github.com/daypatu/ers-pymatching/pkg/store"
)

// decodeCommand creates the decode command.
func (c *CLI) decodeCommand() *cobra.Command {
	var (
		shotsPath string
		syndrome  string
		outPath   string
		remote    string
		maxGrowth int64
		refresh   bool
		noCache   bool
		save      bool
		progress  bool
	)

	cmd := &cobra.Command{
		Use:   "decode <graph.json>",
		Short: "Decode syndromes against a detector graph",
		Long: `Decode runs minimum-weight perfect matching on detection events.

Syndromes come from a shot file (--shots) or a single inline detector
list (--syndrome "0,3,7"). Results go to stdout or to a JSON file
(--out) in the same format the graph and shot files use.

With --remote the decode is delegated to a running decode service
(ersmatch serve); --save then archives the run on the service side.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if shotsPath == "" && syndrome == "" {
				return fmt.Errorf("provide --shots or --syndrome")
			}

			if maxGrowth == 0 {
				maxGrowth = c.Config.MaxGrowth
			}
			opts := decode.Options{MaxGrowth: maxGrowth, Refresh: refresh}

			if remote != "" {
				return c.remoteDecodeRun(ctx, remote, args[0], shotsPath, syndrome, outPath, opts, save)
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			g, name, hash, err := runner.LoadGraph(ctx, args[0])
			if err != nil {
				return err
			}
			shots, err := buildShots(shotsPath, syndrome, g.NumNodes())
			if err != nil {
				return err
			}

			var batch *decode.BatchResult
			if progress && len(shots) > 1 {
				batch, err = runBatchTUI(ctx, runner, g, hash, shots, opts)
			} else {
				batch, err = runner.DecodeBatch(ctx, g, hash, shots, opts)
			}
			if err != nil {
				return err
			}

			if err := c.writeDecodeOutput(batch, name, outPath); err != nil {
				return err
			}

			if save {
				st, err := c.newStore(ctx)
				if err != nil {
					return err
				}
				defer st.Close(ctx)
				id, err := st.SaveRun(ctx, &store.Run{
					GraphName:   name,
					GraphHash:   hash,
					Shots:       batch.Stats.Shots,
					CacheHits:   batch.Stats.CacheHits,
					TotalWeight: batch.Stats.TotalWeight,
					MaxGrowth:   maxGrowth,
					Duration:    batch.Stats.Duration,
				})
				if err != nil {
					return err
				}
				printDetail("Run archived as %s", id)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&shotsPath, "shots", "s", "", "JSON shot file with syndromes to decode")
	cmd.Flags().StringVar(&syndrome, "syndrome", "", "inline detector list, e.g. \"0,3,7\"")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write results to a JSON file")
	cmd.Flags().StringVar(&remote, "remote", "", "decode via a running decode service (base URL)")
	cmd.Flags().Int64Var(&maxGrowth, "max-growth", 0, "growth budget in weight units (0 = unbounded)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached results")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result caching")
	cmd.Flags().BoolVar(&save, "save", false, "archive the run")
	cmd.Flags().BoolVar(&progress, "progress", false, "show interactive progress for large batches")

	return cmd
}

// buildShots loads the detection event lists from a shot file or a
// single inline syndrome.
func buildShots(shotsPath, syndrome string, numNodes int) ([][]int, error) {
	if shotsPath != "" {
		return graphio.ImportShots(shotsPath, numNodes)
	}
	events, err := parseSyndrome(syndrome)
	if err != nil {
		return nil, fmt.Errorf("parse syndrome: %w", err)
	}
	return [][]int{events}, nil
}

// writeDecodeOutput prints or exports a batch of decode results.
func (c *CLI) writeDecodeOutput(batch *decode.BatchResult, name, outPath string) error {
	if outPath != "" {
		if err := graphio.ExportResults(batch.Matchings, name, outPath); err != nil {
			return err
		}
		printSuccess("Decoded %d shots", batch.Stats.Shots)
		printFile(outPath)
	} else {
		printMatchings(batch)
	}
	printBatchStats(batch.Stats.Shots, batch.Stats.CacheHits, batch.Stats.TotalWeight)
	return nil
}

// printMatchings prints decode results to stdout, one shot per block.
func printMatchings(batch *decode.BatchResult) {
	for i, m := range batch.Matchings {
		if len(batch.Matchings) > 1 {
			printInfo("shot %d", i)
		}
		for _, p := range m.Pairs {
			target := fmt.Sprint(p.Source2)
			if p.Source2 < 0 {
				target = "boundary"
			}
			line := fmt.Sprintf("%d %s %s", p.Source1, iconArrow, target)
			if p.Observables != 0 {
				line += StyleDim.Render(fmt.Sprintf("  obs %#x", p.Observables))
			}
			fmt.Println("  " + line)
		}
		printKeyValue("weight", fmt.Sprint(m.Weight))
		if m.Observables != 0 {
			printKeyValue("observables", fmt.Sprintf("%#x", m.Observables))
		}
	}
}
