package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// runsCommand creates the run archive command.
func (c *CLI) runsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Browse archived decode runs",
	}

	cmd.AddCommand(c.runsListCommand())
	cmd.AddCommand(c.runsShowCommand())
	cmd.AddCommand(c.runsDeleteCommand())

	return cmd
}

// runsListCommand creates the "runs list" subcommand.
func (c *CLI) runsListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			runs, err := st.ListRuns(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				printInfo("No archived runs")
				return nil
			}
			for _, r := range runs {
				printInfo("%s", r.ID)
				printDetail("%s · %d shots · weight %d · %s",
					nameOr(r.GraphName, r.GraphHash),
					r.Shots, r.TotalWeight,
					r.CreatedAt.Local().Format(time.DateTime))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs to list")
	return cmd
}

// runsShowCommand creates the "runs show" subcommand.
func (c *CLI) runsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one archived run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			run, err := st.GetRun(ctx, args[0])
			if err != nil {
				return err
			}
			printKeyValue("id", run.ID)
			if run.GraphName != "" {
				printKeyValue("graph", run.GraphName)
			}
			printKeyValue("hash", run.GraphHash)
			printKeyValue("shots", fmt.Sprint(run.Shots))
			printKeyValue("cache hits", fmt.Sprint(run.CacheHits))
			printKeyValue("weight", fmt.Sprint(run.TotalWeight))
			if run.MaxGrowth > 0 {
				printKeyValue("max growth", fmt.Sprint(run.MaxGrowth))
			}
			printKeyValue("duration", run.Duration.Round(time.Millisecond).String())
			printKeyValue("created", run.CreatedAt.Local().Format(time.DateTime))
			return nil
		},
	}
}

// runsDeleteCommand creates the "runs delete" subcommand.
func (c *CLI) runsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete an archived run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			if err := st.DeleteRun(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted run %s", args[0])
			return nil
		},
	}
}
