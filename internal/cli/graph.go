package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daypatu/ers-pymatching/pkg/decode"
	"github.com/daypatu/ers-pymatching/pkg/errors"
	graphio "github.com/daypatu/ers-pymatching/pkg/io"
)

// graphCommand creates the graph inspection command.
func (c *CLI) graphCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Inspect and validate detector graph files",
	}

	cmd.AddCommand(c.graphInspectCommand())
	cmd.AddCommand(c.graphValidateCommand())

	return cmd
}

// graphInspectCommand creates the "graph inspect" subcommand.
func (c *CLI) graphInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <graph.json>",
		Short: "Print detector graph statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, name, err := graphio.ImportGraph(args[0])
			if err != nil {
				return err
			}
			hash, err := decode.GraphHash(g, name)
			if err != nil {
				return err
			}

			if name != "" {
				printKeyValue("name", name)
			}
			printKeyValue("detectors", fmt.Sprint(g.NumNodes()))
			printKeyValue("edges", fmt.Sprint(len(g.Edges())))
			printKeyValue("boundary", fmt.Sprint(len(g.BoundaryEdges())))
			printKeyValue("observables", fmt.Sprint(g.NumObservables()))
			printKeyValue("hash", hash)
			return nil
		},
	}
}

// graphValidateCommand creates the "graph validate" subcommand.
func (c *CLI) graphValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <graph.json>...",
		Short: "Check that graph files are well formed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				g, _, err := graphio.ImportGraph(path)
				if err != nil {
					printError("%s: %s", path, errors.UserMessage(err))
					failed++
					continue
				}
				printSuccess("%s", path)
				printGraphStats(g.NumNodes(), len(g.Edges()), len(g.BoundaryEdges()))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files invalid", failed, len(args))
			}
			return nil
		},
	}
}
