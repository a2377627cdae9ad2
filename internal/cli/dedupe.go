package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Merge catalog entities that share aliases",
	Long: `Dedupe loads the on-disk catalog, merges every pair of entities that
turn out to be the same object, and writes the survivors back.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		svc, err := newService()
		if err != nil {
			return err
		}
		if err := svc.Start(ctx); err != nil {
			return err
		}
		svc.CloseIntake()
		if err := svc.Wait(); err != nil {
			return err
		}

		merges, err := svc.Dedupe(ctx)
		if err != nil {
			return err
		}
		if err := svc.Checkpoint(ctx); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "merged %d duplicate pairs, %d entities remain\n",
			merges, svc.Stats().Entities)
		return svc.Stop(ctx)
	},
}
