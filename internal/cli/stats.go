package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print catalog counts as JSON",
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

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(svc.Stats()); err != nil {
			return err
		}
		return svc.Stop(ctx)
	},
}
