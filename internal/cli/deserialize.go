package cli

import (
	"github.com/spf13/cobra"
)

// NewDeserializeCommand creates the deserialize command.
func NewDeserializeCommand(rootOpts *RootOptions) *cobra.Command {
	keep := false
	cmd := &cobra.Command{
		Use:   "deserialize <document>",
		Short: "Restore a serialized arc",
		Long: `Restore a serialized arc document under its original id on the default
host, replay its stores and reinstantiate its plan.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			srv, err := newService(ctx, rootOpts, cmd)
			if err != nil {
				return err
			}
			if !keep {
				defer shutdown(ctx, srv, cmd)
			}
			info, err := srv.Runtime().Deserialize(ctx, args[0])
			if err != nil {
				return err
			}
			return writeSummary(cmd.OutOrStdout(), rootOpts.Format, summarize(info))
		},
	}
	cmd.Flags().BoolVar(&keep, "keep", false, "do not stop the arc before exiting")
	return cmd
}
