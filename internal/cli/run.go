package cli

import (
	"github.com/spf13/cobra"
)

type runOptions struct {
	arcName string
	keep    bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run [plan]",
		Short: "Start an arc running a catalog plan",
		Long: `Start an arc running the named plan from the loaded catalog, or the only
catalog plan when none is named, and print its partitions and storage keys.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planName := ""
			if len(args) == 1 {
				planName = args[0]
			}
			return runPlan(rootOpts, opts, planName, cmd)
		},
	}
	cmd.Flags().StringVar(&opts.arcName, "arc", "", "arc name")
	cmd.Flags().BoolVar(&opts.keep, "keep", false, "do not stop the arc before exiting")
	return cmd
}

func runPlan(rootOpts *RootOptions, opts *runOptions, planName string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	srv, err := newService(ctx, rootOpts, cmd)
	if err != nil {
		return err
	}
	if !opts.keep {
		defer shutdown(ctx, srv, cmd)
	}
	info, err := srv.Runtime().StartArc(ctx, opts.arcName, planName)
	if err != nil {
		return err
	}
	return writeSummary(cmd.OutOrStdout(), rootOpts.Format, summarize(info))
}
