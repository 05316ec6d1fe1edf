package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

type keyResult struct {
	Type         string   `json:"type"`
	Capabilities []string `json:"capabilities,omitempty"`
	StorageKey   string   `json:"storageKey"`
}

// NewKeysCommand creates the keys command.
func NewKeysCommand(rootOpts *RootOptions) *cobra.Command {
	arcID := ""
	handleID := ""
	cmd := &cobra.Command{
		Use:   "keys <type> [capability...]",
		Short: "Show the storage key a handle would be given",
		Long: `Resolve the storage key for a create handle of the given type, for example
'[Person {name: Text}]', with capability annotations such as persistent,
inMemory, queryable or ttl:2h.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			srv, err := newService(ctx, rootOpts, cmd)
			if err != nil {
				return err
			}
			defer shutdown(ctx, srv, cmd)
			if handleID == "" {
				handleID = arcID + ":handle0"
			}
			key, err := srv.Runtime().StorageKey(ctx, arcID, handleID, args[0], args[1:]...)
			if err != nil {
				return err
			}
			result := &keyResult{Type: args[0], Capabilities: args[1:], StorageKey: key.String()}
			if rootOpts.Format == "json" {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(result)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), result.StorageKey)
			return err
		},
	}
	cmd.Flags().StringVar(&arcID, "arc", "!cli:arc", "arc id owning the handle")
	cmd.Flags().StringVar(&handleID, "handle", "", "handle id, defaults to <arc>:handle0")
	return cmd
}
