// Package cli implements the arcs command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"github.com/viant/arcs"
	"github.com/viant/arcs/internal/logging"
	"github.com/viant/arcs/model/arc"
	"github.com/viant/arcs/service/event"
	"github.com/viant/arcs/service/meta"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Config   string
	BaseURL  string
	LogLevel string
	Format   string // "json" | "text"
	Plans    []string
	Events   bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the arcs CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "arcs",
		Short: "arcs - plan allocator",
		Long:  "Allocates plans of particles across arc hosts and assigns storage keys to their handles.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "config URL (yaml, json or toml)")
	cmd.PersistentFlags().StringVar(&opts.BaseURL, "base", "", "base URL for relative plan and document URLs")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level (trace|debug|info|warn|error|off)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringSliceVarP(&opts.Plans, "plans", "p", nil, "plan files or folders to load")
	cmd.PersistentFlags().BoolVar(&opts.Events, "events", false, "print arc lifecycle events to stderr")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewDeserializeCommand(opts))
	cmd.AddCommand(NewKeysCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func newService(ctx context.Context, opts *RootOptions, cmd *cobra.Command) (*arcs.Service, error) {
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), "arcs", opts.LogLevel)
	metaService := meta.New(afs.New(), opts.BaseURL)
	config := arcs.DefaultConfig()
	if opts.Config != "" {
		var err error
		if config, err = arcs.LoadConfig(ctx, metaService, opts.Config); err != nil {
			return nil, err
		}
	}
	options := []arcs.Option{
		arcs.WithConfig(config),
		arcs.WithMetaService(metaService),
		arcs.WithLogger(logger),
		arcs.WithPlanURLs(opts.Plans...),
	}
	if opts.Events {
		errOut := cmd.ErrOrStderr()
		options = append(options, arcs.WithArcListener(func(e *event.Event[arc.Record]) {
			fmt.Fprintf(errOut, "event %v %v %v\n", e.Context.EventType, e.Context.ArcID, e.Context.Error)
		}))
	}
	return arcs.New(ctx, options...)
}

type partitionSummary struct {
	Host      string   `json:"host"`
	Particles []string `json:"particles"`
}

type handleSummary struct {
	Name       string   `json:"name"`
	Fate       string   `json:"fate"`
	StorageKey string   `json:"storageKey,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

type arcSummary struct {
	ID         string              `json:"id"`
	OuterArcID string              `json:"outerArcId,omitempty"`
	Partitions []*partitionSummary `json:"partitions,omitempty"`
	Handles    []*handleSummary    `json:"handles,omitempty"`
}

func summarize(info *arc.Info) *arcSummary {
	ret := &arcSummary{ID: info.ID, OuterArcID: info.OuterArcID}
	for _, partition := range info.Partitions() {
		if len(partition.ParticleNames()) == 0 {
			continue
		}
		ret.Partitions = append(ret.Partitions, &partitionSummary{Host: partition.HostID, Particles: partition.ParticleNames()})
	}
	sort.Slice(ret.Partitions, func(i, j int) bool { return ret.Partitions[i].Host < ret.Partitions[j].Host })
	for _, handle := range info.ActivePlan().Handles {
		ret.Handles = append(ret.Handles, &handleSummary{Name: handle.Name, Fate: string(handle.Fate), StorageKey: handle.StorageKey, Tags: handle.Tags})
	}
	return ret
}

func writeSummary(w io.Writer, format string, summary *arcSummary) error {
	if format == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(summary)
	}
	fmt.Fprintf(w, "arc %v\n", summary.ID)
	for _, partition := range summary.Partitions {
		fmt.Fprintf(w, "  host %v: %v\n", partition.Host, partition.Particles)
	}
	for _, handle := range summary.Handles {
		fmt.Fprintf(w, "  handle %v (%v) %v\n", handle.Name, handle.Fate, handle.StorageKey)
	}
	return nil
}

func shutdown(ctx context.Context, srv *arcs.Service, cmd *cobra.Command) {
	if err := srv.Shutdown(ctx); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "shutdown failed: %v\n", err)
	}
}
