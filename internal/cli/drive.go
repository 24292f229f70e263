package cli

import (
	"github.com/spf13/cobra"

	"roundhouse/withrottle-go/internal/tui"
	"roundhouse/withrottle-go/pkg/logger"
	"roundhouse/withrottle-go/pkg/protocol"
)

func newDriveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "drive",
		Short: "Open the interactive cab",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			w, err := dial(cfg.Transport)
			if err != nil {
				return err
			}
			defer w.Close()

			// The TUI owns stdout, so engine diagnostics are muted.
			th := protocol.New(protocol.Config{}, nil, logger.NewNoOpLogger())
			th.Connect(w)
			if err := identify(th, cfg.Device); err != nil {
				return err
			}

			return tui.Run(th)
		},
	}
}
