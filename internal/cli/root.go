// Package cli wires the command-line interface: a TUI cab for driving and
// a headless monitor for watching server traffic.
package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"roundhouse/withrottle-go/pkg/config"
	"roundhouse/withrottle-go/pkg/logger"
	"roundhouse/withrottle-go/pkg/protocol"
	"roundhouse/withrottle-go/pkg/transport"
)

type rootOptions struct {
	configPath string
	address    string
	verbose    bool
}

// NewRootCommand builds the wthrottle command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "wthrottle",
		Short:         "Drive model-railroad locomotives over the WiThrottle protocol",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVarP(&opts.address, "address", "a", "", "server address, overrides the config file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newDriveCommand(opts))
	cmd.AddCommand(newMonitorCommand(opts))
	return cmd
}

// load resolves the effective configuration, flags over file over defaults.
func (o *rootOptions) load() (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		cfg, err = config.Load(o.configPath)
		if err != nil {
			return cfg, err
		}
	}
	if o.address != "" {
		cfg.Transport.Address = o.address
	}
	return cfg, nil
}

func (o *rootOptions) logLevel(cfg config.Config) logger.Level {
	if o.verbose {
		return logger.LevelDebug
	}
	return logger.ParseLevel(cfg.LogLevel)
}

// wire is what the commands need from a transport beyond the engine's view.
type wire interface {
	protocol.Transport
	Close() error
	Statistics() transport.Stats
}

// dial opens the configured transport.
func dial(cfg config.TransportConfig) (wire, error) {
	switch cfg.Kind {
	case config.KindTCP:
		return transport.DialTCP(transport.TCPConfig{
			Address:        cfg.Address,
			ConnectTimeout: cfg.ConnectTimeout.Std(),
			WriteTimeout:   cfg.WriteTimeout.Std(),
		})
	case config.KindSerial:
		return transport.OpenSerial(transport.SerialConfig{
			Port:     cfg.Port,
			BaudRate: cfg.BaudRate,
		})
	case config.KindQUIC:
		return transport.DialQUIC(transport.QUICConfig{
			Address:        cfg.Address,
			ConnectTimeout: cfg.ConnectTimeout.Std(),
			WriteTimeout:   cfg.WriteTimeout.Std(),
		})
	default:
		return nil, fmt.Errorf("unknown transport kind %q", cfg.Kind)
	}
}

// identify announces this throttle to the server. A missing device ID is
// generated fresh per run.
func identify(th *protocol.Throttle, device config.DeviceConfig) error {
	if err := th.SetDeviceName(device.Name); err != nil {
		return err
	}
	id := device.ID
	if id == "" {
		id = uuid.NewString()
	}
	return th.SetDeviceID(id)
}
