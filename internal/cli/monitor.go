package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"roundhouse/withrottle-go/pkg/logger"
	"roundhouse/withrottle-go/pkg/protocol"
)

// pollInterval paces the headless poll loop. Inbound traffic is buffered
// by the transport, so 20ms is responsive without spinning.
const pollInterval = 20 * time.Millisecond

func newMonitorCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "monitor",
		Short: "Connect and log server traffic without driving",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			log := logger.NewPrefixedLogger(opts.logLevel(cfg), cfg.Transport.Address)

			w, err := dial(cfg.Transport)
			if err != nil {
				return err
			}
			defer w.Close()

			th := protocol.New(protocol.Config{}, &loggingDelegate{log: log}, log)
			th.Connect(w)
			if err := identify(th, cfg.Device); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info("monitoring %s, ctrl-c to stop", cfg.Transport.Address)

			ticker := time.NewTicker(pollInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					stats := w.Statistics()
					log.Info("done: %d bytes in, %d bytes out", stats.BytesReceived, stats.BytesSent)
					return nil
				case <-ticker.C:
					th.Poll()
				}
			}
		},
	}
}

// loggingDelegate prints every engine event at info level.
type loggingDelegate struct {
	log logger.Logger
}

func (d *loggingDelegate) HeartbeatConfig(seconds int) {
	d.log.Info("server demands a heartbeat every %ds", seconds)
}

func (d *loggingDelegate) ReceivedVersion(version string) {
	d.log.Info("server version %s", version)
}

func (d *loggingDelegate) ReceivedWebPort(port int) {
	d.log.Info("server web port %d", port)
}

func (d *loggingDelegate) ReceivedFunctionState(funcNum int, pressed bool) {
	d.log.Info("function F%d pressed=%v", funcNum, pressed)
}

func (d *loggingDelegate) ReceivedSpeed(speed int) {
	d.log.Info("speed %d", speed)
}

func (d *loggingDelegate) ReceivedSpeedSteps(steps int) {
	d.log.Info("speed steps %d", steps)
}

func (d *loggingDelegate) ReceivedDirection(dir protocol.Direction) {
	d.log.Info("direction %s", dir)
}

func (d *loggingDelegate) ReceivedTrackPower(power protocol.TrackPower) {
	d.log.Info("track power %s", power)
}

func (d *loggingDelegate) AddressAdded(address, entry string) {
	d.log.Info("address %s added (%s)", address, entry)
}

func (d *loggingDelegate) AddressRemoved(address, entry string) {
	d.log.Info("address %s removed (%s)", address, entry)
}

func (d *loggingDelegate) AddressStealNeeded(address, entry string) {
	d.log.Info("address %s needs to be stolen (%s)", address, entry)
}
