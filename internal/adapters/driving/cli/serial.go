package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/firmproto/internal/adapters/driven/hostserial"
	"github.com/custodia-labs/firmproto/internal/core/domain"
	"github.com/custodia-labs/firmproto/internal/core/ports/driven"
	"github.com/custodia-labs/firmproto/internal/core/ports/driving"
	"github.com/custodia-labs/firmproto/internal/core/services"
	"github.com/custodia-labs/firmproto/internal/protocols/serial"
)

var (
	probeDevice string
	probeBaud   uint64
	probeText   string
	probeReply  int
	probeRepeat int
	probeEvery  time.Duration
)

// openSerial opens the host port for serial probe. Tests replace it.
var openSerial = func(device string) (driven.SerialIO, func() error, error) {
	c := configStore.Config()
	cfg := c.PortConfig()
	if device != "" {
		cfg.Address = device
	}
	p, err := hostserial.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return p, p.Close, nil
}

var serialCmd = &cobra.Command{
	Use:   "serial",
	Short: "Work with serial devices",
}

var serialProbeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Send a probe to a host serial device and print the reply",
	Long: `Open a host serial device through the serial I/O wrapper, apply the
requested attributes, write the probe text and read the reply until the
device times out. Defaults come from the [serial] section of the config file.`,
	Args: cobra.NoArgs,
	RunE: runSerialProbe,
}

func init() {
	serialProbeCmd.Flags().StringVar(&probeDevice, "device", "", "serial device path")
	serialProbeCmd.Flags().Uint64Var(&probeBaud, "baud", 0, "baud rate (0 keeps the configured rate)")
	serialProbeCmd.Flags().StringVar(&probeText, "probe", "AT\r", "text to send")
	serialProbeCmd.Flags().IntVar(&probeReply, "reply", 256, "maximum reply bytes")
	serialProbeCmd.Flags().IntVar(&probeRepeat, "repeat", 1, "number of probes to send")
	serialProbeCmd.Flags().DurationVar(&probeEvery, "interval", time.Second, "minimum time between probes")
	serialCmd.AddCommand(serialProbeCmd)
	rootCmd.AddCommand(serialCmd)
}

func runSerialProbe(cmd *cobra.Command, _ []string) error {
	if probeRepeat < 1 {
		return errors.New("--repeat must be at least 1")
	}
	table, closeFn, err := openSerial(probeDevice)
	if err != nil {
		return fmt.Errorf("open serial device: %w", err)
	}
	defer closeFn()

	port, err := services.AcquireSerial(table)
	if err != nil {
		return err
	}
	if probeBaud != 0 {
		if err := port.SetAttributes(driving.SerialAttributes{BaudRate: probeBaud}); err != nil {
			return fmt.Errorf("set attributes: %w", err)
		}
	}

	p := newPalette(cmd.OutOrStdout())
	mode, err := port.Mode()
	if err != nil {
		return err
	}
	cmd.Printf("%s revision tier %s, %d baud, %d data bits, timeout %dus\n",
		p.Title("port"), port.Tier(), mode.BaudRate, mode.DataBits, mode.Timeout)
	if port.Tier() >= serial.TierDeviceType {
		if dt, err := port.DeviceType(); err == nil {
			cmd.Printf("  device type: %s\n", dt)
		}
	}

	limiter := rate.NewLimiter(rate.Every(probeEvery), 1)
	for i := 0; i < probeRepeat; i++ {
		if err := limiter.Wait(cmd.Context()); err != nil {
			return err
		}
		if err := probeOnce(cmd, port, p); err != nil {
			return err
		}
	}
	return nil
}

func probeOnce(cmd *cobra.Command, port driving.SerialPort, p *palette) error {
	n, err := port.Write([]byte(probeText))
	if err != nil {
		return fmt.Errorf("write probe after %d bytes: %w", n, err)
	}

	reply := make([]byte, probeReply)
	n, err = port.Read(reply)
	if err != nil && !errors.Is(err, domain.ErrTimeout) {
		return fmt.Errorf("read reply: %w", err)
	}
	if n == 0 {
		cmd.Printf("%s\n", p.Warning("no reply"))
		return nil
	}
	cmd.Printf("reply (%d bytes): %q\n", n, reply[:n])
	return nil
}
