package file

import (
	"fmt"
	"time"

	"github.com/goburrow/serial"

	"github.com/custodia-labs/firmproto/internal/abi"
	"github.com/custodia-labs/firmproto/internal/adapters/driven/emulated"
	"github.com/custodia-labs/firmproto/internal/core/domain"
	fileproto "github.com/custodia-labs/firmproto/internal/protocols/file"
)

// Config is the content of config.toml.
type Config struct {
	Emulator EmulatorConfig `toml:"emulator"`
	Serial   SerialConfig   `toml:"serial"`
}

// EmulatorConfig configures the volume used by selftest.
type EmulatorConfig struct {
	// Revision of the emulated file tables, e.g. 0x00020000.
	Revision uint64 `toml:"revision"`
	Label    string `toml:"label"`
	ReadOnly bool   `toml:"read_only"`
	// Capacity in bytes.
	Capacity  uint64 `toml:"capacity"`
	BlockSize uint32 `toml:"block_size"`
	// MaxWrite caps one write call; 0 disables partial writes.
	MaxWrite int `toml:"max_write"`
}

// SerialConfig configures the host serial device used by serial probe.
type SerialConfig struct {
	Device    string `toml:"device"`
	BaudRate  int    `toml:"baud_rate"`
	DataBits  int    `toml:"data_bits"`
	Parity    string `toml:"parity"`
	StopBits  int    `toml:"stop_bits"`
	TimeoutMS int    `toml:"timeout_ms"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Emulator: EmulatorConfig{
			Revision:  uint64(fileproto.LatestRevision),
			Label:     "FIRMPROTO",
			Capacity:  1 << 20,
			BlockSize: 512,
		},
		Serial: SerialConfig{
			Device:    "/dev/ttyUSB0",
			BaudRate:  115200,
			DataBits:  8,
			Parity:    "N",
			StopBits:  1,
			TimeoutMS: 1000,
		},
	}
}

// Validate checks the values a provider would reject anyway.
func (c *Config) Validate() error {
	if c.Emulator.Capacity == 0 {
		return fmt.Errorf("config: emulator.capacity must be positive: %w", domain.ErrInvalidParameter)
	}
	if _, err := abi.TextUnits(c.Emulator.Label); err != nil {
		return fmt.Errorf("config: emulator.label %q: %w", c.Emulator.Label, err)
	}
	if c.Emulator.MaxWrite < 0 {
		return fmt.Errorf("config: emulator.max_write must not be negative: %w", domain.ErrInvalidParameter)
	}
	switch c.Serial.Parity {
	case "", "N", "E", "O":
	default:
		return fmt.Errorf("config: serial.parity %q not one of N, E, O: %w", c.Serial.Parity, domain.ErrInvalidParameter)
	}
	if c.Serial.StopBits != 0 && c.Serial.StopBits != 1 && c.Serial.StopBits != 2 {
		return fmt.Errorf("config: serial.stop_bits %d not 1 or 2: %w", c.Serial.StopBits, domain.ErrInvalidParameter)
	}
	return nil
}

// VolumeConfig returns the emulated volume settings.
func (c *Config) VolumeConfig() emulated.VolumeConfig {
	return emulated.VolumeConfig{
		Revision:  domain.Revision(c.Emulator.Revision),
		Label:     c.Emulator.Label,
		ReadOnly:  c.Emulator.ReadOnly,
		Capacity:  c.Emulator.Capacity,
		BlockSize: c.Emulator.BlockSize,
		MaxWrite:  c.Emulator.MaxWrite,
	}
}

// PortConfig returns the host serial settings.
func (c *Config) PortConfig() serial.Config {
	return serial.Config{
		Address:  c.Serial.Device,
		BaudRate: c.Serial.BaudRate,
		DataBits: c.Serial.DataBits,
		Parity:   c.Serial.Parity,
		StopBits: c.Serial.StopBits,
		Timeout:  time.Duration(c.Serial.TimeoutMS) * time.Millisecond,
	}
}
