package hostserial

import (
	"errors"
	"sync"
	"time"

	"github.com/goburrow/serial"

	"github.com/custodia-labs/firmproto/internal/core/domain"
	"github.com/custodia-labs/firmproto/internal/core/ports/driven"
	"github.com/custodia-labs/firmproto/internal/logger"
	sio "github.com/custodia-labs/firmproto/internal/protocols/serial"
)

// Ensure Port implements the interface.
var _ driven.SerialIO = (*Port)(nil)

// Opener opens a host serial device.
type Opener func(*serial.Config) (serial.Port, error)

// Defaults applied to zero fields of a Config.
const (
	DefaultBaudRate = 115200
	DefaultDataBits = 8
	DefaultTimeout  = time.Second
)

// Port is a host serial device behind the serial I/O call table.
type Port struct {
	mu       sync.Mutex
	open     Opener
	defaults serial.Config
	cfg      serial.Config
	port     serial.Port
	raw      []byte
	control  sio.Control
}

// Open opens the device described by cfg.
func Open(cfg serial.Config) (*Port, error) {
	return OpenWith(cfg, serial.Open)
}

// OpenWith opens the device with a custom opener.
func OpenWith(cfg serial.Config, open Opener) (*Port, error) {
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	if cfg.DataBits == 0 {
		cfg.DataBits = DefaultDataBits
	}
	if cfg.StopBits == 0 {
		cfg.StopBits = 1
	}
	if cfg.Parity == "" {
		cfg.Parity = "N"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	port, err := open(&cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("hostserial: opened %s at %d baud", cfg.Address, cfg.BaudRate)
	p := &Port{open: open, defaults: cfg, cfg: cfg, port: port, raw: make([]byte, sio.ModeSize)}
	p.syncMode()
	return p, nil
}

// Close closes the host device.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.port.Close()
}

// Revision reports revision 1.0; the host has no device type to offer.
func (p *Port) Revision() domain.Revision {
	return sio.Revision
}

// Reset reopens the device with the configuration it was opened with.
func (p *Port) Reset() domain.Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.control = 0
	return p.reopen(p.defaults)
}

// SetAttributes reopens the device with new settings. Zero values keep the
// defaults. Mark and space parity and 1.5 stop bits are unsupported.
func (p *Port) SetAttributes(baudRate uint64, receiveFifoDepth, timeout, parity, dataBits, stopBits uint32) domain.Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	cfg := p.defaults
	if baudRate != 0 {
		cfg.BaudRate = int(baudRate)
	}
	if timeout != 0 {
		cfg.Timeout = time.Duration(timeout) * time.Microsecond
	}
	if dataBits != 0 {
		if !sio.ValidDataBits(dataBits) {
			return domain.ErrorStatus(domain.CodeInvalidParameter)
		}
		cfg.DataBits = int(dataBits)
	}
	switch sio.Parity(parity) {
	case sio.DefaultParity:
	case sio.NoParity:
		cfg.Parity = "N"
	case sio.EvenParity:
		cfg.Parity = "E"
	case sio.OddParity:
		cfg.Parity = "O"
	case sio.MarkParity, sio.SpaceParity:
		return domain.ErrorStatus(domain.CodeUnsupported)
	default:
		return domain.ErrorStatus(domain.CodeInvalidParameter)
	}
	switch sio.StopBits(stopBits) {
	case sio.DefaultStopBits:
	case sio.OneStopBit:
		cfg.StopBits = 1
	case sio.TwoStopBits:
		cfg.StopBits = 2
	case sio.OneFiveStopBits:
		return domain.ErrorStatus(domain.CodeUnsupported)
	default:
		return domain.ErrorStatus(domain.CodeInvalidParameter)
	}
	return p.reopen(cfg)
}

// SetControl stores the settable control bits. Loopback cannot be done
// by the host driver.
func (p *Port) SetControl(control uint32) domain.Status {
	c := sio.Control(control)
	if !c.IsSettable() || c&(sio.HardwareLoopbackEnable|sio.SoftwareLoopbackEnable) != 0 {
		return domain.ErrorStatus(domain.CodeUnsupported)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.control = c
	return domain.Success
}

// GetControl reports the stored bits with both buffers empty.
func (p *Port) GetControl(control *uint32) domain.Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	*control = uint32(p.control | sio.InputBufferEmpty | sio.OutputBufferEmpty)
	return domain.Success
}

// Write writes to the device.
func (p *Port) Write(bufferSize *uint, buffer []byte) domain.Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	want := min(int(*bufferSize), len(buffer))
	n, err := p.port.Write(buffer[:want])
	*bufferSize = uint(n)
	return ioStatus(err, n < want)
}

// Read reads until the buffer is full or the device times out.
func (p *Port) Read(bufferSize *uint, buffer []byte) domain.Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	want := min(int(*bufferSize), len(buffer))
	total := 0
	var err error
	for total < want {
		var n int
		n, err = p.port.Read(buffer[total:want])
		total += n
		if err != nil || n == 0 {
			break
		}
	}
	*bufferSize = uint(total)
	return ioStatus(err, total < want)
}

// Mode returns the mode record of the current settings.
func (p *Port) Mode() []byte {
	return p.raw
}

// DeviceType is absent at revision 1.0.
func (p *Port) DeviceType() domain.Guid {
	return domain.Guid{}
}

// reopen closes and opens the device with cfg. Caller holds p.mu.
func (p *Port) reopen(cfg serial.Config) domain.Status {
	if err := p.port.Close(); err != nil {
		logger.Warn("hostserial: close before reopen: %v", err)
	}
	port, err := p.open(&cfg)
	if err != nil {
		logger.Warn("hostserial: reopen %s: %v", cfg.Address, err)
		return domain.ErrorStatus(domain.CodeDeviceError)
	}
	p.port = port
	p.cfg = cfg
	p.syncMode()
	return domain.Success
}

// syncMode rewrites the mode record from p.cfg. Caller holds p.mu.
func (p *Port) syncMode() {
	m := sio.Mode{
		ControlMask:      sio.DataTerminalReady | sio.RequestToSend | sio.HardwareFlowControlEnable | sio.InputBufferEmpty | sio.OutputBufferEmpty,
		Timeout:          uint32(p.cfg.Timeout / time.Microsecond),
		BaudRate:         uint64(p.cfg.BaudRate),
		ReceiveFifoDepth: 1,
		DataBits:         uint32(p.cfg.DataBits),
		Parity:           parityOf(p.cfg.Parity),
		StopBits:         sio.OneStopBit,
	}
	if p.cfg.StopBits == 2 {
		m.StopBits = sio.TwoStopBits
	}
	b, _ := m.MarshalBinary()
	copy(p.raw, b)
}

func parityOf(s string) sio.Parity {
	switch s {
	case "E":
		return sio.EvenParity
	case "O":
		return sio.OddParity
	default:
		return sio.NoParity
	}
}

// ioStatus maps a host I/O result. short reports fewer bytes than asked.
func ioStatus(err error, short bool) domain.Status {
	switch {
	case errors.Is(err, serial.ErrTimeout):
		return domain.ErrorStatus(domain.CodeTimeout)
	case err != nil:
		logger.Warn("hostserial: %v", err)
		return domain.ErrorStatus(domain.CodeDeviceError)
	case short:
		return domain.ErrorStatus(domain.CodeTimeout)
	default:
		return domain.Success
	}
}
