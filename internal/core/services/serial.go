package services

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/firmproto/internal/core/domain"
	"github.com/custodia-labs/firmproto/internal/core/ports/driven"
	"github.com/custodia-labs/firmproto/internal/core/ports/driving"
	"github.com/custodia-labs/firmproto/internal/logger"
	"github.com/custodia-labs/firmproto/internal/protocols/serial"
)

// Ensure SerialPort implements the interface.
var _ driving.SerialPort = (*SerialPort)(nil)

// SerialPort wraps a borrowed serial I/O table. Calls are serialized.
type SerialPort struct {
	mu      sync.Mutex
	table   driven.SerialIO
	rev     domain.Revision
	tier    serial.Tier
	warning domain.Warning
}

// AcquireSerial wraps a borrowed table and caches its tier.
func AcquireSerial(table driven.SerialIO) (*SerialPort, error) {
	if table == nil {
		return nil, domain.NewInvalidParameter("serial.acquire", "nil table")
	}
	rev := table.Revision()
	tier, err := serial.TierFor(rev)
	if err != nil {
		return nil, err
	}
	logger.Debug("serial: acquired table revision %s, tier %s", rev, tier)
	return &SerialPort{table: table, rev: rev, tier: tier}, nil
}

// Tier returns the capability tier resolved at acquisition.
func (p *SerialPort) Tier() serial.Tier {
	return p.tier
}

// Warning returns the warning of the most recent call, if any.
func (p *SerialPort) Warning() domain.Warning {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.warning
}

// Reset resets the device.
func (p *SerialPort) Reset() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.finish("serial.reset", p.table.Reset())
}

// SetAttributes validates and applies attrs.
func (p *SerialPort) SetAttributes(attrs driving.SerialAttributes) error {
	const op = "serial.set-attributes"
	switch {
	case !attrs.Parity.Valid():
		return domain.NewInvalidParameter(op, fmt.Sprintf("parity %d", attrs.Parity))
	case !attrs.StopBits.Valid():
		return domain.NewInvalidParameter(op, fmt.Sprintf("stop bits %d", attrs.StopBits))
	case !serial.ValidDataBits(attrs.DataBits):
		return domain.NewInvalidParameter(op, fmt.Sprintf("data bits %d", attrs.DataBits))
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.finish(op, p.table.SetAttributes(attrs.BaudRate, attrs.ReceiveFifoDepth,
		attrs.Timeout, uint32(attrs.Parity), attrs.DataBits, uint32(attrs.StopBits)))
}

// SetControl sets the settable control bits.
func (p *SerialPort) SetControl(c serial.Control) error {
	const op = "serial.set-control"
	if !c.IsSettable() {
		return domain.NewInvalidParameter(op, fmt.Sprintf("bits %#x are read-only", uint32(c&^serial.Settable)))
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.finish(op, p.table.SetControl(uint32(c)))
}

// Control returns the control and status bits.
func (p *SerialPort) Control() (serial.Control, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var c uint32
	if err := p.finish("serial.get-control", p.table.GetControl(&c)); err != nil {
		return 0, err
	}
	return serial.Control(c), nil
}

// Write writes b and returns the count written. On a timeout the count of
// bytes already written is returned with the error.
func (p *SerialPort) Write(b []byte) (int, error) {
	return p.transfer("serial.write", b, p.table.Write)
}

// Read reads into b. On a timeout the count of bytes already read is
// returned with the error.
func (p *SerialPort) Read(b []byte) (int, error) {
	return p.transfer("serial.read", b, p.table.Read)
}

func (p *SerialPort) transfer(op string, b []byte, slot func(*uint, []byte) domain.Status) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	size := uint(len(b))
	err := p.finish(op, slot(&size, b))
	n, cerr := checkCount(op, size, len(b))
	if cerr != nil {
		return 0, cerr
	}
	return n, err
}

// Mode returns a copy of the provider's current mode. The copy is taken
// under the port lock; the provider may change the original at any time.
func (p *SerialPort) Mode() (serial.Mode, error) {
	p.mu.Lock()
	raw := append([]byte(nil), p.table.Mode()...)
	p.mu.Unlock()

	var m serial.Mode
	if err := m.UnmarshalBinary(raw); err != nil {
		return serial.Mode{}, providerLayoutError("serial.mode", err)
	}
	return m, nil
}

// DeviceType returns the device type GUID. The field only exists from
// revision 1.1; older tables fail with ErrUnsupported without being read.
func (p *SerialPort) DeviceType() (domain.Guid, error) {
	const op = "serial.device-type"
	if p.tier < serial.TierDeviceType {
		return domain.Guid{}, domain.NewUnsupported(op,
			fmt.Sprintf("requires revision %s, table has %s", serial.Revision1p1, p.rev))
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.table.DeviceType(), nil
}

// finish traces and translates a slot status. Caller holds p.mu.
func (p *SerialPort) finish(op string, s domain.Status) error {
	logger.Call(op, s)
	w, err := domain.CheckOp(op, s)
	p.warning = w
	return err
}
