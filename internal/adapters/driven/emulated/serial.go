package emulated

import (
	"sync"

	"github.com/custodia-labs/firmproto/internal/core/domain"
	"github.com/custodia-labs/firmproto/internal/core/ports/driven"
	"github.com/custodia-labs/firmproto/internal/protocols/serial"
)

// Ensure Serial implements the interface.
var _ driven.SerialIO = (*Serial)(nil)

// SerialConfig configures a Serial device.
type SerialConfig struct {
	// Revision defaults to serial.Revision1p1.
	Revision domain.Revision

	// DeviceType is reported from revision 1.1. Defaults to the terminal type.
	DeviceType domain.Guid

	// Defaults is the mode restored by Reset and used for zero attributes.
	// Zero fields default to 115200 baud, 8N1, a 16 byte FIFO and a
	// 1 second timeout.
	Defaults serial.Mode
}

// Serial is an in-memory UART. Bytes written leave through Sent unless
// software loopback is enabled, in which case they are queued for Read.
// Bytes queued with Feed arrive on Read.
type Serial struct {
	*slots

	mu      sync.Mutex
	cfg     SerialConfig
	mode    serial.Mode
	raw     []byte
	control serial.Control
	rx      []byte
	tx      []byte
}

// NewSerial creates a device in its default mode.
func NewSerial(cfg SerialConfig) *Serial {
	if cfg.Revision == 0 {
		cfg.Revision = serial.Revision1p1
	}
	if cfg.DeviceType.IsZero() {
		cfg.DeviceType = serial.TerminalDeviceTypeGUID
	}
	d := &cfg.Defaults
	if d.BaudRate == 0 {
		d.BaudRate = 115200
	}
	if d.ReceiveFifoDepth == 0 {
		d.ReceiveFifoDepth = 16
	}
	if d.Timeout == 0 {
		d.Timeout = 1000000
	}
	if d.DataBits == 0 {
		d.DataBits = 8
	}
	if d.Parity == serial.DefaultParity {
		d.Parity = serial.NoParity
	}
	if d.StopBits == serial.DefaultStopBits {
		d.StopBits = serial.OneStopBit
	}
	if d.ControlMask == 0 {
		d.ControlMask = serial.Settable | serial.ClearToSend | serial.DataSetReady |
			serial.CarrierDetect | serial.InputBufferEmpty | serial.OutputBufferEmpty
	}
	s := &Serial{slots: newSlots(), cfg: cfg, raw: make([]byte, serial.ModeSize)}
	s.setMode(cfg.Defaults)
	return s
}

// Feed queues bytes for Read, as if they arrived on the line.
func (s *Serial) Feed(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rx = append(s.rx, b...)
}

// Sent returns and clears the bytes written to the line.
func (s *Serial) Sent() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.tx
	s.tx = nil
	return out
}

// Revision returns the configured revision.
func (s *Serial) Revision() domain.Revision {
	return s.cfg.Revision
}

// Reset drops queued input, clears the control bits and restores defaults.
func (s *Serial) Reset() domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.enter("reset"); ok {
		return st
	}
	s.rx = nil
	s.control = 0
	s.setMode(s.cfg.Defaults)
	return domain.Success
}

// SetAttributes changes the mode. Zero values select the defaults.
func (s *Serial) SetAttributes(baudRate uint64, receiveFifoDepth, timeout, parity, dataBits, stopBits uint32) domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.enter("set-attributes"); ok {
		return st
	}
	if !serial.Parity(parity).Valid() || !serial.StopBits(stopBits).Valid() || !serial.ValidDataBits(dataBits) {
		return fail(domain.CodeInvalidParameter)
	}
	d := s.cfg.Defaults
	m := s.mode
	m.BaudRate = pick64(baudRate, d.BaudRate)
	m.ReceiveFifoDepth = pick(receiveFifoDepth, d.ReceiveFifoDepth)
	m.Timeout = pick(timeout, d.Timeout)
	m.Parity = serial.Parity(pick(parity, uint32(d.Parity)))
	m.DataBits = pick(dataBits, d.DataBits)
	m.StopBits = serial.StopBits(pick(stopBits, uint32(d.StopBits)))
	s.setMode(m)
	return domain.Success
}

// SetControl replaces the settable control bits.
func (s *Serial) SetControl(control uint32) domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.enter("set-control"); ok {
		return st
	}
	c := serial.Control(control)
	if !c.IsSettable() {
		return fail(domain.CodeUnsupported)
	}
	s.control = c
	return domain.Success
}

// GetControl stores the settable bits plus the line status bits.
func (s *Serial) GetControl(control *uint32) domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.enter("get-control"); ok {
		return st
	}
	c := s.control | serial.ClearToSend | serial.DataSetReady | serial.CarrierDetect | serial.OutputBufferEmpty
	if len(s.rx) == 0 {
		c |= serial.InputBufferEmpty
	}
	*control = uint32(c)
	return domain.Success
}

// Write sends bytes. In loopback the receive FIFO bounds how many are
// accepted; the rest time out.
func (s *Serial) Write(bufferSize *uint, buffer []byte) domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.enter("write"); ok {
		*bufferSize = 0
		return st
	}
	want := min(int(*bufferSize), len(buffer))
	if s.control&serial.SoftwareLoopbackEnable == 0 {
		s.tx = append(s.tx, buffer[:want]...)
		*bufferSize = uint(want)
		return domain.Success
	}
	room := max(int(s.mode.ReceiveFifoDepth)-len(s.rx), 0)
	n := min(want, room)
	s.rx = append(s.rx, buffer[:n]...)
	*bufferSize = uint(n)
	if n < want {
		return fail(domain.CodeTimeout)
	}
	return domain.Success
}

// Read receives queued bytes. Asking for more than is queued returns what
// there is with a timeout.
func (s *Serial) Read(bufferSize *uint, buffer []byte) domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.enter("read"); ok {
		*bufferSize = 0
		return st
	}
	want := min(int(*bufferSize), len(buffer))
	n := copy(buffer[:want], s.rx)
	s.rx = s.rx[n:]
	*bufferSize = uint(n)
	if n < want {
		return fail(domain.CodeTimeout)
	}
	return domain.Success
}

// Mode returns the live mode record. SetAttributes and Reset rewrite it in
// place.
func (s *Serial) Mode() []byte {
	return s.raw
}

// DeviceType returns the configured device type.
func (s *Serial) DeviceType() domain.Guid {
	s.enter("device-type")
	return s.cfg.DeviceType
}

// setMode stores m and rewrites the live record. Caller holds s.mu.
func (s *Serial) setMode(m serial.Mode) {
	s.mode = m
	b, _ := m.MarshalBinary()
	copy(s.raw, b)
}

func pick(v, def uint32) uint32 {
	if v == 0 {
		return def
	}
	return v
}

func pick64(v, def uint64) uint64 {
	if v == 0 {
		return def
	}
	return v
}
