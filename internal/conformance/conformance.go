package conformance

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/firmproto/internal/abi"
	"github.com/custodia-labs/firmproto/internal/adapters/driven/emulated"
	"github.com/custodia-labs/firmproto/internal/core/domain"
	"github.com/custodia-labs/firmproto/internal/core/services"
	"github.com/custodia-labs/firmproto/internal/logger"
	"github.com/custodia-labs/firmproto/internal/protocols/file"
	"github.com/custodia-labs/firmproto/internal/protocols/pointer"
	"github.com/custodia-labs/firmproto/internal/protocols/serial"
)

// Scenario is one named check.
type Scenario struct {
	Name string
	Run  func(base emulated.VolumeConfig) error
}

// Result is the outcome of a scenario.
type Result struct {
	Name     string
	Err      error
	Duration time.Duration
}

// Passed reports whether the scenario succeeded.
func (r Result) Passed() bool {
	return r.Err == nil
}

// Scenarios returns every scenario in run order.
func Scenarios() []Scenario {
	return []Scenario{
		{"status bands", statusBands},
		{"record round trip", recordRoundTrip},
		{"lying record rejected", lyingRecord},
		{"revision gating", revisionGating},
		{"create requires write", createRequiresWrite},
		{"file round trip", fileRoundTrip},
		{"buffer too small then retry", bufferTooSmall},
		{"directory listing", directoryListing},
		{"partial write resumed", partialWrite},
		{"delete failure is a warning", deleteWarning},
		{"async completes out of order", asyncOutOfOrder},
		{"serial loopback", serialLoopback},
		{"pointer input", pointerInput},
	}
}

// Run runs every scenario against volumes derived from base.
func Run(base emulated.VolumeConfig) []Result {
	scenarios := Scenarios()
	results := make([]Result, 0, len(scenarios))
	for _, s := range scenarios {
		logger.Section(s.Name)
		start := time.Now()
		err := s.Run(base)
		results = append(results, Result{Name: s.Name, Err: err, Duration: time.Since(start)})
	}
	return results
}

func statusBands(_ emulated.VolumeConfig) error {
	for code := uintptr(1); code <= 64; code++ {
		e := domain.ErrorStatus(code)
		w := domain.WarningStatus(code)
		if !e.IsError() || e.IsWarning() || e.IsSuccess() {
			return fmt.Errorf("error status %#x misclassified", uint64(e))
		}
		if !w.IsWarning() || w.IsError() {
			return fmt.Errorf("warning status %#x misclassified", uint64(w))
		}
		if _, err := domain.Check(w); err != nil {
			return fmt.Errorf("warning %d aborted: %w", code, err)
		}
		if domain.StatusFrom32(e.To32()) != e {
			return fmt.Errorf("status %#x does not survive 32-bit relocation", uint64(e))
		}
	}
	return nil
}

func recordRoundTrip(_ emulated.VolumeConfig) error {
	for _, n := range []int{0, 1, 4096} {
		in := file.Info{FileSize: uint64(n), Attribute: file.Archive, FileName: strings.Repeat("x", n)}
		b, err := in.MarshalBinary()
		if err != nil {
			return err
		}
		if want := file.InfoHeaderSize + (n+1)*abi.Char16Size; len(b) != want {
			return fmt.Errorf("name of %d units: size %d, want %d", n, len(b), want)
		}
		out, err := file.DecodeInfo(b)
		if err != nil {
			return err
		}
		if out != in {
			return fmt.Errorf("name of %d units did not round trip", n)
		}
	}
	return nil
}

func lyingRecord(_ emulated.VolumeConfig) error {
	in := file.Info{FileName: "boot.efi"}
	b, err := in.MarshalBinary()
	if err != nil {
		return err
	}
	// Claim more bytes than were captured.
	b[0] += 16
	if _, err := file.DecodeInfo(b); !errors.Is(err, domain.ErrBadBufferSize) {
		return fmt.Errorf("oversized claim accepted: %v", err)
	}
	// Drop the terminator.
	b[0] -= 16
	b[len(b)-1], b[len(b)-2] = 'x', 'x'
	if _, err := file.DecodeInfo(b); !errors.Is(err, domain.ErrBadBufferSize) {
		return fmt.Errorf("unterminated name accepted: %v", err)
	}
	return nil
}

func revisionGating(base emulated.VolumeConfig) error {
	cfg := base
	cfg.Revision = file.Revision
	vol := emulated.NewVolume(cfg)
	root, err := services.AcquireFile(vol.OpenVolume())
	if err != nil {
		return err
	}
	defer root.Close()

	if root.Tier() != file.TierBase {
		return fmt.Errorf("tier %s, want base", root.Tier())
	}
	_, err = root.FlushAsync(emulated.NewEvent())
	if !errors.Is(err, domain.ErrUnsupported) {
		return fmt.Errorf("flush-ex on revision 1: %v", err)
	}
	if n := vol.Calls("flush-ex"); n != 0 {
		return fmt.Errorf("flush-ex slot called %d times", n)
	}

	cfg.Revision = 0x0000FFFF
	if _, err := services.AcquireFile(emulated.NewVolume(cfg).OpenVolume()); !errors.Is(err, domain.ErrUnsupported) {
		return fmt.Errorf("revision below base acquired: %v", err)
	}
	return nil
}

func createRequiresWrite(base emulated.VolumeConfig) error {
	vol := emulated.NewVolume(base)
	root, err := services.AcquireFile(vol.OpenVolume())
	if err != nil {
		return err
	}
	defer root.Close()

	_, err = root.Open("new.txt", file.ModeRead|file.ModeCreate, 0)
	if !errors.Is(err, domain.ErrInvalidParameter) {
		return fmt.Errorf("read|create: %v", err)
	}
	if vol.Calls("open") != 0 {
		return errors.New("open slot reached")
	}
	return nil
}

func fileRoundTrip(base emulated.VolumeConfig) error {
	cfg := base
	cfg.ReadOnly = false
	cfg.MaxWrite = 0
	cfg.Capacity = max(cfg.Capacity, 1<<16)
	vol := emulated.NewVolume(cfg)
	root, err := services.AcquireFile(vol.OpenVolume())
	if err != nil {
		return err
	}
	defer root.Close()

	f, err := root.Open(`logs\boot.log`, file.ModeRead|file.ModeWrite|file.ModeCreate, 0)
	if err == nil {
		f.Close()
		return errors.New("created a file in a missing directory")
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	f, err = root.Open("boot.log", file.ModeRead|file.ModeWrite|file.ModeCreate, file.Archive)
	if err != nil {
		return err
	}
	defer f.Close()

	data := []byte("firmware says hello")
	if _, err := services.WriteAll(f, data); err != nil {
		return err
	}
	if err := f.SetPosition(0); err != nil {
		return err
	}
	got := make([]byte, 64)
	n, err := f.Read(got)
	if err != nil {
		return err
	}
	if !bytes.Equal(got[:n], data) {
		return fmt.Errorf("read back %q", got[:n])
	}
	if n, err := f.Read(got); err != nil || n != 0 {
		return fmt.Errorf("read at end of file: %d, %v", n, err)
	}

	for _, size := range []int{0, 1, 4096} {
		if err := roundTripSize(root, size); err != nil {
			return fmt.Errorf("%d bytes: %w", size, err)
		}
	}
	return nil
}

// roundTripSize writes size bytes to a fresh file, rewinds and reads them
// back.
func roundTripSize(root *services.File, size int) error {
	f, err := root.Open(fmt.Sprintf("round-%d.bin", size), file.ModeRead|file.ModeWrite|file.ModeCreate, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i * 7)
	}
	n, err := f.Write(data)
	if err != nil {
		return err
	}
	if n != size {
		return fmt.Errorf("short write of %d", n)
	}
	if err := f.SetPosition(0); err != nil {
		return err
	}
	got := make([]byte, size)
	if n, err = f.Read(got); err != nil {
		return err
	}
	if n != size || !bytes.Equal(got, data) {
		return fmt.Errorf("read back %d bytes that differ", n)
	}
	return nil
}

func bufferTooSmall(base emulated.VolumeConfig) error {
	cfg := base
	cfg.Label = "FIRMWARE-VOLUME"
	vol := emulated.NewVolume(cfg)
	root, err := services.AcquireFile(vol.OpenVolume())
	if err != nil {
		return err
	}
	defer root.Close()

	_, err = root.GetInfo(file.SystemInfoID, nil)
	need, ok := domain.RequiredSize(err)
	if !ok {
		return fmt.Errorf("size query: %v", err)
	}
	if want, _ := abi.TextRecordSize(file.SystemInfoHeaderSize, cfg.Label); need != want {
		return fmt.Errorf("required %d, want %d", need, want)
	}
	si, err := services.ReadSystemInfo(root, make([]byte, need))
	if err != nil {
		return err
	}
	if si.VolumeLabel != cfg.Label {
		return fmt.Errorf("label %q", si.VolumeLabel)
	}
	return nil
}

func directoryListing(base emulated.VolumeConfig) error {
	vol := emulated.NewVolume(base)
	vol.AddFile(`efi\boot\bootx64.efi`, make([]byte, 100))
	vol.AddFile(`efi\boot\grub.cfg`, []byte("set timeout=5"))
	root, err := services.AcquireFile(vol.OpenVolume())
	if err != nil {
		return err
	}
	defer root.Close()

	dir, err := root.Open(`efi\boot`, file.ModeRead, 0)
	if err != nil {
		return err
	}
	defer dir.Close()

	var names []string
	buf := make([]byte, file.InfoHeaderSize)
	for {
		info, more, err := services.ReadDirEntry(dir, buf)
		if need, ok := domain.RequiredSize(err); ok {
			buf = make([]byte, need)
			continue
		}
		if err != nil {
			return err
		}
		if !more {
			break
		}
		names = append(names, info.FileName)
	}
	if strings.Join(names, ",") != "bootx64.efi,grub.cfg" {
		return fmt.Errorf("listed %v", names)
	}
	return nil
}

func partialWrite(base emulated.VolumeConfig) error {
	cfg := base
	cfg.ReadOnly = false
	cfg.MaxWrite = 3
	vol := emulated.NewVolume(cfg)
	root, err := services.AcquireFile(vol.OpenVolume())
	if err != nil {
		return err
	}
	defer root.Close()

	f, err := root.Open("chunks.bin", file.ModeRead|file.ModeWrite|file.ModeCreate, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := f.Write([]byte("0123456789"))
	if err != nil {
		return err
	}
	if n != 3 {
		return fmt.Errorf("first write accepted %d bytes", n)
	}
	if _, err := services.WriteAll(f, []byte("3456789")); err != nil {
		return err
	}
	got, _ := vol.Contents("chunks.bin")
	if string(got) != "0123456789" {
		return fmt.Errorf("contents %q", got)
	}
	return nil
}

func deleteWarning(base emulated.VolumeConfig) error {
	cfg := base
	cfg.ReadOnly = false
	vol := emulated.NewVolume(cfg)
	vol.AddFile(`keep\me.txt`, []byte("x"))
	root, err := services.AcquireFile(vol.OpenVolume())
	if err != nil {
		return err
	}
	defer root.Close()

	dir, err := root.Open("keep", file.ModeRead|file.ModeWrite, 0)
	if err != nil {
		return err
	}
	w, err := dir.Delete()
	if err != nil {
		return fmt.Errorf("delete returned an error: %w", err)
	}
	if w.Code() != domain.WarnDeleteFailure {
		return fmt.Errorf("warning %s", w)
	}
	if !vol.Exists("keep") {
		return errors.New("non-empty directory removed")
	}
	return nil
}

func asyncOutOfOrder(base emulated.VolumeConfig) error {
	cfg := base
	cfg.Revision = file.Revision2
	cfg.ReadOnly = false
	cfg.MaxWrite = 0
	cfg.DeferCompletions = true
	vol := emulated.NewVolume(cfg)
	vol.AddFile("a.bin", []byte("AAAA"))
	vol.AddFile("b.bin", []byte("BBBBBBBB"))
	root, err := services.AcquireFile(vol.OpenVolume())
	if err != nil {
		return err
	}
	defer root.Close()

	a, err := root.Open("a.bin", file.ModeRead, 0)
	if err != nil {
		return err
	}
	defer a.Close()
	b, err := root.Open("b.bin", file.ModeRead, 0)
	if err != nil {
		return err
	}
	defer b.Close()

	bufA, bufB := make([]byte, 16), make([]byte, 16)
	evA, evB := emulated.NewEvent(), emulated.NewEvent()
	ca, err := a.ReadAsync(bufA, evA)
	if err != nil {
		return err
	}
	cb, err := b.ReadAsync(bufB, evB)
	if err != nil {
		return err
	}
	if done, _, _ := ca.Poll(); done {
		return errors.New("deferred token already complete")
	}

	// Complete the second submission first.
	vol.Complete(1)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	nb, err := cb.Wait(ctx)
	if err != nil {
		return err
	}
	if done, _, _ := ca.Poll(); done {
		return errors.New("first token completed with the second")
	}
	vol.Complete(0)
	na, err := ca.Wait(ctx)
	if err != nil {
		return err
	}
	if string(bufA[:na]) != "AAAA" || string(bufB[:nb]) != "BBBBBBBB" {
		return fmt.Errorf("got %q and %q", bufA[:na], bufB[:nb])
	}
	return nil
}

func serialLoopback(_ emulated.VolumeConfig) error {
	dev := emulated.NewSerial(emulated.SerialConfig{})
	port, err := services.AcquireSerial(dev)
	if err != nil {
		return err
	}
	if err := port.SetControl(serial.SoftwareLoopbackEnable); err != nil {
		return err
	}
	if _, err := port.Write([]byte("ping")); err != nil {
		return err
	}
	buf := make([]byte, 8)
	n, err := port.Read(buf)
	if !errors.Is(err, domain.ErrTimeout) || string(buf[:n]) != "ping" {
		return fmt.Errorf("read %q, %v", buf[:n], err)
	}
	dt, err := port.DeviceType()
	if err != nil {
		return err
	}
	if dt != serial.TerminalDeviceTypeGUID {
		return fmt.Errorf("device type %s", dt)
	}
	return nil
}

func pointerInput(_ emulated.VolumeConfig) error {
	dev := emulated.NewPointer(pointer.Mode{ResolutionX: 8, ResolutionY: 8, LeftButton: true})
	ptr, err := services.AcquirePointer(dev)
	if err != nil {
		return err
	}
	if _, err := ptr.State(); !errors.Is(err, domain.ErrNotReady) {
		return fmt.Errorf("idle state: %v", err)
	}
	dev.Push(pointer.State{RelativeMovementX: 5, RelativeMovementY: -3})
	dev.Push(pointer.State{RelativeMovementX: 2, LeftButton: true})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := ptr.WaitForInput().Wait(ctx); err != nil {
		return err
	}
	st, err := ptr.State()
	if err != nil {
		return err
	}
	if st.RelativeMovementX != 7 || st.RelativeMovementY != -3 || !st.LeftButton {
		return fmt.Errorf("state %+v", st)
	}
	return nil
}
