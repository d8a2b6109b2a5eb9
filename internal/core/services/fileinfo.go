package services

import (
	"github.com/custodia-labs/firmproto/internal/core/domain"
	"github.com/custodia-labs/firmproto/internal/core/ports/driving"
	"github.com/custodia-labs/firmproto/internal/protocols/file"
)

// The helpers below exchange typed records over GetInfo, SetInfo and Read.
// None of them loops on ErrBufferTooSmall: the caller sees the required
// size, allocates, and calls again.

// ReadInfo reads the handle's Info record through buf.
func ReadInfo(h driving.FileHandle, buf []byte) (file.Info, error) {
	n, err := h.GetInfo(file.InfoID, buf)
	if err != nil {
		return file.Info{}, err
	}
	info, err := file.DecodeInfo(buf[:n])
	if err != nil {
		return file.Info{}, providerLayoutError("file.get-info", err)
	}
	return info, nil
}

// WriteInfo applies info to the handle.
func WriteInfo(h driving.FileHandle, info *file.Info) error {
	b, err := info.MarshalBinary()
	if err != nil {
		return domain.NewInvalidParameter("file.set-info", err.Error())
	}
	return h.SetInfo(file.InfoID, b)
}

// ReadSystemInfo reads the volume's SystemInfo record through buf. The
// handle should be a root directory.
func ReadSystemInfo(h driving.FileHandle, buf []byte) (file.SystemInfo, error) {
	n, err := h.GetInfo(file.SystemInfoID, buf)
	if err != nil {
		return file.SystemInfo{}, err
	}
	info, err := file.DecodeSystemInfo(buf[:n])
	if err != nil {
		return file.SystemInfo{}, providerLayoutError("file.get-info", err)
	}
	return info, nil
}

// ReadVolumeLabel reads the volume label through buf.
func ReadVolumeLabel(h driving.FileHandle, buf []byte) (string, error) {
	n, err := h.GetInfo(file.SystemVolumeLabelID, buf)
	if err != nil {
		return "", err
	}
	var l file.SystemVolumeLabel
	if err := l.UnmarshalBinary(buf[:n]); err != nil {
		return "", providerLayoutError("file.get-info", err)
	}
	return l.VolumeLabel, nil
}

// SetVolumeLabel replaces the volume label.
func SetVolumeLabel(h driving.FileHandle, label string) error {
	l := file.SystemVolumeLabel{VolumeLabel: label}
	b, err := l.MarshalBinary()
	if err != nil {
		return domain.NewInvalidParameter("file.set-info", err.Error())
	}
	return h.SetInfo(file.SystemVolumeLabelID, b)
}

// ReadDirEntry reads the next entry of a directory handle through buf. It
// returns false once the directory is exhausted.
func ReadDirEntry(h driving.FileHandle, buf []byte) (file.Info, bool, error) {
	n, err := h.Read(buf)
	if err != nil {
		return file.Info{}, false, err
	}
	if n == 0 {
		return file.Info{}, false, nil
	}
	info, err := file.DecodeInfo(buf[:n])
	if err != nil {
		return file.Info{}, false, providerLayoutError("file.read", err)
	}
	return info, true, nil
}

// WriteAll writes p, resuming after partial writes, and stops at the first
// error or at a write that makes no progress.
func WriteAll(h driving.FileHandle, p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := h.Write(p[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, &domain.Error{
				Op:     "file.write",
				Kind:   domain.KindDeviceError,
				Status: domain.ErrorStatus(domain.CodeDeviceError),
				Reason: "provider accepted no bytes",
			}
		}
	}
	return total, nil
}

// providerLayoutError reports a record the provider produced that fails
// validation.
func providerLayoutError(op string, err error) error {
	return &domain.Error{
		Op:     op,
		Kind:   domain.KindDeviceError,
		Status: domain.ErrorStatus(domain.CodeDeviceError),
		Reason: "malformed record from provider: " + err.Error(),
	}
}
