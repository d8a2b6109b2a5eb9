package file

import (
	"encoding/binary"

	"github.com/custodia-labs/firmproto/internal/abi"
)

// SystemInfoHeaderSize is the offset of VolumeLabel in a SystemInfo record.
const SystemInfoHeaderSize = 36

// SystemInfo is the file system information record exchanged under
// SystemInfoID on a root directory handle. Only VolumeLabel is writable.
//
// Wire format (36 bytes + label):
//
//	Offset  Size  Field
//	0       8     Size          whole record including the label terminator
//	8       1     ReadOnly
//	9       7     (padding)
//	16      8     VolumeSize
//	24      8     FreeSpace
//	32      4     BlockSize
//	36      var   VolumeLabel   NUL-terminated CHAR16
type SystemInfo struct {
	ReadOnly    bool
	VolumeSize  uint64
	FreeSpace   uint64
	BlockSize   uint32
	VolumeLabel string
}

// Size returns the encoded size of the record.
func (s *SystemInfo) Size() (uint64, error) {
	return abi.TextRecordSize(SystemInfoHeaderSize, s.VolumeLabel)
}

// MarshalBinary encodes the record with its Size field stamped.
func (s *SystemInfo) MarshalBinary() ([]byte, error) {
	size, err := s.Size()
	if err != nil {
		return nil, err
	}
	hdr := make([]byte, SystemInfoHeaderSize)
	binary.LittleEndian.PutUint64(hdr[0:8], size)
	if s.ReadOnly {
		hdr[8] = 1
	}
	binary.LittleEndian.PutUint64(hdr[16:24], s.VolumeSize)
	binary.LittleEndian.PutUint64(hdr[24:32], s.FreeSpace)
	binary.LittleEndian.PutUint32(hdr[32:36], s.BlockSize)
	return abi.AppendText(hdr, s.VolumeLabel)
}

// UnmarshalBinary decodes a record, validating its Size field against buf.
func (s *SystemInfo) UnmarshalBinary(buf []byte) error {
	if len(buf) < SystemInfoHeaderSize {
		return abi.ErrShortBuffer
	}
	size := binary.LittleEndian.Uint64(buf[0:8])
	label, err := abi.ReadTextRecord(buf, SystemInfoHeaderSize, size)
	if err != nil {
		return err
	}
	*s = SystemInfo{
		ReadOnly:    buf[8] != 0,
		VolumeSize:  binary.LittleEndian.Uint64(buf[16:24]),
		FreeSpace:   binary.LittleEndian.Uint64(buf[24:32]),
		BlockSize:   binary.LittleEndian.Uint32(buf[32:36]),
		VolumeLabel: label,
	}
	return nil
}

// DecodeSystemInfo decodes a SystemInfo record from buf.
func DecodeSystemInfo(buf []byte) (SystemInfo, error) {
	var s SystemInfo
	err := s.UnmarshalBinary(buf)
	return s, err
}
