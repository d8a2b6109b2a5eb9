package file

import (
	"encoding/binary"

	"github.com/custodia-labs/firmproto/internal/abi"
)

// InfoHeaderSize is the offset of FileName in an Info record.
const InfoHeaderSize = 80

// Info is the file information record exchanged under InfoID.
//
// Wire format (80 bytes + name):
//
//	Offset  Size  Field
//	0       8     Size              whole record including the name terminator
//	8       8     FileSize
//	16      8     PhysicalSize
//	24      16    CreateTime
//	40      16    LastAccessTime
//	56      16    ModificationTime
//	72      8     Attribute
//	80      var   FileName          NUL-terminated CHAR16
//
// On set-info the provider ignores PhysicalSize, ignores FileSize on
// directories, refuses a change of the Directory bit, and leaves any zero
// time untouched.
type Info struct {
	FileSize         uint64
	PhysicalSize     uint64
	CreateTime       abi.Time
	LastAccessTime   abi.Time
	ModificationTime abi.Time
	Attribute        Attribute
	// FileName is empty for a root directory.
	FileName string
}

// Size returns the encoded size of the record.
func (i *Info) Size() (uint64, error) {
	return abi.TextRecordSize(InfoHeaderSize, i.FileName)
}

// MarshalBinary encodes the record with its Size field stamped.
func (i *Info) MarshalBinary() ([]byte, error) {
	size, err := i.Size()
	if err != nil {
		return nil, err
	}
	hdr := make([]byte, InfoHeaderSize)
	binary.LittleEndian.PutUint64(hdr[0:8], size)
	binary.LittleEndian.PutUint64(hdr[8:16], i.FileSize)
	binary.LittleEndian.PutUint64(hdr[16:24], i.PhysicalSize)
	i.CreateTime.Encode(hdr[24:40])
	i.LastAccessTime.Encode(hdr[40:56])
	i.ModificationTime.Encode(hdr[56:72])
	binary.LittleEndian.PutUint64(hdr[72:80], uint64(i.Attribute))
	return abi.AppendText(hdr, i.FileName)
}

// UnmarshalBinary decodes a record, validating its Size field against buf.
func (i *Info) UnmarshalBinary(buf []byte) error {
	if len(buf) < InfoHeaderSize {
		return abi.ErrShortBuffer
	}
	size := binary.LittleEndian.Uint64(buf[0:8])
	name, err := abi.ReadTextRecord(buf, InfoHeaderSize, size)
	if err != nil {
		return err
	}
	*i = Info{
		FileSize:         binary.LittleEndian.Uint64(buf[8:16]),
		PhysicalSize:     binary.LittleEndian.Uint64(buf[16:24]),
		CreateTime:       abi.DecodeTime(buf[24:40]),
		LastAccessTime:   abi.DecodeTime(buf[40:56]),
		ModificationTime: abi.DecodeTime(buf[56:72]),
		Attribute:        Attribute(binary.LittleEndian.Uint64(buf[72:80])),
		FileName:         name,
	}
	return nil
}

// EncodeInfoN encodes info into a fixed-capacity view with room for n code
// units of name, terminator included.
func EncodeInfoN(info *Info, n int) ([]byte, error) {
	b, err := info.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return abi.FitText(b, InfoHeaderSize, n)
}

// DecodeInfo decodes an Info record from buf.
func DecodeInfo(buf []byte) (Info, error) {
	var info Info
	err := info.UnmarshalBinary(buf)
	return info, err
}
