package file

import "github.com/custodia-labs/firmproto/internal/abi"

// SystemVolumeLabel is the record exchanged under SystemVolumeLabelID. It is
// nothing but the NUL-terminated label, so it has no Size field: the buffer
// length is the only bound.
type SystemVolumeLabel struct {
	VolumeLabel string
}

// Size returns the encoded size of the record.
func (l *SystemVolumeLabel) Size() (uint64, error) {
	return abi.TextRecordSize(0, l.VolumeLabel)
}

// MarshalBinary encodes the label and its terminator.
func (l *SystemVolumeLabel) MarshalBinary() ([]byte, error) {
	return abi.EncodeText(l.VolumeLabel)
}

// UnmarshalBinary decodes the label, bounded by len(buf).
func (l *SystemVolumeLabel) UnmarshalBinary(buf []byte) error {
	label, err := abi.ReadTextRecord(buf, 0, uint64(len(buf)))
	if err != nil {
		return err
	}
	l.VolumeLabel = label
	return nil
}
