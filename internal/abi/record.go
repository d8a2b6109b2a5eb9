package abi

// TextRecordSize returns the size of a record with a fixed header of
// headerSize bytes followed by text and its terminator:
// headerSize + (units + 1) * Char16Size.
func TextRecordSize(headerSize int, text string) (uint64, error) {
	units, err := TextUnits(text)
	if err != nil {
		return 0, err
	}
	return uint64(headerSize) + uint64(units+1)*Char16Size, nil
}

// AppendText appends the encoded text and its terminator to header.
func AppendText(header []byte, text string) ([]byte, error) {
	enc, err := EncodeText(text)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(header)+len(enc))
	out = append(out, header...)
	return append(out, enc...), nil
}

// FitText pads an encoded record out to a fixed capacity of capacity code
// units after the header. The declared size stays the real size; the padding
// is zero. It fails with ErrCapacity when the text and terminator do not fit.
func FitText(record []byte, headerSize, capacity int) ([]byte, error) {
	want := headerSize + capacity*Char16Size
	if len(record) > want {
		return nil, ErrCapacity
	}
	out := make([]byte, want)
	copy(out, record)
	return out, nil
}

// ReadTextRecord validates a foreign-supplied record and returns its
// trailing text. The declared size must cover the header and buf must hold
// at least size bytes; the terminator is searched for only within
// buf[headerSize:size], never past it.
func ReadTextRecord(buf []byte, headerSize int, size uint64) (string, error) {
	if size < uint64(headerSize) {
		return "", ErrSizeBelowHeader
	}
	if uint64(len(buf)) < size {
		return "", ErrShortBuffer
	}
	text, _, err := DecodeText(buf[headerSize:size])
	if err != nil {
		return "", err
	}
	return text, nil
}
