package tdms

// This code would be much simpler if we used encoding/binary's reflection-
// based Read/Write, but that path is measurably slower for the tight, hot
// per-sample loops the block readers run. Every primitive gets its own
// direct byte-slice interpreter instead.

import (
	"encoding/binary"
	"io"
	"math"
	"slices"
	"unicode/utf8"
)

func readBytes(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, newIOError(err)
	}
	return buf, nil
}

func readUint8(r io.Reader, order binary.ByteOrder) (uint8, error) {
	b, err := readBytes(r, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func readUint16(r io.Reader, order binary.ByteOrder) (uint16, error) {
	b, err := readBytes(r, 2)
	if err != nil {
		return 0, err
	}
	return order.Uint16(b), nil
}

func readUint32(r io.Reader, order binary.ByteOrder) (uint32, error) {
	b, err := readBytes(r, 4)
	if err != nil {
		return 0, err
	}
	return order.Uint32(b), nil
}

func readUint64(r io.Reader, order binary.ByteOrder) (uint64, error) {
	b, err := readBytes(r, 8)
	if err != nil {
		return 0, err
	}
	return order.Uint64(b), nil
}

func readInt8(r io.Reader, order binary.ByteOrder) (int8, error) {
	v, err := readUint8(r, order)
	return int8(v), err
}

func readInt16(r io.Reader, order binary.ByteOrder) (int16, error) {
	v, err := readUint16(r, order)
	return int16(v), err
}

func readInt32(r io.Reader, order binary.ByteOrder) (int32, error) {
	v, err := readUint32(r, order)
	return int32(v), err
}

func readInt64(r io.Reader, order binary.ByteOrder) (int64, error) {
	v, err := readUint64(r, order)
	return int64(v), err
}

func readFloat32(r io.Reader, order binary.ByteOrder) (float32, error) {
	v, err := readUint32(r, order)
	return math.Float32frombits(v), err
}

func readFloat64(r io.Reader, order binary.ByteOrder) (float64, error) {
	v, err := readUint64(r, order)
	return math.Float64frombits(v), err
}

// readFloat128 reads a 128-bit IEEE-754 quad value and stores it in
// canonical little-endian byte order, regardless of the source's
// endianness, so the caller never needs to know the source order again to
// interpret the bytes.
func readFloat128(r io.Reader, order binary.ByteOrder) (Float128, error) {
	b, err := readBytes(r, 16)
	if err != nil {
		return Float128{}, err
	}
	if order == binary.BigEndian {
		slices.Reverse(b)
	}
	var f Float128
	copy(f[:], b)
	return f, nil
}

func readBool(r io.Reader, order binary.ByteOrder) (bool, error) {
	v, err := readUint8(r, order)
	return v != 0, err
}

func readTimestamp(r io.Reader, order binary.ByteOrder) (Timestamp, error) {
	fraction, err := readUint64(r, order)
	if err != nil {
		return Timestamp{}, err
	}
	seconds, err := readUint64(r, order)
	if err != nil {
		return Timestamp{}, err
	}
	return Timestamp{Seconds: int64(seconds), Fraction: fraction}, nil
}

func readComplex64(r io.Reader, order binary.ByteOrder) (complex64, error) {
	re, err := readFloat32(r, order)
	if err != nil {
		return 0, err
	}
	im, err := readFloat32(r, order)
	if err != nil {
		return 0, err
	}
	return complex(re, im), nil
}

func readComplex128(r io.Reader, order binary.ByteOrder) (complex128, error) {
	re, err := readFloat64(r, order)
	if err != nil {
		return 0, err
	}
	im, err := readFloat64(r, order)
	if err != nil {
		return 0, err
	}
	return complex(re, im), nil
}

// readString reads a length-prefixed UTF-8 string: a u32 byte count
// followed by that many UTF-8 bytes. Invalid UTF-8 is a fatal decode error
// per the codec's contract.
func readString(r io.Reader, order binary.ByteOrder) (string, error) {
	n, err := readUint32(r, order)
	if err != nil {
		return "", err
	}
	b, err := readBytes(r, int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", newInvalidUTF8Error()
	}
	return string(b), nil
}

func writeUint8(w io.Writer, order binary.ByteOrder, v uint8) error {
	_, err := w.Write([]byte{v})
	if err != nil {
		return newIOError(err)
	}
	return nil
}

func writeUint16(w io.Writer, order binary.ByteOrder, v uint16) error {
	b := make([]byte, 2)
	order.PutUint16(b, v)
	if _, err := w.Write(b); err != nil {
		return newIOError(err)
	}
	return nil
}

func writeUint32(w io.Writer, order binary.ByteOrder, v uint32) error {
	b := make([]byte, 4)
	order.PutUint32(b, v)
	if _, err := w.Write(b); err != nil {
		return newIOError(err)
	}
	return nil
}

func writeUint64(w io.Writer, order binary.ByteOrder, v uint64) error {
	b := make([]byte, 8)
	order.PutUint64(b, v)
	if _, err := w.Write(b); err != nil {
		return newIOError(err)
	}
	return nil
}

func writeInt8(w io.Writer, order binary.ByteOrder, v int8) error {
	return writeUint8(w, order, uint8(v))
}

func writeInt16(w io.Writer, order binary.ByteOrder, v int16) error {
	return writeUint16(w, order, uint16(v))
}

func writeInt32(w io.Writer, order binary.ByteOrder, v int32) error {
	return writeUint32(w, order, uint32(v))
}

func writeInt64(w io.Writer, order binary.ByteOrder, v int64) error {
	return writeUint64(w, order, uint64(v))
}

func writeFloat32(w io.Writer, order binary.ByteOrder, v float32) error {
	return writeUint32(w, order, math.Float32bits(v))
}

func writeFloat64(w io.Writer, order binary.ByteOrder, v float64) error {
	return writeUint64(w, order, math.Float64bits(v))
}

func writeFloat128(w io.Writer, order binary.ByteOrder, v Float128) error {
	b := make([]byte, 16)
	copy(b, v[:])
	if order == binary.BigEndian {
		slices.Reverse(b)
	}
	if _, err := w.Write(b); err != nil {
		return newIOError(err)
	}
	return nil
}

func writeBool(w io.Writer, order binary.ByteOrder, v bool) error {
	if v {
		return writeUint8(w, order, 1)
	}
	return writeUint8(w, order, 0)
}

func writeTimestamp(w io.Writer, order binary.ByteOrder, v Timestamp) error {
	if err := writeUint64(w, order, v.Fraction); err != nil {
		return err
	}
	return writeUint64(w, order, uint64(v.Seconds))
}

func writeComplex64(w io.Writer, order binary.ByteOrder, v complex64) error {
	if err := writeFloat32(w, order, real(v)); err != nil {
		return err
	}
	return writeFloat32(w, order, imag(v))
}

func writeComplex128(w io.Writer, order binary.ByteOrder, v complex128) error {
	if err := writeFloat64(w, order, real(v)); err != nil {
		return err
	}
	return writeFloat64(w, order, imag(v))
}

// writeString writes a length-prefixed UTF-8 string: a u32 byte count
// followed by the UTF-8 bytes.
func writeString(w io.Writer, order binary.ByteOrder, v string) error {
	if err := writeUint32(w, order, uint32(len(v))); err != nil {
		return err
	}
	if _, err := w.Write([]byte(v)); err != nil {
		return newIOError(err)
	}
	return nil
}

// stringWriteSize returns the encoded size of a string value, length prefix
// included, matching the codec's "size is per-value" rule from spec §4.1.
func stringWriteSize(v string) int { return len(v) + 4 }
