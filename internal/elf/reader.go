package elf

import (
	"encoding/binary"
	"io"
)

// byteOrder maps a data-encoding value to its binary.ByteOrder. The
// encoding is validated here, at every multi-byte read, rather than
// only at identification time: a Data value is plain data and nothing
// stops a caller from constructing an invalid one.
func (d Data) byteOrder() (binary.ByteOrder, error) {
	switch d {
	case ELFDATA2LSB:
		return binary.LittleEndian, nil
	case ELFDATA2MSB:
		return binary.BigEndian, nil
	}
	return nil, ErrBadEndianness
}

func readUint8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func readUint16(d Data, r io.Reader) (uint16, error) {
	order, err := d.byteOrder()
	if err != nil {
		return 0, err
	}
	var v uint16
	if err := binary.Read(r, order, &v); err != nil {
		return 0, err
	}
	return v, nil
}

func readUint32(d Data, r io.Reader) (uint32, error) {
	order, err := d.byteOrder()
	if err != nil {
		return 0, err
	}
	var v uint32
	if err := binary.Read(r, order, &v); err != nil {
		return 0, err
	}
	return v, nil
}

func readUint64(d Data, r io.Reader) (uint64, error) {
	order, err := d.byteOrder()
	if err != nil {
		return 0, err
	}
	var v uint64
	if err := binary.Read(r, order, &v); err != nil {
		return 0, err
	}
	return v, nil
}

// readWord reads a 32-bit value widened to 64 bits for ELFCLASS32, or
// a native 64-bit value for ELFCLASS64. Class validity is the caller's
// responsibility; Parse rejects unknown classes before any readWord.
func readWord(c Class, d Data, r io.Reader) (uint64, error) {
	if c == ELFCLASS32 {
		v, err := readUint32(d, r)
		return uint64(v), err
	}
	return readUint64(d, r)
}
