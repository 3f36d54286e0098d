// Package codec implements the binary wire protocol shared by clients and
// the server: tagged-union messages over a byte stream, no outer length
// prefix, one message per WebSocket binary frame.
package codec

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrShortBuffer is returned when a decode reads past the end of input.
var ErrShortBuffer = errors.New("codec: short buffer")

// ErrBadDiscriminant is returned when a tagged union's discriminant byte
// does not match any known variant.
var ErrBadDiscriminant = errors.New("codec: unknown discriminant")

// decoder walks a byte slice left to right, never copying.
type decoder struct {
	buf []byte
	pos int
}

func newDecoder(buf []byte) *decoder { return &decoder{buf: buf} }

func (d *decoder) u8() (uint8, error) {
	if d.pos+1 > len(d.buf) {
		return 0, ErrShortBuffer
	}
	v := d.buf[d.pos]
	d.pos++
	return v, nil
}

func (d *decoder) bytes(n int) ([]byte, error) {
	if d.pos+n > len(d.buf) {
		return nil, ErrShortBuffer
	}
	v := d.buf[d.pos : d.pos+n]
	d.pos += n
	return v, nil
}

func (d *decoder) bool() (bool, error) {
	v, err := d.u8()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func (d *decoder) u16() (uint16, error) {
	b, err := d.bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (d *decoder) u32() (uint32, error) {
	b, err := d.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (d *decoder) f32() (float32, error) {
	b, err := d.bytes(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b)), nil
}

func (d *decoder) floatPair() (float32, float32, error) {
	x, err := d.f32()
	if err != nil {
		return 0, 0, err
	}
	y, err := d.f32()
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// str decodes a 1-byte-length-prefixed string of one-byte characters.
func (d *decoder) str() (string, error) {
	n, err := d.u8()
	if err != nil {
		return "", err
	}
	b, err := d.bytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// optPresent reads the 1-byte present flag used by `optional T`.
func (d *decoder) optPresent() (bool, error) { return d.bool() }

func putU8(out []byte, v uint8) []byte  { return append(out, v) }
func putBool(out []byte, v bool) []byte {
	if v {
		return append(out, 1)
	}
	return append(out, 0)
}

func putU16(out []byte, v uint16) []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return append(out, b[:]...)
}

func putU32(out []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(out, b[:]...)
}

func putF32(out []byte, v float32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], math.Float32bits(v))
	return append(out, b[:]...)
}

func putFloatPair(out []byte, x, y float32) []byte {
	out = putF32(out, x)
	out = putF32(out, y)
	return out
}

// putStr encodes a string with a 1-byte length prefix. Strings longer than
// 255 bytes are lossily truncated to an empty string by design: the length
// byte is written as 0 and no body follows.
func putStr(out []byte, s string) []byte {
	if len(s) > 255 {
		return append(out, 0)
	}
	out = append(out, byte(len(s)))
	return append(out, s...)
}
