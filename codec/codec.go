// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/danielhkuo/quickly-vote/models"
)

var (
	ErrDecode         = errors.New("decode error")
	ErrBufferTooSmall = errors.New("buffer too small")
)

// Writer appends little-endian, length-prefixed values to a byte slice
type Writer struct {
	buf []byte
}

func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) Len() int {
	return len(w.buf)
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

func (w *Writer) WriteU8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *Writer) WriteU32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *Writer) WriteU64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *Writer) WriteI64(v int64) {
	w.WriteU64(uint64(v))
}

// WriteFixed appends b without a length prefix
func (w *Writer) WriteFixed(b []byte) {
	w.buf = append(w.buf, b...)
}

func (w *Writer) WriteAddress(a models.Address) {
	w.WriteFixed(a[:])
}

// WriteBytes appends a u32 length followed by b
func (w *Writer) WriteBytes(b []byte) {
	w.WriteU32(uint32(len(b)))
	w.WriteFixed(b)
}

func (w *Writer) WriteString(s string) {
	w.WriteU32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *Writer) WriteStrings(ss []string) {
	w.WriteU32(uint32(len(ss)))
	for _, s := range ss {
		w.WriteString(s)
	}
}

func (w *Writer) WriteU32s(vs []uint32) {
	w.WriteU32(uint32(len(vs)))
	for _, v := range vs {
		w.WriteU32(v)
	}
}

// Reader consumes values written by Writer. The first failure is sticky:
// later reads return zero values and Err reports the original cause.
type Reader struct {
	buf []byte
	off int
	err error
}

func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

// Finish fails if a read failed or unread bytes remain
func (r *Reader) Finish() error {
	if r.err != nil {
		return r.err
	}
	if r.Remaining() != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrDecode, r.Remaining())
	}
	return nil
}

func (r *Reader) fail(format string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: "+format, append([]any{ErrDecode}, args...)...)
	}
}

func (r *Reader) next(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || n > r.Remaining() {
		r.fail("need %d bytes at offset %d, have %d", n, r.off, r.Remaining())
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *Reader) ReadBool() bool {
	b := r.next(1)
	if b == nil {
		return false
	}
	switch b[0] {
	case 0:
		return false
	case 1:
		return true
	default:
		r.fail("invalid bool %d", b[0])
		return false
	}
}

func (r *Reader) ReadU8() uint8 {
	b := r.next(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *Reader) ReadU32() uint32 {
	b := r.next(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *Reader) ReadU64() uint64 {
	b := r.next(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *Reader) ReadI64() int64 {
	return int64(r.ReadU64())
}

// ReadFixed returns a copy of the next n bytes
func (r *Reader) ReadFixed(n int) []byte {
	b := r.next(n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

func (r *Reader) ReadAddress() models.Address {
	var a models.Address
	if b := r.next(models.AddressSize); b != nil {
		copy(a[:], b)
	}
	return a
}

func (r *Reader) ReadBytes() []byte {
	n := r.ReadU32()
	return r.ReadFixed(int(n))
}

func (r *Reader) ReadString() string {
	n := r.ReadU32()
	b := r.next(int(n))
	if b == nil {
		return ""
	}
	if !utf8.Valid(b) {
		r.fail("invalid utf-8 string")
		return ""
	}
	return string(b)
}

// count reads a sequence length, rejecting lengths the remaining
// buffer cannot hold at minElem bytes per element
func (r *Reader) count(minElem int) int {
	n := int(r.ReadU32())
	if r.err != nil {
		return 0
	}
	if n*minElem > r.Remaining() {
		r.fail("sequence of %d elements exceeds %d remaining bytes", n, r.Remaining())
		return 0
	}
	return n
}

func (r *Reader) ReadStrings() []string {
	n := r.count(4)
	out := make([]string, 0, n)
	for i := 0; i < n && r.err == nil; i++ {
		out = append(out, r.ReadString())
	}
	return out
}

func (r *Reader) ReadU32s() []uint32 {
	n := r.count(4)
	out := make([]uint32, 0, n)
	for i := 0; i < n && r.err == nil; i++ {
		out = append(out, r.ReadU32())
	}
	return out
}
