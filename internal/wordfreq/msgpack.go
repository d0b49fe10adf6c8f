package wordfreq

import (
	"bufio"
	"fmt"
	"io"
	"math"
)

// decodeMsgpack reads one msgpack value. Maps decode to map[any]any, arrays
// to []any, integers to int64 (uint64 above MaxInt64), floats to float64.
func decodeMsgpack(r io.Reader) (any, error) {
	d := &msgpackDecoder{r: bufio.NewReader(r)}
	return d.value()
}

type msgpackDecoder struct {
	r *bufio.Reader
}

func (d *msgpackDecoder) value() (any, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return nil, err
	}

	switch {
	case b <= 0x7f:
		return int64(b), nil
	case b >= 0xe0:
		return int64(int8(b)), nil
	case b&0xe0 == 0xa0:
		return d.str(int(b & 0x1f))
	case b&0xf0 == 0x90:
		return d.array(int(b & 0x0f))
	case b&0xf0 == 0x80:
		return d.dict(int(b & 0x0f))
	}

	switch {
	case b == 0xc0:
		return nil, nil
	case b == 0xc2, b == 0xc3:
		return b == 0xc3, nil
	case b >= 0xc4 && b <= 0xc6:
		n, err := d.length(1 << (b - 0xc4))
		if err != nil {
			return nil, err
		}
		return d.bytes(n)
	case b == 0xca:
		bits, err := d.uint(4)
		return float64(math.Float32frombits(uint32(bits))), err
	case b == 0xcb:
		bits, err := d.uint(8)
		return math.Float64frombits(bits), err
	case b >= 0xcc && b <= 0xcf:
		v, err := d.uint(1 << (b - 0xcc))
		if err != nil {
			return nil, err
		}
		if v > math.MaxInt64 {
			return v, nil
		}
		return int64(v), nil
	case b >= 0xd0 && b <= 0xd3:
		size := 1 << (b - 0xd0)
		v, err := d.uint(size)
		if err != nil {
			return nil, err
		}
		shift := uint(64 - 8*size)
		return int64(v<<shift) >> shift, nil
	case b >= 0xd9 && b <= 0xdb:
		n, err := d.length(1 << (b - 0xd9))
		if err != nil {
			return nil, err
		}
		return d.str(n)
	case b == 0xdc, b == 0xdd:
		n, err := d.length(2 << (b - 0xdc))
		if err != nil {
			return nil, err
		}
		return d.array(n)
	case b == 0xde, b == 0xdf:
		n, err := d.length(2 << (b - 0xde))
		if err != nil {
			return nil, err
		}
		return d.dict(n)
	}
	return nil, fmt.Errorf("unsupported msgpack prefix 0x%x", b)
}

func (d *msgpackDecoder) uint(size int) (uint64, error) {
	var v uint64
	for i := 0; i < size; i++ {
		b, err := d.r.ReadByte()
		if err != nil {
			return 0, err
		}
		v = v<<8 | uint64(b)
	}
	return v, nil
}

func (d *msgpackDecoder) length(size int) (int, error) {
	v, err := d.uint(size)
	if err != nil {
		return 0, err
	}
	if v > math.MaxInt32 {
		return 0, fmt.Errorf("msgpack length %d too large", v)
	}
	return int(v), nil
}

func (d *msgpackDecoder) bytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (d *msgpackDecoder) str(n int) (string, error) {
	buf, err := d.bytes(n)
	return string(buf), err
}

func (d *msgpackDecoder) array(n int) ([]any, error) {
	out := make([]any, 0, min(n, 1<<16))
	for i := 0; i < n; i++ {
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (d *msgpackDecoder) dict(n int) (map[any]any, error) {
	out := make(map[any]any, min(n, 1<<16))
	for i := 0; i < n; i++ {
		k, err := d.value()
		if err != nil {
			return nil, err
		}
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		if raw, ok := k.([]byte); ok {
			k = string(raw)
		}
		out[k] = v
	}
	return out, nil
}
