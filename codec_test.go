package tdms

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCodecRoundTrip checks spec §8's round-trip and size-law invariants:
// read(write(v)) == v under both endiannesses, and len(write(v)) == v.size().
func TestCodecRoundTrip(t *testing.T) {
	orders := []binary.ByteOrder{binary.LittleEndian, binary.BigEndian}

	for _, order := range orders {
		t.Run(orderName(order), func(t *testing.T) {
			var buf bytes.Buffer

			require.NoError(t, writeInt8(&buf, order, -7))
			v8, err := readInt8(&buf, order)
			require.NoError(t, err)
			require.Equal(t, int8(-7), v8)

			buf.Reset()
			require.NoError(t, writeUint16(&buf, order, 40000))
			require.Equal(t, 2, buf.Len())
			vu16, err := readUint16(&buf, order)
			require.NoError(t, err)
			require.Equal(t, uint16(40000), vu16)

			buf.Reset()
			require.NoError(t, writeInt32(&buf, order, -123456))
			require.Equal(t, 4, buf.Len())
			v32, err := readInt32(&buf, order)
			require.NoError(t, err)
			require.Equal(t, int32(-123456), v32)

			buf.Reset()
			require.NoError(t, writeFloat64(&buf, order, math.Pi))
			require.Equal(t, 8, buf.Len())
			vf, err := readFloat64(&buf, order)
			require.NoError(t, err)
			require.Equal(t, math.Pi, vf)

			buf.Reset()
			require.NoError(t, writeBool(&buf, order, true))
			require.Equal(t, 1, buf.Len())
			vb, err := readBool(&buf, order)
			require.NoError(t, err)
			require.True(t, vb)

			buf.Reset()
			require.NoError(t, writeComplex128(&buf, order, complex(1.5, -2.5)))
			require.Equal(t, 16, buf.Len())
			vc, err := readComplex128(&buf, order)
			require.NoError(t, err)
			require.Equal(t, complex(1.5, -2.5), vc)

			buf.Reset()
			require.NoError(t, writeString(&buf, order, "hello tdms"))
			require.Equal(t, stringWriteSize("hello tdms"), buf.Len())
			vs, err := readString(&buf, order)
			require.NoError(t, err)
			require.Equal(t, "hello tdms", vs)

			buf.Reset()
			ts := Timestamp{Seconds: 123456789, Fraction: 42}
			require.NoError(t, writeTimestamp(&buf, order, ts))
			require.Equal(t, 16, buf.Len())
			vt, err := readTimestamp(&buf, order)
			require.NoError(t, err)
			require.Equal(t, ts, vt)
		})
	}
}

func orderName(order binary.ByteOrder) string {
	if order == binary.BigEndian {
		return "big_endian"
	}
	return "little_endian"
}
