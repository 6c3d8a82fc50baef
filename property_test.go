package tdms

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProperty_TypedAccessorsRejectWrongType(t *testing.T) {
	p := Property{Name: "Prop", TypeCode: DataTypeInt32, Value: int32(-1)}

	v, err := p.AsInt32()
	require.NoError(t, err)
	require.Equal(t, int32(-1), v)

	_, err = p.AsFloat64()
	require.ErrorIs(t, err, ErrIncorrectType)
	_, err = p.AsString()
	require.ErrorIs(t, err, ErrIncorrectType)
}

func TestProperty_AsTimeConvertsFromEpoch(t *testing.T) {
	ts := Timestamp{Seconds: 3_300_000_000, Fraction: 0}
	p := Property{Name: "CreatedAt", TypeCode: DataTypeTimestamp, Value: ts}

	v, err := p.AsTime()
	require.NoError(t, err)
	require.Equal(t, ts.AsTime(), v)
}

func TestProperty_String(t *testing.T) {
	p := Property{Name: "Author", Value: "me"}
	require.Equal(t, "Author: me", p.String())
}
