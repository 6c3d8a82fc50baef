package tdms

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	cases := []struct {
		name        string
		path        string
		wantGroup   string
		wantChannel string
		wantErr     bool
	}{
		{name: "root", path: "", wantGroup: "", wantChannel: ""},
		{name: "group only", path: "/'group'", wantGroup: "group", wantChannel: ""},
		{name: "group and channel", path: "/'group'/'channel'", wantGroup: "group", wantChannel: "channel"},
		{name: "escaped quote in name", path: "/'gr''oup'/'ch''an'", wantGroup: "gr'oup", wantChannel: "ch'an"},
		{name: "missing leading slash", path: "'group'", wantErr: true},
		{name: "unterminated quote", path: "/'group", wantErr: true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			group, channel, err := parsePath(c.path)
			if c.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, c.wantGroup, group)
			require.Equal(t, c.wantChannel, channel)
		})
	}
}

func TestEncodePath_RoundTripsWithParsePath(t *testing.T) {
	cases := []struct {
		group, channel string
	}{
		{"", ""},
		{"group", ""},
		{"group", "channel"},
		{"gr'oup", "ch'an"},
	}

	for _, c := range cases {
		encoded := encodePath(c.group, c.channel)
		group, channel, err := parsePath(encoded)
		require.NoError(t, err)
		require.Equal(t, c.group, group)
		require.Equal(t, c.channel, channel)
	}
}
