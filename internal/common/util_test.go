package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

func TestBearerToken_RoundTrip(t *testing.T) {
	h := BearerToken("abc.def")
	assert.Equal(t, "Bearer abc.def", h)

	tok, ok := ParseBearerToken(h)
	require.True(t, ok)
	assert.Equal(t, "abc.def", tok)
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		wantOK bool
	}{
		{name: "lower case scheme", header: "bearer xyz", want: "xyz", wantOK: true},
		{name: "empty", header: "", wantOK: false},
		{name: "scheme only", header: "Bearer ", wantOK: false},
		{name: "basic auth", header: "Basic dXNlcjpwYXNz", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseBearerToken(tt.header)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
