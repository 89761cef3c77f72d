package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTicker(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "lowercase is uppercased", input: "aapl", want: "AAPL", wantOK: true},
		{name: "surrounding whitespace trimmed", input: "  msft ", want: "MSFT", wantOK: true},
		{name: "exchange suffix", input: "7203.t", want: "7203.T", wantOK: true},
		{name: "share class hyphen", input: "brk-b", want: "BRK-B", wantOK: true},
		{name: "index symbol", input: "^gspc", want: "^GSPC", wantOK: true},
		{name: "empty", input: "", wantOK: false},
		{name: "whitespace only", input: "   ", wantOK: false},
		{name: "inner space", input: "not a ticker", wantOK: false},
		{name: "sql-ish input", input: "AAPL;DROP", wantOK: false},
		{name: "too long", input: "ABCDEFGHIJKLM", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeTicker(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
