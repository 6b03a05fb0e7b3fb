package main

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/haul/internal/common"
	"github.com/Veraticus/haul/internal/model"
)

func TestResolveID(t *testing.T) {
	ids := []string{"a1b2c3d4-1111", "a1b2ffff-2222", "9f00aa00-3333"}

	tests := []struct {
		name    string
		prefix  string
		want    string
		wantErr error
		errText string
	}{
		{name: "exact", prefix: "9f00aa00-3333", want: "9f00aa00-3333"},
		{name: "unique prefix", prefix: "9f", want: "9f00aa00-3333"},
		{name: "longer unique prefix", prefix: "a1b2c", want: "a1b2c3d4-1111"},
		{name: "trimmed", prefix: "  9f00 ", want: "9f00aa00-3333"},
		{name: "ambiguous", prefix: "a1b2", errText: "ambiguous"},
		{name: "no match", prefix: "zz", wantErr: common.ErrNotFound},
		{name: "empty", prefix: "", wantErr: common.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveID(tt.prefix, ids)
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.errText != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errText)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestResolveID_ExactMatchBeatsLongerIDs(t *testing.T) {
	got, err := resolveID("abc", []string{"abcdef", "abc"})
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "125.50", want: "125.5"},
		{in: "$1,250.00", want: "1250"},
		{in: " 42 ", want: "42"},
		{in: "-3.10", want: "-3.1"},
		{in: "twelve", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseMoney("amount", tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "--amount")
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestDateOrToday(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: "2024-03-01"},
		{in: "today", want: "2024-03-01"},
		{in: "Yesterday", want: "2024-02-29"},
		{in: "2023-12-25", want: "2023-12-25"},
		{in: "12/25/2023", wantErr: true},
		{in: "2023-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := dateOrToday(tt.in, now)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestYearOrCurrent(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	y, err := yearOrCurrent("", now)
	require.NoError(t, err)
	assert.Equal(t, 2025, y)

	y, err = yearOrCurrent("2023", now)
	require.NoError(t, err)
	assert.Equal(t, 2023, y)

	for _, bad := range []string{"23", "abcd", "1899", "10000"} {
		_, err := yearOrCurrent(bad, now)
		assert.ErrorIs(t, err, model.ErrInvalidYear, bad)
	}
}

func TestSaved(t *testing.T) {
	assert.NoError(t, saved(nil))

	plain := assert.AnError
	assert.Same(t, plain, saved(plain))

	err := saved(common.ErrPersistFailed)
	var userErr *common.UserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, "change was not saved to disk", userErr.UserMessage)
	assert.ErrorIs(t, err, common.ErrPersistFailed)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "12345678", shortID("12345678-aaaa-bbbb"))
	assert.Equal(t, "abc", shortID("abc"))
}
