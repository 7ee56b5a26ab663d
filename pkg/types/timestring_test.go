package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "valid morning", input: "10:00", want: "10:00"},
		{name: "valid evening", input: "17:30", want: "17:30"},
		{name: "single digit hour", input: "9:00", wantErr: true},
		{name: "out of range", input: "25:00", wantErr: true},
		{name: "garbage", input: "ab:cd", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTimeFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := TimeString("10:00").AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:30"), got)

	got, err = TimeString("17:30").AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("18:00"), got)

	_, err = TimeString("23:45").AddMinutes(30)
	assert.ErrorIs(t, err, ErrTimeOverflow)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:30").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
	assert.True(t, TimeString("18:00").IsAfter("17:30"))
}

func TestTimeString_On(t *testing.T) {
	loc := time.FixedZone("IST", 5*60*60+30*60)
	date := time.Date(2024, time.March, 4, 0, 0, 0, 0, loc)

	got, err := TimeString("14:30").On(date)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 4, 14, 30, 0, 0, loc), got)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("10:30:00"))
	assert.Equal(t, TimeString("10:30"), ts)

	require.NoError(t, ts.Scan([]byte("11:00")))
	assert.Equal(t, TimeString("11:00"), ts)

	assert.Error(t, ts.Scan(42))
}
