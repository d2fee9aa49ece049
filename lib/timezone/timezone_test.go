package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStamp(t *testing.T) {
	cases := []struct {
		t        time.Time
		expected string
	}{
		// EDT
		{time.Date(2024, time.July, 4, 16, 30, 0, 0, time.UTC), "2024-07-04 12:30"},
		// EST
		{time.Date(2024, time.January, 15, 3, 5, 0, 0, time.UTC), "2024-01-14 22:05"},
	}
	for _, test := range cases {
		require.Equal(t, test.expected, Stamp(test.t))
	}
}

func TestNow(t *testing.T) {
	require.Equal(t, Location, Now().Location())
}
