package flowgraph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNanoTime_Arithmetic(t *testing.T) {
	base := NanoTime(1000)

	require.Equal(t, NanoTime(1100), base.Add(100))
	require.Equal(t, NanoTime(900), base.Add(-100))
	require.Equal(t, NanoTime(1000+int64(time.Millisecond)), base.AddDuration(time.Millisecond))
	require.Equal(t, NanoTime(500), base.Sub(500))
}

func TestNanoTime_Ordering(t *testing.T) {
	a, b := NanoTime(10), NanoTime(20)

	require.True(t, a.Before(b))
	require.False(t, b.Before(a))
	require.True(t, b.After(a))
	require.False(t, a.After(b))
	require.True(t, ZeroTime.Before(MaxTime))
}

func TestNanoTime_TimeRoundTrip(t *testing.T) {
	now := time.Now()
	nt := NanoTimeFromTime(now)

	require.Equal(t, now.UnixNano(), nt.Time().UnixNano())
}

func TestNanoTime_Seconds(t *testing.T) {
	nt := NanoTime(2_500_000_000) // 2.5s

	require.InDelta(t, 2.5, nt.Seconds(), 1e-9)
}

func TestNow_IsRecent(t *testing.T) {
	before := NanoTimeFromTime(time.Now())
	got := Now()
	after := NanoTimeFromTime(time.Now())

	require.True(t, !got.Before(before) && !got.After(after+NanoTime(time.Second)))
}
