package flowgraph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTimeQueue_PushPopOrder(t *testing.T) {
	q := NewTimeQueue[string]()

	q.Push("c", 30)
	q.Push("a", 10)
	q.Push("b", 20)

	require.Equal(t, "a", q.Pop())
	require.Equal(t, "b", q.Pop())
	require.Equal(t, "c", q.Pop())
	require.True(t, q.IsEmpty())
}

func TestTimeQueue_DuplicateTimesAndValuesCoexist(t *testing.T) {
	q := NewTimeQueue[int]()

	q.Push(1, 100)
	q.Push(1, 100)
	q.Push(2, 100)

	require.Equal(t, 3, q.Len())
	first := q.PopValueAt()
	second := q.PopValueAt()
	third := q.PopValueAt()

	require.Equal(t, NanoTime(100), first.Time)
	require.Equal(t, NanoTime(100), second.Time)
	require.Equal(t, NanoTime(100), third.Time)
	require.ElementsMatch(t, []int{1, 1, 2}, []int{first.Value, second.Value, third.Value})
}

func TestTimeQueue_Pending(t *testing.T) {
	q := NewTimeQueue[int]()
	require.False(t, q.Pending(0))

	q.Push(42, 100)
	require.False(t, q.Pending(99))
	require.True(t, q.Pending(100))
	require.True(t, q.Pending(200))
}

func TestTimeQueue_NextTime(t *testing.T) {
	q := NewTimeQueue[int]()
	q.Push(1, 50)
	q.Push(2, 10)

	require.Equal(t, NanoTime(10), q.NextTime())
}

func TestTimeQueue_DrainDue(t *testing.T) {
	q := NewTimeQueue[int]()
	q.Push(1, 10)
	q.Push(2, 20)
	q.Push(3, 30)

	due := q.DrainDue(20)
	require.Len(t, due, 2)
	require.Equal(t, 1, due[0].Value)
	require.Equal(t, 2, due[1].Value)
	require.Equal(t, 1, q.Len())
	require.Equal(t, NanoTime(30), q.NextTime())
}

func TestTimeQueue_Clear(t *testing.T) {
	q := NewTimeQueue[int]()
	q.Push(1, 10)
	q.Push(2, 20)

	q.Clear()
	require.True(t, q.IsEmpty())
}
