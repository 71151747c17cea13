package csv

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/coregx/flowgraph"
	"github.com/stretchr/testify/require"
)

func TestSource_ReplaysRecordsAtRecordedTime(t *testing.T) {
	data := "0,1\n10,2\n20,3\n"
	src := NewSource[int](strings.NewReader(data), func(record []string) (int, flowgraph.NanoTime, error) {
		t, err := strconv.Atoi(record[0])
		if err != nil {
			return 0, 0, err
		}
		v, err := strconv.Atoi(record[1])
		if err != nil {
			return 0, 0, err
		}
		return v, flowgraph.NanoTime(t), nil
	})

	var out bytes.Buffer
	sink := NewSink[int](&out, src, func(v int, t flowgraph.NanoTime) []string {
		return []string{strconv.FormatInt(int64(t), 10), strconv.Itoa(v)}
	})

	g, err := flowgraph.NewGraph([]flowgraph.Node{sink}, flowgraph.GraphOptions{
		Mode: flowgraph.HistoricalFrom(0),
		For:  flowgraph.RunForDurationOf(20),
	})
	require.NoError(t, err)
	require.NoError(t, g.Run())

	require.Equal(t, "0,1\n10,2\n20,3\n", out.String())
}

func TestSource_EmptyInputTerminatesImmediately(t *testing.T) {
	src := NewSource[int](strings.NewReader(""), func(record []string) (int, flowgraph.NanoTime, error) {
		return 0, 0, nil
	})

	g, err := flowgraph.NewGraph([]flowgraph.Node{src}, flowgraph.GraphOptions{
		Mode: flowgraph.HistoricalFrom(0),
		For:  flowgraph.Forever(),
	})
	require.NoError(t, err)
	require.NoError(t, g.Run())
}
