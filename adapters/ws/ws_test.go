package ws

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/coregx/flowgraph"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSource_RelaysDecodedMessages(t *testing.T) {
	var upgrader websocket.Upgrader
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		for i := 1; i <= 5; i++ {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(strconv.Itoa(i))))
			time.Sleep(5 * time.Millisecond)
		}
		deadline := time.Now().Add(time.Second)
		require.NoError(t, conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline))
	}))
	defer srv.Close()

	url := "ws" + srv.URL[len("http"):]
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	src := NewSource[int](conn, func(data []byte) (int, error) {
		return strconv.Atoi(string(data))
	})

	var lastValue int
	rec := &sourceRecorder{upstream: src, onTick: func(v int) { lastValue = v }}

	g, err := flowgraph.NewGraph([]flowgraph.Node{rec}, flowgraph.GraphOptions{
		Mode: flowgraph.RealTime(),
		For:  flowgraph.RunForDurationOf(100 * time.Millisecond),
	})
	require.NoError(t, err)
	require.NoError(t, g.Run())
	require.Equal(t, 5, lastValue)
}

type sourceRecorder struct {
	upstream flowgraph.Stream[int]
	onTick   func(int)
}

func (r *sourceRecorder) Upstreams() flowgraph.UpStreams {
	return flowgraph.BuildUpStreams(flowgraph.ActiveDep(r.upstream))
}
func (r *sourceRecorder) Setup(*flowgraph.GraphState) error { return nil }
func (r *sourceRecorder) Start(*flowgraph.GraphState) error { return nil }
func (r *sourceRecorder) Cycle(state *flowgraph.GraphState) (bool, error) {
	if state.Ticked(r.upstream) {
		r.onTick(r.upstream.Peek())
	}
	return false, nil
}
func (r *sourceRecorder) Stop(*flowgraph.GraphState) error     { return nil }
func (r *sourceRecorder) Teardown(*flowgraph.GraphState) error { return nil }
