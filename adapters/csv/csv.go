// Package csv implements flowgraph's historical CSV source and sink
// adapters on the standard library's encoding/csv.
package csv

import (
	"encoding/csv"
	"io"
	"sort"

	"github.com/pkg/errors"

	"github.com/coregx/flowgraph"
)

// ParseFunc decodes one CSV record into a value and the time it occurred.
type ParseFunc[T any] func(record []string) (T, flowgraph.NanoTime, error)

// FormatFunc encodes a value and its emission time into a CSV record.
type FormatFunc[T any] func(value T, t flowgraph.NanoTime) []string

// Source is a historical replay node: every record from r is parsed once
// in Setup, sorted by time, and replayed through Cycle at its recorded
// time via flowgraph.GraphState.AddCallback.
type Source[T any] struct {
	r     io.Reader
	parse ParseFunc[T]

	rows  []flowgraph.ValueAt[T]
	idx   int
	value T
}

// NewSource returns a Source reading CSV records from r via parse.
func NewSource[T any](r io.Reader, parse ParseFunc[T]) *Source[T] {
	return &Source[T]{r: r, parse: parse}
}

func (s *Source[T]) Upstreams() flowgraph.UpStreams { return flowgraph.UpStreams{} }

func (s *Source[T]) Setup(*flowgraph.GraphState) error {
	reader := csv.NewReader(s.r)
	records, err := reader.ReadAll()
	if err != nil {
		return errors.Wrap(err, "flowgraph/adapters/csv: read source")
	}
	s.rows = make([]flowgraph.ValueAt[T], 0, len(records))
	for i, record := range records {
		v, t, err := s.parse(record)
		if err != nil {
			return errors.Wrapf(err, "flowgraph/adapters/csv: parse record %d", i)
		}
		s.rows = append(s.rows, flowgraph.ValueAt[T]{Value: v, Time: t})
	}
	sort.SliceStable(s.rows, func(i, j int) bool { return s.rows[i].Time < s.rows[j].Time })
	return nil
}

func (s *Source[T]) Start(state *flowgraph.GraphState) error {
	if len(s.rows) > 0 {
		state.AddCallback(s.rows[0].Time)
	}
	return nil
}

func (s *Source[T]) Cycle(state *flowgraph.GraphState) (bool, error) {
	now := state.Time()
	ticked := false
	for s.idx < len(s.rows) && s.rows[s.idx].Time <= now {
		s.value = s.rows[s.idx].Value
		s.idx++
		ticked = true
	}
	if s.idx < len(s.rows) {
		state.AddCallback(s.rows[s.idx].Time)
	}
	return ticked, nil
}

func (s *Source[T]) Stop(*flowgraph.GraphState) error     { return nil }
func (s *Source[T]) Teardown(*flowgraph.GraphState) error { return nil }

// Peek returns the most recently replayed value.
func (s *Source[T]) Peek() T { return s.value }

// Sink writes every tick of upstream as one CSV record via format.
type Sink[T any] struct {
	w        *csv.Writer
	upstream flowgraph.Stream[T]
	format   FormatFunc[T]
}

// NewSink returns a Sink writing CSV records to w whenever upstream ticks.
func NewSink[T any](w io.Writer, upstream flowgraph.Stream[T], format FormatFunc[T]) *Sink[T] {
	return &Sink[T]{w: csv.NewWriter(w), upstream: upstream, format: format}
}

func (s *Sink[T]) Upstreams() flowgraph.UpStreams {
	return flowgraph.BuildUpStreams(flowgraph.ActiveDep(s.upstream))
}

func (s *Sink[T]) Setup(*flowgraph.GraphState) error { return nil }
func (s *Sink[T]) Start(*flowgraph.GraphState) error { return nil }

func (s *Sink[T]) Cycle(state *flowgraph.GraphState) (bool, error) {
	if !state.Ticked(s.upstream) {
		return false, nil
	}
	record := s.format(s.upstream.Peek(), state.Time())
	if err := s.w.Write(record); err != nil {
		return false, errors.Wrap(err, "flowgraph/adapters/csv: write record")
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return false, errors.Wrap(err, "flowgraph/adapters/csv: flush")
	}
	return false, nil
}

func (s *Sink[T]) Stop(*flowgraph.GraphState) error { return nil }

func (s *Sink[T]) Teardown(*flowgraph.GraphState) error {
	s.w.Flush()
	return errors.Wrap(s.w.Error(), "flowgraph/adapters/csv: final flush")
}
