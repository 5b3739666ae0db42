// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
)

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.log = l }
}

// WithMaxPeriods stops the engine after n periods, 0 means no limit.
func WithMaxPeriods(n int) EngineOption {
	return func(e *Engine) { e.maxPeriods = n }
}

// Engine drives the mixing cycle: clear the bus, let every live stream
// mix its next period concurrently, wait for all of them, then hand the
// result to the sink.
type Engine struct {
	bus        *Bus
	sink       Sink
	log        *slog.Logger
	maxPeriods int

	mu      sync.Mutex
	streams []*Stream
}

func NewEngine(bus *Bus, sink Sink, opts ...EngineOption) *Engine {
	e := &Engine{
		bus:  bus,
		sink: sink,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Add registers a stream. Streams added while Run is active join at the
// next period.
func (e *Engine) Add(s *Stream) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.streams = append(e.streams, s)
}

func (e *Engine) live() []*Stream {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []*Stream
	for _, s := range e.streams {
		if !s.Done() {
			out = append(out, s)
		}
	}
	return out
}

// Run mixes periods until every stream has finished, the period limit is
// reached or ctx is cancelled. It returns the number of periods written.
// A period in which no stream produces a frame or ends fails with
// ErrStalled.
func (e *Engine) Run(ctx context.Context) (int, error) {
	if len(e.live()) == 0 {
		return 0, ErrNoStreams
	}

	cfg := e.bus.Config()
	periods := 0
	for e.maxPeriods == 0 || periods < e.maxPeriods {
		if err := ctx.Err(); err != nil {
			return periods, fmt.Errorf("engine: %w", err)
		}
		streams := e.live()
		if len(streams) == 0 {
			break
		}

		e.bus.Clear()
		frames := make([]int, len(streams))
		ended := make([]bool, len(streams))
		var g errgroup.Group
		for i, s := range streams {
			g.Go(func() error {
				n, err := s.MixPeriod(e.bus)
				frames[i] = n
				if errors.Is(err, io.EOF) {
					ended[i] = true
					e.log.Debug("stream finished", "stream", s.Name(), "period", periods)
					return nil
				}
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return periods, fmt.Errorf("engine period %d: %w", periods, err)
		}

		n := 0
		for _, f := range frames {
			n = max(n, f)
		}
		if n == 0 {
			// sources that end on a period boundary report io.EOF on
			// an empty read; anything else would spin forever
			if !slices.Contains(ended, true) {
				return periods, fmt.Errorf("engine period %d: %w", periods, ErrStalled)
			}
			continue
		}

		p := Period{
			Index:    periods,
			Frames:   n,
			Format:   cfg.Format,
			Rate:     cfg.Rate,
			Channels: cfg.Channels,
			Data:     e.bus.Bytes(n),
		}
		if err := e.sink.WritePeriod(p); err != nil {
			return periods, fmt.Errorf("engine sink: %w", err)
		}
		e.log.Debug("period mixed", "period", periods, "frames", n, "streams", len(streams))
		periods++
	}
	return periods, nil
}

// Close closes every registered stream.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var errs []error
	for _, s := range e.streams {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	e.streams = nil
	return errors.Join(errs...)
}
