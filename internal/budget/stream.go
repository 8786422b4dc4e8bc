package budget

import "context"

// FragmentStream is the explicit chunk-delivery contract. The streaming
// network collaborator implements it; Next returns the next fragment in
// arrival order and false once the stream is exhausted. Making delivery an
// iterator keeps suspension and backpressure visible instead of buried in
// callback timing.
type FragmentStream interface {
	Next() (string, bool)
}

// SliceStream serves fragments from a fixed slice. Used in tests and for
// replaying recorded generations.
type SliceStream struct {
	fragments []string
	pos       int
}

// NewSliceStream returns a stream over the given fragments.
func NewSliceStream(fragments ...string) *SliceStream {
	return &SliceStream{fragments: fragments}
}

func (s *SliceStream) Next() (string, bool) {
	if s.pos >= len(s.fragments) {
		return "", false
	}
	f := s.fragments[s.pos]
	s.pos++
	return f, true
}

// ChanStream adapts a channel of fragments to the FragmentStream contract.
// The producer closes the channel to end the stream.
type ChanStream struct {
	C <-chan string
}

func (s ChanStream) Next() (string, bool) {
	f, ok := <-s.C
	return f, ok
}

// Drain funnels an entire stream through the governor, finalizes, and returns
// the enforcement result. It stops pulling early once the governor terminates
// or ctx is cancelled; cancellation needs no in-flight chunk to resolve.
func Drain(ctx context.Context, g *Governor, stream FragmentStream) EnforcementResult {
	for {
		if ctx.Err() != nil {
			break
		}
		fragment, ok := stream.Next()
		if !ok {
			break
		}
		g.ProcessChunk(fragment)
		if g.State() == StateTerminated {
			break
		}
	}
	g.Finalize()
	return g.Result()
}
