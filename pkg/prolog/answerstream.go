package prolog

import "context"

// Solution is one proof answer: the caller's query variables, resolved
// and copied out of the resolver's live substitution (§6.2).
type Solution map[string]Term

// AnswerStream lazily drives a State's resolver forward one solution at
// a time over a channel, adapted from stream.go's ChannelResultStream:
// the same "pull n at a time, signal hasMore, support cancellation and
// Close" shape, specialised to yield Solution values instead of
// constraint stores since this engine's search state is a single *State,
// not per-branch stores.
type AnswerStream struct {
	state *State
	vars  map[string]Term

	ch     chan streamItem
	cancel context.CancelFunc
	done   chan struct{}
}

type streamItem struct {
	solution Solution
	err      error
}

// newAnswerStream starts a background goroutine driving state forward
// and publishing each solution (rendered against vars, the query's named
// variables) until the search is exhausted, ctx is cancelled, or an
// error occurs.
func newAnswerStream(ctx context.Context, state *State, vars map[string]Term) *AnswerStream {
	ctx, cancel := context.WithCancel(ctx)
	as := &AnswerStream{
		state:  state,
		vars:   vars,
		ch:     make(chan streamItem),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go as.run(ctx)
	return as
}

func (as *AnswerStream) run(ctx context.Context) {
	defer close(as.ch)
	defer close(as.done)
	for {
		ok, err := as.state.NextSolution()
		if err != nil {
			select {
			case as.ch <- streamItem{err: err}:
			case <-ctx.Done():
			}
			return
		}
		if !ok {
			return
		}

		sol := make(Solution, len(as.vars))
		for name, v := range as.vars {
			sol[name] = as.state.subst.Apply(v)
		}

		select {
		case as.ch <- streamItem{solution: sol}:
		case <-ctx.Done():
			return
		}
	}
}

// Next blocks for the next solution. ok is false once the search is
// exhausted (not an error) or ctx was cancelled.
func (as *AnswerStream) Next(ctx context.Context) (Solution, bool, error) {
	select {
	case item, open := <-as.ch:
		if !open {
			return nil, false, nil
		}
		if item.err != nil {
			return nil, false, item.err
		}
		return item.solution, true, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

// Close cancels the underlying search and waits for its goroutine to
// exit, releasing its resources (§6.2, mirroring ResultStream.Close).
func (as *AnswerStream) Close() {
	as.cancel()
	<-as.done
}
