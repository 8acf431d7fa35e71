package circuit

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// step is one call against the breaker: 'F' records a failure, 'S' a
// success. want* describe the return values and the state afterwards.
type step struct {
	call       byte
	wantRoute  bool
	wantChange bool
	wantOpen   bool
}

func run(t *testing.T, b *Breaker, steps []step) {
	t.Helper()
	for i, st := range steps {
		var route, changed bool
		switch st.call {
		case 'F':
			useFallback, change := b.RecordFailure()
			route, changed = useFallback, change.Opened
		case 'S':
			usePrimary, change := b.RecordSuccess()
			route, changed = usePrimary, change.Closed
		}
		msg := fmt.Sprintf("step %d (%c)", i, st.call)
		require.Equal(t, st.wantRoute, route, msg)
		require.Equal(t, st.wantChange, changed, msg)
		require.Equal(t, st.wantOpen, b.IsOpen(), msg)
	}
}

func TestBreakerSequences(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		steps []step
	}{
		{
			name: "opens on the third consecutive failure",
			opts: []Option{WithFailureThreshold(3)},
			steps: []step{
				{call: 'F'},
				{call: 'F'},
				{call: 'F', wantRoute: true, wantChange: true, wantOpen: true},
				{call: 'F', wantRoute: true, wantOpen: true},
			},
		},
		{
			name: "success while closed clears the failure streak",
			opts: []Option{WithFailureThreshold(2)},
			steps: []step{
				{call: 'F'},
				{call: 'S', wantRoute: true},
				{call: 'F'},
				{call: 'F', wantRoute: true, wantChange: true, wantOpen: true},
			},
		},
		{
			name: "closes after two probes in a row succeed",
			opts: []Option{WithFailureThreshold(1), WithSuccessThreshold(2)},
			steps: []step{
				{call: 'F', wantRoute: true, wantChange: true, wantOpen: true},
				{call: 'S', wantOpen: true},
				{call: 'F', wantRoute: true, wantOpen: true},
				{call: 'S', wantOpen: true},
				{call: 'S', wantRoute: true, wantChange: true},
			},
		},
		{
			name: "non-positive thresholds keep the defaults",
			opts: []Option{WithFailureThreshold(0), WithSuccessThreshold(-1)},
			steps: []step{
				{call: 'F'}, {call: 'F'}, {call: 'F'}, {call: 'F'},
				{call: 'F', wantRoute: true, wantChange: true, wantOpen: true},
				{call: 'S', wantOpen: true},
				{call: 'S', wantOpen: true},
				{call: 'S', wantRoute: true, wantChange: true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run(t, New("ratelimit-redis", tt.opts...), tt.steps)
		})
	}
}

func TestBreakerIdentityAndReset(t *testing.T) {
	b := New("ratelimit-redis", WithFailureThreshold(1))
	require.Equal(t, "ratelimit-redis", b.Name())
	require.Equal(t, "closed", b.State().String())

	b.RecordFailure()
	require.Equal(t, "open", b.State().String())

	b.Reset()
	require.Equal(t, StateClosed, b.State())
	run(t, b, []step{{call: 'F', wantRoute: true, wantChange: true, wantOpen: true}})
}
