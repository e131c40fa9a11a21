package thread

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type postCall struct {
	text    string
	replyTo string
}

// fakeClient hands out sequential ids and can fail on a given call.
type fakeClient struct {
	calls   []postCall
	failAt  int // 1-based call number, 0 = never
	err     error
	emptyID bool
}

func (c *fakeClient) CreatePost(ctx context.Context, text, replyTo string) (string, error) {
	c.calls = append(c.calls, postCall{text: text, replyTo: replyTo})
	n := len(c.calls)
	if c.failAt == n {
		if c.emptyID {
			return "", nil
		}
		return "", c.err
	}
	return fmt.Sprintf("id-%d", n), nil
}

// fakeClock fires immediately and records every requested wait.
type fakeClock struct {
	waits []time.Duration
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.waits = append(c.waits, d)
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

type recordingObserver struct {
	states []State
	posted []Post
	failed []int
}

func (o *recordingObserver) OnStateChange(previous, current State, reason string) {
	o.states = append(o.states, current)
}
func (o *recordingObserver) OnPosted(post Post)            { o.posted = append(o.posted, post) }
func (o *recordingObserver) OnFailed(index int, err error) { o.failed = append(o.failed, index) }

func TestPublish_ThreeChunkThread(t *testing.T) {
	client := &fakeClient{}
	clock := &fakeClock{}
	obs := &recordingObserver{}

	p := NewPublisher(client, NewIntervalPacerWithClock(10*time.Second, clock), nil)
	p.SetObserver(obs)

	thread, err := p.Publish(context.Background(), []string{"one", "two", "three"})
	require.NoError(t, err)

	assert.Equal(t, []postCall{
		{text: "one", replyTo: ""},
		{text: "two", replyTo: "id-1"},
		{text: "three", replyTo: "id-2"},
	}, client.calls)
	assert.Equal(t, []time.Duration{10 * time.Second, 10 * time.Second}, clock.waits)
	assert.Equal(t, []string{"id-1", "id-2", "id-3"}, thread.IDs())
	assert.Equal(t, "id-3", thread.LastID())
	assert.Equal(t, StateDone, p.State())
	assert.Len(t, obs.posted, 3)
	assert.Equal(t, []State{
		StateIdle,
		StatePosting,
		StateWaiting, StatePosting,
		StateWaiting, StatePosting,
		StateDone,
	}, obs.states)
}

func TestPublish_SingleChunkIsNotPaced(t *testing.T) {
	client := &fakeClient{}
	clock := &fakeClock{}

	p := NewPublisher(client, NewIntervalPacerWithClock(time.Second, clock), nil)
	thread, err := p.Publish(context.Background(), []string{"only"})
	require.NoError(t, err)

	assert.Equal(t, []postCall{{text: "only"}}, client.calls)
	assert.Empty(t, clock.waits)
	require.Len(t, thread, 1)
	assert.Empty(t, thread[0].ReplyTo)
}

func TestPublish_NoChunks(t *testing.T) {
	client := &fakeClient{}
	p := NewPublisher(client, nil, nil)

	thread, err := p.Publish(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, thread)
	assert.Empty(t, client.calls)
	assert.Equal(t, StateDone, p.State())
}

func TestPublish_TransportErrorAbortsThread(t *testing.T) {
	transport := errors.New("connection reset")
	client := &fakeClient{failAt: 2, err: transport}
	clock := &fakeClock{}
	obs := &recordingObserver{}

	p := NewPublisher(client, NewIntervalPacerWithClock(time.Second, clock), nil)
	p.SetObserver(obs)

	thread, err := p.Publish(context.Background(), []string{"one", "two", "three"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPostFailed)
	assert.ErrorIs(t, err, transport)

	assert.Len(t, client.calls, 2, "third chunk must not be attempted")
	assert.Equal(t, []string{"id-1"}, thread.IDs())
	assert.Equal(t, []int{1}, obs.failed)
	assert.Equal(t, StateFailed, p.State())
	assert.Len(t, clock.waits, 1)
}

func TestPublish_MissingIDAbortsThread(t *testing.T) {
	client := &fakeClient{failAt: 1, emptyID: true}
	p := NewPublisher(client, NoPacer{}, nil)

	thread, err := p.Publish(context.Background(), []string{"one", "two"})
	require.ErrorIs(t, err, ErrMissingID)
	assert.Empty(t, thread)
	assert.Len(t, client.calls, 1)
}

func TestPublish_CanceledWhileWaiting(t *testing.T) {
	client := &fakeClient{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPublisher(client, NewIntervalPacer(time.Hour), nil)
	thread, err := p.Publish(ctx, []string{"one", "two"})

	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, client.calls, 1)
	assert.Len(t, thread, 1)
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "Idle"},
		{StatePosting, "Posting"},
		{StateWaiting, "Waiting"},
		{StateDone, "Done"},
		{StateFailed, "Failed"},
		{State(42), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %s, want %s", tt.state, got, tt.want)
		}
	}
}

func TestIntervalPacer_Defaults(t *testing.T) {
	p := NewIntervalPacer(0)
	assert.Equal(t, DefaultInterval, p.Interval())

	clock := &fakeClock{}
	p = NewIntervalPacerWithClock(3*time.Second, clock)
	require.NoError(t, p.Wait(context.Background()))
	assert.Equal(t, []time.Duration{3 * time.Second}, clock.waits)
}
