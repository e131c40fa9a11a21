package thread

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bft-labs/chainreport/pkg/log"
)

var (
	// ErrPostFailed wraps any error returned by a Client.
	ErrPostFailed = errors.New("thread: post failed")

	// ErrMissingID is returned when a Client reports success without an id.
	ErrMissingID = errors.New("thread: post returned no id")
)

// Client creates posts on a messaging service.
type Client interface {
	// CreatePost publishes text. When replyTo is not empty the post is a
	// reply to the post with that id. It returns the id of the new post.
	CreatePost(ctx context.Context, text, replyTo string) (string, error)
}

// Post is one published chunk.
type Post struct {
	Index   int
	ID      string
	ReplyTo string
	Text    string
}

// Thread is the ordered list of posts that were published.
type Thread []Post

// IDs returns the post ids in thread order.
func (t Thread) IDs() []string {
	ids := make([]string, len(t))
	for i, p := range t {
		ids[i] = p.ID
	}
	return ids
}

// LastID returns the id of the newest post, or "" for an empty thread.
func (t Thread) LastID() string {
	if len(t) == 0 {
		return ""
	}
	return t[len(t)-1].ID
}

// Publisher posts chunks as a reply chain.
type Publisher struct {
	client   Client
	pacer    Pacer
	logger   log.Logger
	observer Observer
	state    State
}

// NewPublisher creates a publisher. A nil pacer means NoPacer and a nil
// logger discards output.
func NewPublisher(client Client, pacer Pacer, logger log.Logger) *Publisher {
	if pacer == nil {
		pacer = NoPacer{}
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Publisher{
		client:   client,
		pacer:    pacer,
		logger:   logger,
		observer: noopObserver{},
	}
}

// SetObserver registers o for progress notifications.
func (p *Publisher) SetObserver(o Observer) {
	if o == nil {
		o = noopObserver{}
	}
	p.observer = o
}

// State returns the state reached by the last Publish call.
func (p *Publisher) State() State { return p.state }

// Publish posts chunks in order. The first chunk is posted on its own and
// every later chunk replies to the previous one. The pacer is consulted
// before each post except the first.
//
// On failure Publish stops, returns the posts made so far, and does not
// delete them.
func (p *Publisher) Publish(ctx context.Context, chunks []string) (Thread, error) {
	p.transition(StateIdle, "start")
	if len(chunks) == 0 {
		p.transition(StateDone, "nothing to post")
		return nil, nil
	}
	if len(chunks) > 1 {
		p.logger.Info("posting thread", log.Int("chunks", len(chunks)))
	}

	posted := make(Thread, 0, len(chunks))
	previous := ""

	for i, text := range chunks {
		if i > 0 {
			p.transition(StateWaiting, fmt.Sprintf("before post %d", i+1))
			start := time.Now()
			if err := p.pacer.Wait(ctx); err != nil {
				return posted, p.fail(i, fmt.Errorf("wait before post %d: %w", i+1, err))
			}
			p.logger.Debug("paced", log.Duration("waited", time.Since(start)))
		}

		p.transition(StatePosting, fmt.Sprintf("post %d/%d", i+1, len(chunks)))
		id, err := p.client.CreatePost(ctx, text, previous)
		if err != nil {
			return posted, p.fail(i, fmt.Errorf("%w: post %d: %w", ErrPostFailed, i+1, err))
		}
		if id == "" {
			return posted, p.fail(i, fmt.Errorf("post %d: %w", i+1, ErrMissingID))
		}

		post := Post{Index: i, ID: id, ReplyTo: previous, Text: text}
		posted = append(posted, post)
		p.observer.OnPosted(post)
		p.logger.Info("post published",
			log.Int("index", i+1),
			log.String("id", id),
			log.String("reply_to", previous),
		)
		previous = id
	}

	p.transition(StateDone, fmt.Sprintf("%d posts", len(posted)))
	return posted, nil
}

func (p *Publisher) fail(index int, err error) error {
	p.observer.OnFailed(index, err)
	p.logger.Error("thread aborted", log.Int("index", index+1), log.Err(err))
	p.transition(StateFailed, err.Error())
	return err
}

func (p *Publisher) transition(next State, reason string) {
	prev := p.state
	p.state = next
	p.observer.OnStateChange(prev, next, reason)
}
