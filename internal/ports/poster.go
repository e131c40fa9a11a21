package ports

import "context"

// Poster creates posts on the messaging service.
// It has the same method set as thread.Client.
type Poster interface {
	// CreatePost publishes text, as a reply to replyTo when it is not empty,
	// and returns the id of the new post.
	CreatePost(ctx context.Context, text, replyTo string) (string, error)
}
