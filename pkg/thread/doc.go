// Package thread turns a block of text into a reply chain of short posts.
//
// The package has two halves:
//
//   - [Split] packs text into chunks no longer than a per-post character
//     budget, preferring line breaks and falling back to word boundaries.
//   - [Publisher] posts chunks through a [Client], each chunk replying to
//     the one before it, with a [Pacer] deciding how long to wait between
//     posts.
//
// # Usage
//
//	chunks := thread.Split(report, thread.DefaultMaxLength)
//	p := thread.NewPublisher(client, thread.NewIntervalPacer(10*time.Second), logger)
//	posted, err := p.Publish(ctx, chunks)
//
// A failed post stops the thread. Posts that already went out stay
// published and are returned alongside the error.
package thread
