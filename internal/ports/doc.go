// Package ports defines the interfaces that connect the application layer to
// infrastructure adapters.
//
// # Port Interfaces
//
//   - [StatsSource]: Reads metric samples from the stats API
//   - [ReportStore]: Writes, combines and reads report files and the answer file
//   - [Completer]: Sends a prompt to a language model
//   - [Poster]: Creates posts on the messaging service
//   - [StateRepository]: Persists the last published thread
//   - [HistoryStore]: Records every published post
//   - [Logger]: Structured logging abstraction
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them.
package ports
