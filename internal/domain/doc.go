// Package domain contains the entities and error vocabulary of the report
// pipeline.
//
// # Entities
//
//   - [Metric]: one series exposed by the stats API (id, title, unit)
//   - [Sample]: one chart point of a metric
//   - [Row]: one line of a daily report file
//   - [Report]: the summarized answer that gets posted
//   - [PublishState]: the last thread that was published
//   - [HistoryEntry]: one post recorded in the history store
//
// The package has no dependencies on HTTP, the file system or logging.
package domain
