package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Report is the summarized answer produced by the language model.
type Report struct {
	Answer string `json:"answer"`
}

// Digest returns the hex SHA-256 of the answer. Two reports with the same
// digest produce the same thread.
func (r Report) Digest() string {
	sum := sha256.Sum256([]byte(r.Answer))
	return hex.EncodeToString(sum[:])
}

// PublishState records the last thread that was published.
type PublishState struct {
	Digest      string    `json:"digest"`
	PostIDs     []string  `json:"post_ids"`
	PublishedAt time.Time `json:"published_at"`
}

// HistoryEntry is one post recorded in the history store.
type HistoryEntry struct {
	RunID    string
	Position int
	PostID   string
	ReplyTo  string
	Text     string
	PostedAt time.Time
}
