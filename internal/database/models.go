package database

import (
	"time"
)

// UsageEvent represents one detected filler word occurrence in a chat
// message. Events are append-only: they are inserted when a filler word is
// detected and never updated afterwards. The (UserID, ChatID) pair is the
// statistics partition key; all aggregation queries group by it.
type UsageEvent struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	UserID    int64     `db:"user_id"`
	ChatID    int64     `db:"chat_id"`
	Word      string    `db:"word"`
	Timestamp time.Time `db:"timestamp"`
}

// WordCount is the per-word occurrence count inside one time window.
type WordCount struct {
	Word  string `db:"word"`
	Count int64  `db:"count"`
}

// WindowStats aggregates usage events over a single time window.
// Words is ordered by count descending, then word ascending.
type WindowStats struct {
	Total int64
	Words []WordCount
}

// UserStats holds the aggregated filler word statistics for one
// (user, chat) pair over the three reporting windows.
type UserStats struct {
	Today   WindowStats
	Month   WindowStats
	AllTime WindowStats
}
