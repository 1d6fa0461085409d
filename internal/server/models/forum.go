package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Tags accepted on forum questions.
var ForumTags = []string{"General", "Pest", "Irrigation", "Weather", "Soil", "Harvest"}

// Forum is the whole forum document. Posts is never nil after loading.
type Forum struct {
	Posts []*Post `json:"posts"`
}

type Post struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Question  string    `json:"question"`
	Tag       string    `json:"tag"`
	Timestamp Timestamp `json:"timestamp"`
	Image     *string   `json:"image"`
	Replies   []*Reply  `json:"replies"`
}

type Reply struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Reply     string    `json:"reply"`
	Image     *string   `json:"image"`
	Timestamp Timestamp `json:"timestamp"`
}

// ForumSort selects the order posts are listed in.
type ForumSort string

const (
	SortLatest      ForumSort = "latest"
	SortMostReplies ForumSort = "replies"
)

// naiveISO is the zone-less ISO-8601 layout found in older forum documents.
const naiveISO = "2006-01-02T15:04:05.999999999"

// Timestamp is written as RFC 3339 and read from RFC 3339 or the zone-less
// ISO form (interpreted in local time).
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp { return Timestamp{Time: t} }

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err := time.ParseInLocation(naiveISO, s, time.Local)
	if err != nil {
		return fmt.Errorf("timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}
