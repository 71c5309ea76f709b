package domain

import "time"

// Tweet is a post, a reply (InReplyToID set) or a repost (RepostOfID set).
// Parent references are tweet ids, not pointers.
type Tweet struct {
	ID          int64     `json:"id"`
	Author      *User     `json:"author"`
	Posted      time.Time `json:"posted"`
	Content     string    `json:"content,omitempty"`
	Deleted     bool      `json:"deleted,omitempty"`
	InReplyToID *int64    `json:"inReplyTo,omitempty"`
	RepostOfID  *int64    `json:"repostOf,omitempty"`

	// Populated on creation only; listings load relations separately.
	Hashtags []Hashtag `json:"-"`
	Mentions []User    `json:"-"`
}

// IsVisible hides deleted tweets and tweets whose author is deleted
func (t *Tweet) IsVisible() bool {
	return t != nil && !t.Deleted && t.Author.IsVisible()
}

func (t *Tweet) IsReply() bool  { return t.InReplyToID != nil }
func (t *Tweet) IsRepost() bool { return t.RepostOfID != nil }

// Context is a tweet with its reply ancestry and its reply tree flattened
type Context struct {
	Target Tweet   `json:"target"`
	Before []Tweet `json:"before"`
	After  []Tweet `json:"after"`
}
