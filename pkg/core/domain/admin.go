package domain

// Dump is a raw export of the store, deleted rows included
type Dump struct {
	Users  []User  `json:"users"`
	Tweets []Tweet `json:"tweets"`
}

// Stats holds operator-facing row counts
type Stats struct {
	Users         int64 `json:"users"`
	ActiveUsers   int64 `json:"active_users"`
	Tweets        int64 `json:"tweets"`
	DeletedTweets int64 `json:"deleted_tweets"`
	Hashtags      int64 `json:"hashtags"`
	Follows       int64 `json:"follows"`
	Likes         int64 `json:"likes"`
}
