package content

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantMentions []string
		wantHashtags []string
	}{
		{
			name: "Plain text",
			text: "just setting up my account",
		},
		{
			name:         "Repeated mention is kept",
			text:         "hello @bob and @bob again",
			wantMentions: []string{"bob", "bob"},
		},
		{
			name:         "Adjacent hashtags split at second sigil",
			text:         "#a#b",
			wantHashtags: []string{"a", "b"},
		},
		{
			name:         "Token at end of text is flushed",
			text:         "reading about #golang",
			wantHashtags: []string{"golang"},
		},
		{
			name:         "Punctuation terminates a run",
			text:         "@alice, did you see #news_today? #Go1.22",
			wantMentions: []string{"alice"},
			wantHashtags: []string{"news_today", "Go1"},
		},
		{
			name:         "Bare sigils are dropped",
			text:         "# @ #! @? ok",
			wantMentions: nil,
			wantHashtags: nil,
		},
		{
			name:         "Mixed order",
			text:         "#one @two #three @four",
			wantMentions: []string{"two", "four"},
			wantHashtags: []string{"one", "three"},
		},
		{
			name:         "Mention directly followed by hashtag",
			text:         "@carol#weekend",
			wantMentions: []string{"carol"},
			wantHashtags: []string{"weekend"},
		},
		{
			name:         "Unicode letters are word characters",
			text:         "#café @zoë",
			wantMentions: []string{"zoë"},
			wantHashtags: []string{"café"},
		},
		{
			name:         "Email-like text",
			text:         "mail me at bob@example.com",
			wantMentions: []string{"example"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mentions, hashtags := Parse(tt.text)
			if !reflect.DeepEqual(mentions, tt.wantMentions) {
				t.Errorf("mentions: got %q want %q", mentions, tt.wantMentions)
			}
			if !reflect.DeepEqual(hashtags, tt.wantHashtags) {
				t.Errorf("hashtags: got %q want %q", hashtags, tt.wantHashtags)
			}
		})
	}
}

func TestUnique(t *testing.T) {
	got := Unique([]string{"news", "go", "news", "News"})
	want := []string{"news", "go", "News"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q want %q", got, want)
	}
}
