package repositories

import (
	"reflect"
	"testing"
)

func TestExtractMentionTokens(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    []string
	}{
		{"no mentions", "hello world", nil},
		{"single mention", "hey @alice", []string{"alice"}},
		{"multiple mentions", "@alice ping @bob", []string{"alice", "bob"}},
		{"repeated mention", "@alice @alice", []string{"alice", "alice"}},
		{"mention with underscore", "cc @team_lead", []string{"team_lead"}},
		{"punctuation terminates", "thanks @carol!", []string{"carol"}},
		{"bare at sign", "meet @ noon", nil},
		{"email-like text", "mail me a@b", []string{"b"}},
		{"empty content", "", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := extractMentionTokens(tc.content)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("extractMentionTokens(%q) = %v, want %v", tc.content, got, tc.want)
			}
		})
	}
}
