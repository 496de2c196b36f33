package domain

import (
	"encoding/json"
	"testing"
)

func TestVote_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    Vote
		wantErr bool
	}{
		{"none", `{"kind":"none"}`, Vote{Kind: VoteNone}, false},
		{"empty kind defaults to none", `{}`, Vote{Kind: VoteNone}, false},
		{"option", `{"kind":"option","option_id":"opt-a"}`, Vote{Kind: VoteFor, OptionID: "opt-a"}, false},
		{"unavailable", `{"kind":"unavailable"}`, Vote{Kind: VoteUnavailable}, false},
		{"option without option_id", `{"kind":"option"}`, Vote{}, true},
		{"unknown kind", `{"kind":"maybe"}`, Vote{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Vote
			err := json.Unmarshal([]byte(tt.data), &v)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", v)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, v)
			}
		})
	}
}

func TestVote_Cast(t *testing.T) {
	if NoVote().Cast() {
		t.Error("no-vote must not count as cast")
	}
	if !(Vote{Kind: VoteFor, OptionID: "opt-a"}).Cast() {
		t.Error("option vote counts as cast")
	}
	if !(Vote{Kind: VoteUnavailable}).Cast() {
		t.Error("unavailable counts as cast")
	}
}

func TestVote_MarshalJSON_OmitsOptionIDUnlessVotedFor(t *testing.T) {
	b, err := json.Marshal(Vote{Kind: VoteUnavailable})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"kind":"unavailable"}` {
		t.Fatalf("unexpected wire form: %s", b)
	}

	b, err = json.Marshal(Vote{Kind: VoteFor, OptionID: "opt-a"})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"kind":"option","option_id":"opt-a"}` {
		t.Fatalf("unexpected wire form: %s", b)
	}
}
