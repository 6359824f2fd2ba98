package moderation

import (
	"testing"
)

func TestCheck(t *testing.T) {
	t.Run("clean_messages_pass", func(t *testing.T) {
		f := NewFilter()

		clean := []string{"hello", "great stream!", "こんにちは"}
		for _, msg := range clean {
			res := f.Check(msg)
			if res.Blocked {
				t.Errorf("Check(%q) = blocked %t, want %t", msg, res.Blocked, false)
			}
		}

		if got := len(f.Words()); got != 0 {
			t.Errorf("Words() = %d words, want 0", got)
		}
	})

	t.Run("seed_candidate_blocks_and_is_learned", func(t *testing.T) {
		f := NewFilter()

		res := f.Check("I will kill you")
		if !res.Blocked {
			t.Fatalf("Check() = blocked %t, want %t", res.Blocked, true)
		}
		if !contains(res.Matched, "kill") {
			t.Errorf("Check() = matched %v, want to contain %q", res.Matched, "kill")
		}
		if !contains(res.NewlyBanned, "kill") {
			t.Errorf("Check() = newly banned %v, want to contain %q", res.NewlyBanned, "kill")
		}
		if !contains(f.Words(), "kill") {
			t.Errorf("Words() = %v, want to contain %q", f.Words(), "kill")
		}
	})

	t.Run("repeat_attempt_blocks_without_new_learning", func(t *testing.T) {
		f := NewFilter()

		f.Check("I will kill you")
		res := f.Check("I will kill you")

		if !res.Blocked {
			t.Errorf("Check() = blocked %t, want %t", res.Blocked, true)
		}
		if !contains(res.Matched, "kill") {
			t.Errorf("Check() = matched %v, want to contain %q", res.Matched, "kill")
		}
		if len(res.NewlyBanned) != 0 {
			t.Errorf("Check() = newly banned %v, want none", res.NewlyBanned)
		}
	})

	t.Run("matching_is_case_insensitive", func(t *testing.T) {
		f := NewFilter()

		res := f.Check("KILL")
		if !res.Blocked {
			t.Errorf("Check() = blocked %t, want %t", res.Blocked, true)
		}
	})

	t.Run("multilingual_candidates", func(t *testing.T) {
		f := NewFilter()

		res := f.Check("おまえなんか死ね")
		if !res.Blocked {
			t.Errorf("Check() = blocked %t, want %t", res.Blocked, true)
		}
		if !contains(res.Matched, "死ね") {
			t.Errorf("Check() = matched %v, want to contain %q", res.Matched, "死ね")
		}
	})

	t.Run("multiple_matches_in_one_message", func(t *testing.T) {
		f := NewFilter()

		res := f.Check("you stupid idiot")
		if len(res.Matched) != 2 {
			t.Errorf("Check() = %d matches %v, want 2", len(res.Matched), res.Matched)
		}
		if len(res.NewlyBanned) != 2 {
			t.Errorf("Check() = %d newly banned %v, want 2", len(res.NewlyBanned), res.NewlyBanned)
		}
	})

	t.Run("words_only_grow", func(t *testing.T) {
		f := NewFilter()

		f.Check("I will kill you")
		f.Check("you are stupid")

		words := f.Words()
		if len(words) != 2 {
			t.Fatalf("Words() = %v, want 2 words", words)
		}
		if words[0] != "kill" || words[1] != "stupid" {
			t.Errorf("Words() = %v, want learned order [kill stupid]", words)
		}
	})
}

func contains(words []string, w string) bool {
	for _, s := range words {
		if s == w {
			return true
		}
	}
	return false
}
