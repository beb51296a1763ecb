package featureflags

import "testing"

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("board_cache=on,legacy_profile=off,new_board_ui=true,beta_search=false,compact_cards=1,dark_mode=0")

	for _, name := range []string{"board_cache", "new_board_ui", "compact_cards"} {
		if !m.Enabled(name, 1) {
			t.Fatalf("expected %s to evaluate true", name)
		}
	}
	for _, name := range []string{"legacy_profile", "beta_search", "dark_mode"} {
		if m.Enabled(name, 1) {
			t.Fatalf("expected %s to evaluate false", name)
		}
	}

	if m.Enabled("unknown_flag", 1) {
		t.Fatal("unconfigured flags must evaluate false")
	}
}

func TestEnabled_PercentageRollout(t *testing.T) {
	m := NewManager("full=100%,halted=0%,new_board_ui=25%")

	if !m.Enabled("full", 1) {
		t.Fatal("100% rollout should always be enabled")
	}
	if m.Enabled("halted", 1) {
		t.Fatal("0% rollout should always be disabled")
	}

	// Same user, same answer, every time.
	first := m.Enabled("new_board_ui", 42)
	for i := 0; i < 5; i++ {
		if got := m.Enabled("new_board_ui", 42); got != first {
			t.Fatal("rollout evaluation must be deterministic per user")
		}
	}

	// A partial rollout splits a user population rather than landing
	// everyone in the same bucket.
	inBucket := 0
	for uid := uint(1); uid <= 200; uid++ {
		if m.Enabled("new_board_ui", uid) {
			inBucket++
		}
	}
	if inBucket == 0 || inBucket == 200 {
		t.Fatalf("25%% rollout bucketed %d of 200 users", inBucket)
	}

	if m.Enabled("new_board_ui", 0) {
		t.Fatal("percentage rollout requires non-zero userID")
	}
}

func TestParseAndSnapshot(t *testing.T) {
	m := NewManager(" malformed ,board_cache=on, new_board_ui = 20% ,legacy_profile=off ")

	raw := m.Raw()
	if len(raw) != 3 {
		t.Fatalf("expected 3 parsed flags, got %d", len(raw))
	}
	if raw["board_cache"] != "on" || raw["new_board_ui"] != "20%" || raw["legacy_profile"] != "off" {
		t.Fatalf("unexpected raw flags: %#v", raw)
	}

	snap := m.Snapshot(123)
	if len(snap) != 3 {
		t.Fatalf("expected snapshot size 3, got %d", len(snap))
	}
	if !snap["board_cache"] || snap["legacy_profile"] {
		t.Fatalf("unexpected snapshot evaluation: %#v", snap)
	}
}
