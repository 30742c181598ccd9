package model

import "testing"

func TestMemberState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    MemberState
		terminal bool
	}{
		{MemberStateRunning, false},
		{MemberStateQueued, false},
		{MemberStateLeft, true},
	}
	for _, tt := range tests {
		if got := tt.state.IsTerminal(); got != tt.terminal {
			t.Errorf("MemberState(%q).IsTerminal() = %v, want %v", tt.state, got, tt.terminal)
		}
	}
}

func TestMemberState_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from  MemberState
		to    MemberState
		valid bool
	}{
		// Valid transitions
		{MemberStateRunning, MemberStateQueued, true},
		{MemberStateRunning, MemberStateLeft, true},
		{MemberStateQueued, MemberStateRunning, true},
		{MemberStateQueued, MemberStateLeft, true},

		// Invalid transitions
		{MemberStateLeft, MemberStateRunning, false},
		{MemberStateLeft, MemberStateQueued, false},
		{MemberStateRunning, MemberStateRunning, false},
		{MemberStateQueued, MemberStateQueued, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.valid {
			t.Errorf("MemberState(%q).CanTransitionTo(%q) = %v, want %v", tt.from, tt.to, got, tt.valid)
		}
	}
}

func TestParseVerb(t *testing.T) {
	tests := []struct {
		input string
		want  Verb
		ok    bool
	}{
		{"JOIN", VerbJoin, true},
		{"join", VerbJoin, true},
		{" Yield ", VerbYield, true},
		{"leave", VerbLeave, true},
		{"create", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseVerb(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseVerb(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseContainerID(t *testing.T) {
	id, err := ParseContainerID("18446744073709551615")
	if err != nil {
		t.Fatalf("ParseContainerID: %v", err)
	}
	if id != ^uint64(0) {
		t.Errorf("id = %d, want max uint64", id)
	}
	if _, err := ParseContainerID("-1"); err == nil {
		t.Error("expected error for negative id")
	}
	if _, err := ParseContainerID("abc"); err == nil {
		t.Error("expected error for non-numeric id")
	}
}
