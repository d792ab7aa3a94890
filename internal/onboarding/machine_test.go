package onboarding

import (
	"testing"
	"time"
)

func TestTransitionsOnlyMoveForward(t *testing.T) {
	allowed := [][2]State{
		{StateIntroduction, StateAuditRunning},
		{StateAuditRunning, StateGapReview},
		{StateGapReview, StateChat},
		{StateGapReview, StateComplete},
		{StateChat, StateComplete},
	}
	for _, pair := range allowed {
		if !CanTransition(pair[0], pair[1]) {
			t.Errorf("expected %s -> %s to be allowed", pair[0], pair[1])
		}
	}

	if CanTransition(StateGapReview, StateIntroduction) {
		t.Error("should not move backward to introduction")
	}
	if CanTransition(StateChat, StateGapReview) {
		t.Error("should not move backward to gap review")
	}
	if CanTransition(StateIntroduction, StateGapReview) {
		t.Error("should not skip the audit")
	}
}

func TestCompleteIsTerminal(t *testing.T) {
	if len(NextStates(StateComplete)) != 0 {
		t.Error("complete must have no outgoing transitions")
	}
	for _, to := range []State{StateIntroduction, StateAuditRunning, StateGapReview, StateChat} {
		if CanTransition(StateComplete, to) {
			t.Errorf("complete -> %s should be rejected", to)
		}
	}
}

func TestResolveEvents(t *testing.T) {
	to, err := Resolve(StateGapReview, EventFillGaps)
	if err != nil {
		t.Fatalf("fill_gaps from gap_review: %v", err)
	}
	if to != StateChat {
		t.Errorf("expected chat, got %s", to)
	}

	to, err = Resolve(StateGapReview, EventDefer)
	if err != nil {
		t.Fatalf("defer from gap_review: %v", err)
	}
	if to != StateComplete {
		t.Errorf("expected complete, got %s", to)
	}

	to, err = Resolve(StateChat, EventExit)
	if err != nil {
		t.Fatalf("exit from chat: %v", err)
	}
	if to != StateComplete {
		t.Errorf("expected complete, got %s", to)
	}
}

func TestResolveRejectsOutOfPlaceEvents(t *testing.T) {
	if _, err := Resolve(StateIntroduction, EventFillGaps); err == nil {
		t.Error("fill_gaps from introduction should fail")
	}
	if _, err := Resolve(StateChat, EventDefer); err == nil {
		t.Error("defer from chat should fail")
	}
	if _, err := Resolve(StateGapReview, EventExit); err == nil {
		t.Error("exit from gap_review should fail")
	}
	if _, err := Resolve(StateComplete, EventExit); err == nil {
		t.Error("any event on complete should fail")
	}
	if _, err := Resolve(StateGapReview, Event("restart")); err == nil {
		t.Error("unknown event should fail")
	}
}

func TestTranscriptAppendRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	raw, err := AppendEntry(nil, RoleAgent, "hello", at)
	if err != nil {
		t.Fatalf("append to empty transcript: %v", err)
	}
	raw, err = AppendEntry(raw, RoleOperator, "hi there", at.Add(time.Minute))
	if err != nil {
		t.Fatalf("append second entry: %v", err)
	}

	entries, err := ParseTranscript(raw)
	if err != nil {
		t.Fatalf("parse transcript: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Role != RoleAgent || entries[0].Text != "hello" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Role != RoleOperator || entries[1].Text != "hi there" {
		t.Errorf("unexpected second entry: %+v", entries[1])
	}
	if !entries[1].At.After(entries[0].At) {
		t.Error("entries should keep their order in time")
	}
}

func TestParseTranscriptEmpty(t *testing.T) {
	entries, err := ParseTranscript(nil)
	if err != nil {
		t.Fatalf("nil transcript: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty transcript, got %d entries", len(entries))
	}
}

func TestParseTranscriptGarbage(t *testing.T) {
	if _, err := ParseTranscript([]byte("not json")); err == nil {
		t.Error("expected error for malformed transcript")
	}
}
