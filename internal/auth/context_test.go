package auth

import (
	"context"
	"testing"
)

func TestSessionRoundTrip(t *testing.T) {
	ctx := WithSession(context.Background(), Session{UserID: 42, UID: "demo_a_b", SessionID: 7})

	s, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected session in context")
	}
	if s.UserID != 42 || s.UID != "demo_a_b" || s.SessionID != 7 {
		t.Errorf("unexpected session: %+v", s)
	}
	if UserID(ctx) != 42 {
		t.Errorf("UserID = %d, want 42", UserID(ctx))
	}
}

func TestEmptyContext(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("expected no session in empty context")
	}
	if UserID(context.Background()) != 0 {
		t.Error("expected zero user id in empty context")
	}
}
