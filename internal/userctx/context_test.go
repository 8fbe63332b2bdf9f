package userctx

import (
	"context"
	"testing"
)

func TestOwnerIDFallsBackToDefault(t *testing.T) {
	if got := OwnerID(context.Background()); got != DefaultOwner {
		t.Fatalf("expected %q, got %q", DefaultOwner, got)
	}
	if got := OwnerID(WithUserID(context.Background(), "  ")); got != DefaultOwner {
		t.Fatalf("expected %q for blank user, got %q", DefaultOwner, got)
	}
	if got := OwnerID(WithUserID(context.Background(), "dev:alice")); got != "dev:alice" {
		t.Fatalf("expected dev:alice, got %q", got)
	}
}
