package authctx

import (
	"context"
	"errors"
	"testing"

	"github.com/kbukum/authsvc/auth/session"
)

func TestSetGet(t *testing.T) {
	claims := &session.Claims{ID: "acc-1"}
	ctx := Set(context.Background(), claims)

	got, ok := Get(ctx)
	if !ok || got.ID != "acc-1" {
		t.Errorf("expected claims acc-1, got %v (ok=%v)", got, ok)
	}
}

func TestGet_Missing(t *testing.T) {
	if _, ok := Get(context.Background()); ok {
		t.Error("expected no claims in empty context")
	}
	if _, ok := Get(Set(context.Background(), nil)); ok {
		t.Error("expected nil claims to be reported missing")
	}
	if _, err := GetOrError(context.Background()); !errors.Is(err, ErrNoClaims) {
		t.Errorf("expected ErrNoClaims, got %v", err)
	}
}
