package memory

import (
	"testing"

	"hunger-insights/internal/app"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	store.Create(app.Run{ID: "run-1", BankID: "hunger"})
	if _, ok := store.Get("run-1"); !ok {
		t.Fatalf("expected run present")
	}

	updated, ok := store.Update("run-1", func(r app.Run) app.Run {
		r.BankID = "other"
		return r
	})
	if !ok || updated.BankID != "other" {
		t.Fatalf("expected update applied, got %+v ok=%v", updated, ok)
	}
	if got, _ := store.Get("run-1"); got.BankID != "other" {
		t.Fatalf("update not persisted: %+v", got)
	}

	store.Delete("run-1")
	if _, ok := store.Get("run-1"); ok {
		t.Fatalf("expected run removed")
	}
	if _, ok := store.Update("run-1", func(r app.Run) app.Run { return r }); ok {
		t.Fatalf("expected update of missing run to fail")
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", store.Len())
	}
}
