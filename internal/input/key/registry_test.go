package key

import "testing"

func TestRegistryDispatch(t *testing.T) {
	r := NewRegistry(nil)
	var got []string

	unbindSave := r.Bind([]string{"Ctrl+S"}, func() { got = append(got, "save") })
	defer unbindSave()

	if !r.Dispatch(NewRuneEvent('s', ModCtrl)) {
		t.Fatal("expected Ctrl+S to dispatch")
	}
	if r.Dispatch(NewRuneEvent('s', ModNone)) {
		t.Error("plain s should not dispatch")
	}
	if len(got) != 1 || got[0] != "save" {
		t.Errorf("unexpected actions %v", got)
	}
}

func TestRegistryShadowing(t *testing.T) {
	r := NewRegistry(nil)
	var got []string

	r.Bind([]string{"Escape"}, func() { got = append(got, "outer") })
	unbind := r.Bind([]string{"Enter", "Escape"}, func() { got = append(got, "inner") })

	r.Dispatch(NewSpecialEvent(KeyEscape, ModNone))
	r.Dispatch(NewSpecialEvent(KeyEnter, ModNone))
	unbind()
	unbind()
	r.Dispatch(NewSpecialEvent(KeyEscape, ModNone))
	if r.Dispatch(NewSpecialEvent(KeyEnter, ModNone)) {
		t.Error("Enter should be unbound")
	}

	want := []string{"inner", "inner", "outer"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("action %d = %q, want %q", i, got[i], want[i])
		}
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 binding, got %d", r.Len())
	}
}

func TestRegistryActionCanUnbind(t *testing.T) {
	r := NewRegistry(nil)
	calls := 0
	var unbind func()
	unbind = r.Bind([]string{"Enter"}, func() {
		calls++
		unbind()
	})

	r.Dispatch(NewSpecialEvent(KeyEnter, ModNone))
	r.Dispatch(NewSpecialEvent(KeyEnter, ModNone))
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRegistrySkipsInvalidSpecs(t *testing.T) {
	r := NewRegistry(nil)
	calls := 0
	r.Bind([]string{"Hyper+Q", "F5"}, func() { calls++ })
	r.Dispatch(NewSpecialEvent(KeyF5, ModNone))
	if calls != 1 {
		t.Errorf("expected valid spec to stay bound, got %d calls", calls)
	}
}
