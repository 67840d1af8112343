package game

import "testing"

func TestDecodeNetMessage(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		kind    NetKind
		wantErr bool
	}{
		{"local id number", `{"id": 7}`, NetLocalID, false},
		{"local id string", `{"id": "abc"}`, NetLocalID, false},
		{"events", `{"type":"events","data":[{"id":"a"}]}`, NetEvents, false},
		{"empty events", `{"type":"events"}`, NetEvents, false},
		{"full state", `{"a":{"pos":{"x":1,"y":2}},"b":{}}`, NetState, false},
		{"empty state", `{}`, NetState, false},
		{"not an object", `[1,2]`, 0, true},
		{"garbage", `{`, 0, true},
		{"unknown type", `{"type":"chat"}`, 0, true},
		{"bad remote", `{"a": 5}`, 0, true},
		{"bad event id", `{"type":"events","data":[{"id":true}]}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := DecodeNetMessage([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && msg.Kind != tt.kind {
				t.Errorf("kind = %v, want %v", msg.Kind, tt.kind)
			}
		})
	}
}

func TestDecodeNetMessageFields(t *testing.T) {
	msg, err := DecodeNetMessage([]byte(`{"id": 42}`))
	if err != nil || msg.LocalID != "42" {
		t.Errorf("local id = %q, %v", msg.LocalID, err)
	}

	msg, err = DecodeNetMessage([]byte(`{"type":"events","data":[{"id":3},{"id":"b","effect":"shield"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	want := []RemoteEvent{{ID: "3", Effect: EffectLostCoins}, {ID: "b", Effect: "shield"}}
	if len(msg.Events) != len(want) {
		t.Fatalf("events = %+v", msg.Events)
	}
	for i := range want {
		if msg.Events[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, msg.Events[i], want[i])
		}
	}

	msg, err = DecodeNetMessage([]byte(`{"a":{"pos":{"x":1,"y":2},"health":40}}`))
	if err != nil {
		t.Fatal(err)
	}
	if rp := msg.State["a"]; rp.Pos != (Vec{X: 1, Y: 2}) || rp.Health != 40 {
		t.Errorf("remote a = %+v", rp)
	}
}

func TestApplyNet(t *testing.T) {
	w := newTestWorld(t, 4, 4)

	state, _ := DecodeNetMessage([]byte(`{"a":{"health":10},"b":{"health":20}}`))
	if n := w.ApplyNet(state); n != 2 {
		t.Errorf("state touched %d, want 2", n)
	}

	events, _ := DecodeNetMessage([]byte(`{"type":"events","data":[{"id":"a"},{"id":"ghost"},{"id":"b","effect":"unknown"}]}`))
	if n := w.ApplyNet(events); n != 1 {
		t.Errorf("events touched %d, want 1", n)
	}

	a, _ := w.Remote("a")
	b, _ := w.Remote("b")
	if !a.LostCoins || b.LostCoins {
		t.Errorf("lostCoins a=%v b=%v, want true false", a.LostCoins, b.LostCoins)
	}
	if _, ok := w.Remote("ghost"); ok {
		t.Error("events must not create unknown remotes")
	}

	replace, _ := DecodeNetMessage([]byte(`{"c":{}}`))
	w.ApplyNet(replace)
	if w.RemoteCount() != 1 {
		t.Errorf("remotes = %d, full state should replace", w.RemoteCount())
	}
	if _, ok := w.Remote("a"); ok {
		t.Error("a should be gone after replacement")
	}

	id, _ := DecodeNetMessage([]byte(`{"id":"me"}`))
	w.ApplyNet(id)
	if w.LocalID() != "me" {
		t.Errorf("local id = %q", w.LocalID())
	}
	if w.RemoteCount() != 1 {
		t.Error("local id assignment must not touch remotes")
	}
}
