package health

import "testing"

func TestStatus(t *testing.T) {
	got := NewService("gemini", "analyzer").Status()
	want := Status{OK: true, Provider: "gemini", Profile: "analyzer"}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}
