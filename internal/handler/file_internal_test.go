package handler

import "testing"

func TestIsSafeName(t *testing.T) {
	for _, name := range []string{"", ".", "..", "a/b", `a\b`} {
		if isSafeName(name) {
			t.Errorf("isSafeName(%q) = true, want false", name)
		}
	}
	for _, name := range []string{"narration.wav", "captions.json", "manifest.json"} {
		if !isSafeName(name) {
			t.Errorf("isSafeName(%q) = false, want true", name)
		}
	}
}
