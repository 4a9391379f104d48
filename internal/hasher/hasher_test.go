package hasher

import "testing"

func TestContentHash(t *testing.T) {
	data := []byte("equirectangular")

	full := ContentHash(data, 0)
	if len(full) != 16 {
		t.Errorf("full hash length = %d, want 16", len(full))
	}
	if full != ContentHash(data, 0) {
		t.Error("hash is not deterministic")
	}

	short := ContentHash(data, 8)
	if len(short) != 8 {
		t.Errorf("truncated hash length = %d, want 8", len(short))
	}
	if short != full[:8] {
		t.Errorf("truncated hash %q is not a prefix of %q", short, full)
	}

	other := ContentHash([]byte("cubemap"), 0)
	if other == full {
		t.Error("different inputs produced the same hash")
	}
}
