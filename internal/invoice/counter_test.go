package invoice

import "testing"

func TestFormatStoreKey(t *testing.T) {
	if got := FormatStoreKey(42); got != "invoice-42" {
		t.Errorf("FormatStoreKey(42) = %q", got)
	}
}

func TestParseStoreKey(t *testing.T) {
	cases := []struct {
		key    string
		wantNo int64
		wantOK bool
	}{
		{"invoice-1", 1, true},
		{"invoice-1001", 1001, true},
		{"invoice-", 0, false},
		{"invoice-abc", 0, false},
		{"invoice-0", 0, false},
		{"invoice--5", 0, false},
		{"fatura-1", 0, false},
		{"", 0, false},
	}

	for _, c := range cases {
		no, ok := ParseStoreKey(c.key)
		if ok != c.wantOK || no != c.wantNo {
			t.Errorf("ParseStoreKey(%q) = (%d, %v), (%d, %v) bekleniyordu",
				c.key, no, ok, c.wantNo, c.wantOK)
		}
	}
}

func TestStoreKeyRoundTrip(t *testing.T) {
	for _, no := range []int64{1, 99, 123456} {
		parsed, ok := ParseStoreKey(FormatStoreKey(no))
		if !ok || parsed != no {
			t.Errorf("round trip bozuk: %d -> %q -> (%d, %v)", no, FormatStoreKey(no), parsed, ok)
		}
	}
}
