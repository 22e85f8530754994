package safekey

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	names := []string{
		"Malad Payment",
		"A.B. Traders",
		"Shop #12",
		"Cash $ Carry",
		"Depo [Merkez]",
		"Toptan/Perakende",
		"tüm.özel#karakterler$bir[arada]/test",
		"sade isim",
		"",
	}

	for _, name := range names {
		encoded := Encode(name)
		decoded := Decode(encoded)
		if decoded != name {
			t.Errorf("Decode(Encode(%q)) = %q, %q bekleniyordu", name, decoded, name)
		}
	}
}

func TestEncodeReplacesUnsafeChars(t *testing.T) {
	encoded := Encode("a.b/c")
	for _, ch := range []string{".", "/"} {
		for i := 0; i < len(encoded); i++ {
			if string(encoded[i]) == ch {
				t.Errorf("Encode çıktısında %q karakteri kalmış: %q", ch, encoded)
			}
		}
	}
	if encoded != "a__dot__b__slash__c" {
		t.Errorf("beklenmeyen encode çıktısı: %q", encoded)
	}
}

func TestEncodeEmpty(t *testing.T) {
	if Encode("") != "" {
		t.Error("boş girdi boş string dönmeli")
	}
	if Decode("") != "" {
		t.Error("boş token boş string dönmeli")
	}
}
