package safekey

import "strings"

// Eski depo yollarında ('phurchase/<hesap>/<tarih>' gibi) hesap/cari adları
// path segmenti olarak kullanılıyor. Path'te geçemeyen karakterler burada
// tekil placeholder'lara çevrilir; Decode tam tersidir.
//
// Placeholder'lar meşru bir isimde geçerse Decode yanlış sonuç üretir;
// pratikte görünen isim alanlarında bu token'lar oluşmadığı için kabul
// edilmiş bir risk.
var replacements = []struct {
	raw   string
	token string
}{
	{".", "__dot__"},
	{"#", "__hash__"},
	{"$", "__dollar__"},
	{"[", "__lbr__"},
	{"]", "__rbr__"},
	{"/", "__slash__"},
}

// Encode: isimdeki path'e uygun olmayan karakterleri placeholder'a çevirir.
// Boş girdi boş string döner.
func Encode(name string) string {
	if name == "" {
		return ""
	}
	out := name
	for _, r := range replacements {
		out = strings.ReplaceAll(out, r.raw, r.token)
	}
	return out
}

// Decode: Encode'un tam tersi.
func Decode(token string) string {
	if token == "" {
		return ""
	}
	out := token
	for _, r := range replacements {
		out = strings.ReplaceAll(out, r.token, r.raw)
	}
	return out
}
