package stock

import "testing"

func TestBuildCategoryCSV(t *testing.T) {
	rows := []CategoryBoxes{
		{Category: "B", Boxes: 5},
		{Category: "A", Boxes: 10},
	}

	got := BuildCategoryCSV(rows)
	want := "Category,Boxes\nA,10\nB,5"
	if got != want {
		t.Errorf("CSV çıktısı yanlış:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestBuildCategoryCSVEmpty(t *testing.T) {
	if got := BuildCategoryCSV(nil); got != "Category,Boxes" {
		t.Errorf("boş rapor sadece başlık olmalı, got %q", got)
	}
}

func TestBuildCategoryCSVFractionalBoxes(t *testing.T) {
	got := BuildCategoryCSV([]CategoryBoxes{{Category: "İçecek", Boxes: 2.5}})
	want := "Category,Boxes\nİçecek,2.5"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildCategoryCSVNoTrailingNewline(t *testing.T) {
	got := BuildCategoryCSV([]CategoryBoxes{{Category: "A", Boxes: 1}})
	if got[len(got)-1] == '\n' {
		t.Error("çıktı newline ile bitmemeli")
	}
}
