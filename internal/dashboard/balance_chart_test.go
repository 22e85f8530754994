package dashboard

import (
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestAggregateBucketsOrdersByDate(t *testing.T) {
	rows := []flowRow{
		{Bucket: day(12), Flow: "out", Total: 40},
		{Bucket: day(10), Flow: "in", Total: 100},
		{Bucket: day(11), Flow: "in", Total: 30},
		{Bucket: day(10), Flow: "out", Total: 25},
	}

	ordered := aggregateBuckets(rows)

	if len(ordered) != 3 {
		t.Fatalf("bucket sayısı 3 beklenirken %d", len(ordered))
	}
	for i := 1; i < len(ordered); i++ {
		if ordered[i].Bucket.Before(ordered[i-1].Bucket) {
			t.Errorf("bucket'lar tarihe göre artan değil: %v sonra %v",
				ordered[i-1].Bucket, ordered[i].Bucket)
		}
	}

	first := ordered[0]
	if !first.Bucket.Equal(day(10)) || first.In != 100 || first.Out != 25 {
		t.Errorf("ilk bucket beklenmedik: %+v", first)
	}
}

func TestAggregateBucketsMergesFlows(t *testing.T) {
	rows := []flowRow{
		{Bucket: day(5), Flow: "in", Total: 10},
		{Bucket: day(5), Flow: "in", Total: 15},
		{Bucket: day(5), Flow: "out", Total: 8},
	}

	ordered := aggregateBuckets(rows)
	if len(ordered) != 1 {
		t.Fatalf("tek bucket beklenirken %d", len(ordered))
	}
	if ordered[0].In != 25 || ordered[0].Out != 8 {
		t.Errorf("toplamlar beklenmedik: in=%v out=%v", ordered[0].In, ordered[0].Out)
	}
}
