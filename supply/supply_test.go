/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package supply

import "testing"

func TestConstant(t *testing.T) {
	c := NewConstant("bucket-a")
	for i := 0; i < 3; i++ {
		if got := c.Get(nil); got != "bucket-a" {
			t.Fatalf("Get() = %q, want %q", got, "bucket-a")
		}
	}
}

func TestCycleWraps(t *testing.T) {
	c := NewCycle([]int{1, 2, 3})
	got := []int{c.Get(nil), c.Get(nil), c.Get(nil), c.Get(nil)}
	want := []int{1, 2, 3, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("call %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestRangedCycle(t *testing.T) {
	r, err := NewRanged(5, 7, RangeModeCycle)
	if err != nil {
		t.Fatalf("NewRanged: %v", err)
	}
	got := []int64{r.Get(nil), r.Get(nil), r.Get(nil), r.Get(nil)}
	want := []int64{5, 6, 7, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("call %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestRangedRandomStaysInBounds(t *testing.T) {
	r, err := NewRanged(10, 20, RangeModeRandom)
	if err != nil {
		t.Fatalf("NewRanged: %v", err)
	}
	for i := 0; i < 1000; i++ {
		v := r.Get(nil)
		if v < 10 || v > 20 {
			t.Fatalf("value %d out of [10,20]", v)
		}
	}
}

func TestRangedRejectsInvertedBounds(t *testing.T) {
	if _, err := NewRanged(10, 5, RangeModeCycle); err == nil {
		t.Fatalf("expected error for min > max")
	}
}

func TestWeightedRandomFrequencyWithinOnePercent(t *testing.T) {
	w, err := NewWeightedRandom([]Choice[string]{
		{Value: "WRITE", Weight: 1},
		{Value: "READ", Weight: 3},
		{Value: "DELETE", Weight: 1},
	})
	if err != nil {
		t.Fatalf("NewWeightedRandom: %v", err)
	}
	const n = 1_000_000
	counts := map[string]int{}
	for i := 0; i < n; i++ {
		counts[w.Get(nil)]++
	}
	wantFrac := map[string]float64{"WRITE": 0.2, "READ": 0.6, "DELETE": 0.2}
	for k, want := range wantFrac {
		got := float64(counts[k]) / float64(n)
		if diff := got - want; diff < -0.01 || diff > 0.01 {
			t.Fatalf("%s frequency = %.4f, want within 1%% of %.4f", k, got, want)
		}
	}
}

func TestWeightedRandomRejectsZeroWeights(t *testing.T) {
	if _, err := NewWeightedRandom([]Choice[int]{{Value: 1, Weight: 0}}); err == nil {
		t.Fatalf("expected error for all-zero weights")
	}
}
