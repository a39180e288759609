// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package recommend

import (
	"testing"

	"github.com/tomtom215/basketlens/internal/models"
)

func pairs(raw ...[2]int) []models.Purchase {
	out := make([]models.Purchase, len(raw))
	for i, p := range raw {
		out[i] = models.Purchase{CustomerID: p[0], ProductID: p[1]}
	}
	return out
}

func TestEncode_AsymmetricUniverse(t *testing.T) {
	t.Parallel()

	// Customers count distinct IDs, products use max ID + 1.
	ds := Encode(pairs([2]int{0, 1}, [2]int{0, 2}, [2]int{1, 1}))

	if ds.Universe.NumCustomers != 2 {
		t.Errorf("NumCustomers = %d, want 2", ds.Universe.NumCustomers)
	}
	if ds.Universe.NumProducts != 3 {
		t.Errorf("NumProducts = %d, want 3", ds.Universe.NumProducts)
	}
	if ds.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", ds.Len())
	}

	wantLabels := []int{0, 1, 0}
	for i, want := range wantLabels {
		if ds.Labels[i] != want {
			t.Errorf("Labels[%d] = %d, want %d", i, ds.Labels[i], want)
		}
	}

	x := ds.Input(2)
	if len(x) != 2 || x[0] != 0 || x[1] != 1 {
		t.Errorf("Input(2) = %v, want [0 1]", x)
	}
	y := ds.Target(1)
	if len(y) != 3 || y[1] != 1 || y[0] != 0 || y[2] != 0 {
		t.Errorf("Target(1) = %v, want [0 1 0]", y)
	}
}

func TestEncode_Empty(t *testing.T) {
	t.Parallel()

	ds := Encode(nil)
	if ds.Len() != 0 {
		t.Errorf("Len() = %d, want 0", ds.Len())
	}
	if ds.Universe.NumCustomers != 0 || ds.Universe.NumProducts != 0 {
		t.Errorf("Universe = %+v, want zero sizes", ds.Universe)
	}
}

func TestEncode_SkipsOutOfUniverse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		pairs       []models.Purchase
		wantLen     int
		wantSkipped int
	}{
		{
			name:    "dense ids",
			pairs:   pairs([2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3}),
			wantLen: 3,
		},
		{
			// Two distinct customers means positions 0 and 1 only.
			name:        "sparse customer id",
			pairs:       pairs([2]int{0, 1}, [2]int{5, 2}),
			wantLen:     1,
			wantSkipped: 1,
		},
		{
			name:        "negative customer id",
			pairs:       pairs([2]int{-1, 1}, [2]int{0, 1}),
			wantLen:     1,
			wantSkipped: 1,
		},
		{
			name:        "product id zero",
			pairs:       pairs([2]int{0, 0}, [2]int{1, 1}),
			wantLen:     1,
			wantSkipped: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ds := Encode(tt.pairs)
			if ds.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", ds.Len(), tt.wantLen)
			}
			if ds.Skipped != tt.wantSkipped {
				t.Errorf("Skipped = %d, want %d", ds.Skipped, tt.wantSkipped)
			}
		})
	}
}

func TestUniverse_Fingerprint(t *testing.T) {
	t.Parallel()

	a := UniverseOf(pairs([2]int{0, 1}, [2]int{1, 2}))
	b := UniverseOf(pairs([2]int{1, 2}, [2]int{0, 1}, [2]int{0, 2}))
	if a.Fingerprint != b.Fingerprint {
		t.Errorf("fingerprints differ for the same universe: %s vs %s", a.Fingerprint, b.Fingerprint)
	}

	c := UniverseOf(pairs([2]int{0, 1}, [2]int{1, 3}))
	if a.Fingerprint == c.Fingerprint {
		t.Error("fingerprint unchanged after product space grew")
	}

	d := UniverseOf(pairs([2]int{0, 1}, [2]int{2, 2}))
	if a.Fingerprint == d.Fingerprint {
		t.Error("fingerprint unchanged for different customer ids")
	}
}

func TestUniverse_Contains(t *testing.T) {
	t.Parallel()

	u := Universe{NumCustomers: 2, NumProducts: 3}
	tests := []struct {
		id   int
		want bool
	}{
		{-1, false},
		{0, true},
		{1, true},
		{2, false},
	}
	for _, tt := range tests {
		if got := u.Contains(tt.id); got != tt.want {
			t.Errorf("Contains(%d) = %v, want %v", tt.id, got, tt.want)
		}
	}
}
