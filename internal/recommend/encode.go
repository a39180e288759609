// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package recommend

import (
	"encoding/binary"
	"hash/fnv"
	"sort"
	"strconv"

	"github.com/tomtom215/basketlens/internal/models"
)

// Universe is the customer/product space a model is trained on.
//
// NumCustomers is the count of distinct customer IDs and the customer ID is
// used directly as the one-hot position, so IDs must be dense and 0-based.
// NumProducts is the largest product ID plus one, treating product IDs as a
// dense 1-based range. The two sizes are derived differently on purpose and
// are not interchangeable.
type Universe struct {
	NumCustomers int    `json:"num_customers"`
	NumProducts  int    `json:"num_products"`
	Fingerprint  string `json:"fingerprint"`
}

// Contains reports whether customerID is a valid one-hot position.
func (u Universe) Contains(customerID int) bool {
	return customerID >= 0 && customerID < u.NumCustomers
}

// Dataset is a freshly encoded training set. Example i has one-hot input at
// position Customers[i] and target class Labels[i].
type Dataset struct {
	Customers []int
	Labels    []int
	Universe  Universe

	// Skipped counts pairs dropped because the customer or product fell
	// outside the universe.
	Skipped int
}

// Len returns the number of examples.
func (d *Dataset) Len() int {
	return len(d.Labels)
}

// Input returns the one-hot input vector of example i.
func (d *Dataset) Input(i int) []float64 {
	x := make([]float64, d.Universe.NumCustomers)
	x[d.Customers[i]] = 1
	return x
}

// Target returns the one-hot target vector of example i.
func (d *Dataset) Target(i int) []float64 {
	y := make([]float64, d.Universe.NumProducts)
	y[d.Labels[i]] = 1
	return y
}

// Encode builds a training set from purchase pairs.
//
// The label of a pair is its product ID minus one. A pair whose customer ID
// is negative or not below NumCustomers, or whose product ID is below 1, is
// dropped and counted in Skipped. Empty input yields an empty dataset.
func Encode(pairs []models.Purchase) *Dataset {
	ds := &Dataset{}
	if len(pairs) == 0 {
		ds.Universe = newUniverse(nil, 0)
		return ds
	}

	distinct := make(map[int]struct{})
	maxProduct := pairs[0].ProductID
	for _, p := range pairs {
		distinct[p.CustomerID] = struct{}{}
		if p.ProductID > maxProduct {
			maxProduct = p.ProductID
		}
	}
	numProducts := maxProduct + 1
	if numProducts < 0 {
		numProducts = 0
	}

	ids := make([]int, 0, len(distinct))
	for id := range distinct {
		ids = append(ids, id)
	}
	ds.Universe = newUniverse(ids, numProducts)

	ds.Customers = make([]int, 0, len(pairs))
	ds.Labels = make([]int, 0, len(pairs))
	for _, p := range pairs {
		label := p.ProductID - 1
		if !ds.Universe.Contains(p.CustomerID) || label < 0 || label >= numProducts {
			ds.Skipped++
			continue
		}
		ds.Customers = append(ds.Customers, p.CustomerID)
		ds.Labels = append(ds.Labels, label)
	}
	return ds
}

// UniverseOf computes the universe pairs would be trained on without
// encoding them.
func UniverseOf(pairs []models.Purchase) Universe {
	return Encode(pairs).Universe
}

// newUniverse fingerprints the sorted customer IDs together with the
// product space size.
func newUniverse(customerIDs []int, numProducts int) Universe {
	sort.Ints(customerIDs)
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(numProducts))
	_, _ = h.Write(buf[:])
	for _, id := range customerIDs {
		binary.LittleEndian.PutUint64(buf[:], uint64(id))
		_, _ = h.Write(buf[:])
	}
	return Universe{
		NumCustomers: len(customerIDs),
		NumProducts:  numProducts,
		Fingerprint:  strconv.FormatUint(h.Sum64(), 16),
	}
}
