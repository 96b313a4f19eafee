package neo

import (
	"fmt"
	"sort"
)

// ClosestApproach returns the close-approach record with the minimum miss
// distance in miles. With earthOnly set, records orbiting bodies other than
// Earth are skipped before ranking. Returns nil if no record survives the
// filter. Ties go to the first-encountered minimum (stable scan).
func ClosestApproach(approaches []CloseApproach, earthOnly bool) (*CloseApproach, error) {
	var closest *CloseApproach
	var minMiles float64

	for i := range approaches {
		if earthOnly && approaches[i].OrbitingBody != OrbitingBodyEarth {
			continue
		}
		miles, err := approaches[i].MissMiles()
		if err != nil {
			return nil, err
		}
		if closest == nil || miles < minMiles {
			minMiles = miles
			closest = &approaches[i]
		}
	}

	if closest == nil {
		return nil, nil
	}
	out := *closest
	return &out, nil
}

// NNearestMisses ranks the object's close approaches ascending by miss
// distance in miles and returns one deep copy of the object per rank, each
// with its close-approach list replaced by the single record of that rank.
// Ordering of the result follows the ranking.
//
// Requesting more misses than the object has approach records is an error;
// the global bound on n is validated up front by the caller, but per-object
// approach counts are only known at this point.
func NNearestMisses(obj NearEarthObject, n int) ([]NearEarthObject, error) {
	if n > len(obj.CloseApproachData) {
		return nil, fmt.Errorf("object %s: requested %d nearest misses but only %d close approaches recorded",
			obj.ID, n, len(obj.CloseApproachData))
	}

	type rankedApproach struct {
		approach CloseApproach
		miles    float64
	}

	ranked := make([]rankedApproach, 0, len(obj.CloseApproachData))
	for _, approach := range obj.CloseApproachData {
		miles, err := approach.MissMiles()
		if err != nil {
			return nil, fmt.Errorf("object %s: %w", obj.ID, err)
		}
		ranked = append(ranked, rankedApproach{approach: approach, miles: miles})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].miles < ranked[j].miles
	})

	misses := make([]NearEarthObject, 0, n)
	for i := 0; i < n; i++ {
		derived := obj.Clone()
		derived.CloseApproachData = []CloseApproach{ranked[i].approach}
		misses = append(misses, derived)
	}

	return misses, nil
}
