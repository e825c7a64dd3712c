package themes

import "sort"

// Candidate is a scored response as seen by the diversity selector.
type Candidate struct {
	// Index identifies the response in the caller's slice.
	Index int

	// Score is the combined score used for ranking.
	Score float64

	// Cluster is the candidate's theme id.
	Cluster int
}

// SelectDiverse picks up to k candidates, guaranteeing every cluster is
// represented before remaining slots are filled by score. The returned
// slice is ordered by score descending; ties keep input order (stable).
//
// Phase 1 walks clusters in ascending id order taking each cluster's best
// unselected candidate; phase 2 tops up with the best remaining candidates
// regardless of cluster. With fewer than k candidates, all are returned,
// sorted.
func SelectDiverse(candidates []Candidate, k int) []Candidate {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}

	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) <= k {
		return ranked
	}

	byCluster := map[int][]Candidate{}
	clusterIDs := []int{}
	for _, c := range ranked {
		if _, seen := byCluster[c.Cluster]; !seen {
			clusterIDs = append(clusterIDs, c.Cluster)
		}
		byCluster[c.Cluster] = append(byCluster[c.Cluster], c)
	}
	sort.Ints(clusterIDs)

	selected := make([]Candidate, 0, k)
	taken := map[int]bool{}

	for _, id := range clusterIDs {
		if len(selected) >= k {
			break
		}
		best := byCluster[id][0] // ranked slice keeps per-cluster order
		selected = append(selected, best)
		taken[best.Index] = true
	}

	for _, c := range ranked {
		if len(selected) >= k {
			break
		}
		if taken[c.Index] {
			continue
		}
		selected = append(selected, c)
		taken[c.Index] = true
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Score > selected[j].Score
	})
	return selected
}
