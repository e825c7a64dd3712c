// Package themes groups response texts into thematic clusters and selects
// diverse high-scoring subsets across them.
package themes

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"exitlens/internal/keywords"
)

// FallbackLabel names a theme whose cluster produced no positive-weight terms.
const FallbackLabel = "general"

// Result holds a clustering of n responses. Cluster ids are dense from 0.
type Result struct {
	// Assignments maps response index to cluster id.
	Assignments []int

	// Labels maps cluster id to its top theme terms.
	Labels map[int][]string

	// Members maps cluster id to the response indices it contains.
	Members map[int][]int
}

// ClusterCount returns the number of discovered clusters.
func (r Result) ClusterCount() int { return len(r.Members) }

// Clusterer partitions responses into themes by lexical similarity.
type Clusterer struct {
	cfg      Config
	weighter *keywords.Weighter
	log      *zap.Logger
}

// NewClusterer creates a Clusterer.
func NewClusterer(cfg Config, log *zap.Logger) *Clusterer {
	if log == nil {
		log = zap.NewNop()
	}
	kwCfg := keywords.DefaultConfig()
	kwCfg.MaxTerms = cfg.MaxFeatures
	return &Clusterer{
		cfg:      cfg,
		weighter: keywords.New(kwCfg),
		log:      log,
	}
}

// Cluster groups responses into at most MaxClusters themes. It never fails:
// fewer than two responses, or a vocabulary that vectorizes to nothing,
// degrade to a single cluster holding everything. Initialization is
// deterministic, so identical input always produces identical clusters.
func (c *Clusterer) Cluster(responses []string) Result {
	n := len(responses)
	if n < 2 {
		return c.singleCluster(responses)
	}

	vocab, vectors := c.weighter.Vectorize(responses)
	if len(vocab) == 0 || len(vectors) != n {
		c.log.Warn("degenerate vocabulary, collapsing to single cluster",
			zap.Int("responses", n))
		return c.singleCluster(responses)
	}

	k := c.cfg.MaxClusters
	if k > n {
		k = n
	}
	if k < 2 {
		return c.labeledSingleCluster(vocab, vectors, n)
	}

	assign := c.kmeans(vectors, k)
	return c.assemble(vocab, vectors, assign)
}

// kmeans runs a deterministic k-means over unit vectors: centroids seeded
// by farthest-point traversal from index 0, cosine-similarity assignment,
// bounded iterations.
func (c *Clusterer) kmeans(vectors [][]float64, k int) []int {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, vectors[0])
	for len(centroids) < k {
		bestIdx := 0
		bestDist := -1.0
		for i := range vectors {
			d := 1.0
			for _, cent := range centroids {
				if dist := 1.0 - cosine(vectors[i], cent); dist < d {
					d = dist
				}
			}
			if d > bestDist {
				bestDist = d
				bestIdx = i
			}
		}
		centroids = append(centroids, vectors[bestIdx])
	}

	assign := make([]int, len(vectors))
	for i := range assign {
		assign[i] = -1
	}

	for iter := 0; iter < c.cfg.Iterations; iter++ {
		changed := false
		for i, vec := range vectors {
			best := 0
			bestScore := -1.0
			for ci, cent := range centroids {
				if s := cosine(vec, cent); s > bestScore {
					bestScore = s
					best = ci
				}
			}
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		for ci := range centroids {
			mean := make([]float64, len(vectors[0]))
			count := 0
			for i, a := range assign {
				if a != ci {
					continue
				}
				for j, v := range vectors[i] {
					mean[j] += v
				}
				count++
			}
			if count == 0 {
				continue
			}
			normalize(mean)
			centroids[ci] = mean
		}
	}

	return assign
}

// assemble compacts cluster ids to a dense 0..m-1 range (ordered by first
// appearance) and labels each cluster.
func (c *Clusterer) assemble(vocab []string, vectors [][]float64, assign []int) Result {
	remap := map[int]int{}
	dense := make([]int, len(assign))
	for i, a := range assign {
		id, ok := remap[a]
		if !ok {
			id = len(remap)
			remap[a] = id
		}
		dense[i] = id
	}

	members := make(map[int][]int, len(remap))
	for i, id := range dense {
		members[id] = append(members[id], i)
	}

	labels := make(map[int][]string, len(members))
	for id, idxs := range members {
		labels[id] = c.labelFor(vocab, vectors, idxs)
	}

	c.log.Debug("clustered responses",
		zap.Int("responses", len(assign)),
		zap.Int("clusters", len(members)))

	return Result{Assignments: dense, Labels: labels, Members: members}
}

// labelFor picks the top LabelTerms terms by mean in-cluster weight.
func (c *Clusterer) labelFor(vocab []string, vectors [][]float64, idxs []int) []string {
	mean := make([]float64, len(vocab))
	for _, i := range idxs {
		for j, v := range vectors[i] {
			mean[j] += v
		}
	}

	type tw struct {
		term   string
		weight float64
	}
	ranked := make([]tw, 0, len(vocab))
	for j, term := range vocab {
		if mean[j] > 0 {
			ranked = append(ranked, tw{term, mean[j]})
		}
	}
	if len(ranked) == 0 {
		return []string{FallbackLabel}
	}

	sort.Slice(ranked, func(a, b int) bool {
		if ranked[a].weight != ranked[b].weight {
			return ranked[a].weight > ranked[b].weight
		}
		return ranked[a].term < ranked[b].term
	})

	limit := c.cfg.LabelTerms
	if limit > len(ranked) {
		limit = len(ranked)
	}
	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = ranked[i].term
	}
	return out
}

func (c *Clusterer) singleCluster(responses []string) Result {
	n := len(responses)
	assign := make([]int, n)
	members := map[int][]int{}
	if n > 0 {
		idxs := make([]int, n)
		for i := range idxs {
			idxs[i] = i
		}
		members[0] = idxs
	} else {
		members[0] = nil
	}
	return Result{
		Assignments: assign,
		Labels:      map[int][]string{0: {FallbackLabel}},
		Members:     members,
	}
}

func (c *Clusterer) labeledSingleCluster(vocab []string, vectors [][]float64, n int) Result {
	idxs := make([]int, n)
	for i := range idxs {
		idxs[i] = i
	}
	return Result{
		Assignments: make([]int, n),
		Labels:      map[int][]string{0: c.labelFor(vocab, vectors, idxs)},
		Members:     map[int][]int{0: idxs},
	}
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func normalize(v []float64) {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum <= 0 {
		return
	}
	inv := 1.0 / math.Sqrt(sum)
	for i := range v {
		v[i] *= inv
	}
}
