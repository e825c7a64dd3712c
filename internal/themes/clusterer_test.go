package themes

import (
	"reflect"
	"testing"

	"go.uber.org/zap"
)

var biologyResponses = []string{
	"Restriction enzymes cut DNA at specific recognition sites",
	"Restriction enzymes recognize palindromic sequences in DNA",
	"EcoRI is a restriction enzyme that cuts DNA",
	"Plasmids are circular DNA used as cloning vectors",
	"Plasmids carry recombinant DNA into bacterial cells",
	"Gel electrophoresis separates DNA fragments by size",
	"Electrophoresis uses an electric field to move DNA fragments",
}

func newTestClusterer(maxClusters int) *Clusterer {
	cfg := DefaultConfig()
	cfg.MaxClusters = maxClusters
	return NewClusterer(cfg, zap.NewNop())
}

func TestCluster_AssignsEveryResponseExactlyOnce(t *testing.T) {
	c := newTestClusterer(3)
	res := c.Cluster(biologyResponses)

	if len(res.Assignments) != len(biologyResponses) {
		t.Fatalf("expected %d assignments, got %d", len(biologyResponses), len(res.Assignments))
	}
	for i, id := range res.Assignments {
		if id < 0 || id >= res.ClusterCount() {
			t.Errorf("response %d has out-of-range cluster id %d", i, id)
		}
	}

	total := 0
	for _, members := range res.Members {
		total += len(members)
	}
	if total != len(biologyResponses) {
		t.Fatalf("members cover %d responses, want %d", total, len(biologyResponses))
	}
}

func TestCluster_RespectsMaxClusters(t *testing.T) {
	c := newTestClusterer(3)
	res := c.Cluster(biologyResponses)
	if res.ClusterCount() > 3 {
		t.Fatalf("expected at most 3 clusters, got %d", res.ClusterCount())
	}
	if res.ClusterCount() < 1 {
		t.Fatal("expected at least one cluster")
	}
}

func TestCluster_DenseIDsFromZero(t *testing.T) {
	c := newTestClusterer(4)
	res := c.Cluster(biologyResponses)
	for id := 0; id < res.ClusterCount(); id++ {
		if _, ok := res.Members[id]; !ok {
			t.Fatalf("cluster ids not dense: missing %d of %d", id, res.ClusterCount())
		}
		if _, ok := res.Labels[id]; !ok {
			t.Fatalf("cluster %d has no label", id)
		}
	}
}

func TestCluster_Deterministic(t *testing.T) {
	// Tied label weights are sensitive to any map-iteration-order effect in
	// vectorization, so a single comparison can pass by luck. Repeat enough
	// times that an order-dependent float rounding would surface.
	first := newTestClusterer(3).Cluster(biologyResponses)
	for i := 0; i < 200; i++ {
		run := newTestClusterer(3).Cluster(biologyResponses)
		if !reflect.DeepEqual(first.Assignments, run.Assignments) {
			t.Fatalf("run %d: cluster assignments differ between identical runs", i)
		}
		if !reflect.DeepEqual(first.Labels, run.Labels) {
			t.Fatalf("run %d: cluster labels differ between identical runs:\n%v\nvs\n%v",
				i, first.Labels, run.Labels)
		}
	}
}

func TestCluster_SingleResponse(t *testing.T) {
	c := newTestClusterer(5)
	res := c.Cluster([]string{"just one response about DNA replication"})
	if res.ClusterCount() != 1 {
		t.Fatalf("expected 1 cluster, got %d", res.ClusterCount())
	}
	if res.Assignments[0] != 0 {
		t.Fatalf("expected assignment to cluster 0, got %d", res.Assignments[0])
	}
}

func TestCluster_EmptyInput(t *testing.T) {
	c := newTestClusterer(5)
	res := c.Cluster(nil)
	if len(res.Assignments) != 0 {
		t.Fatalf("expected no assignments, got %v", res.Assignments)
	}
}

func TestCluster_DegenerateVocabularyFallsBack(t *testing.T) {
	c := newTestClusterer(5)
	// Nothing here survives cleaning and stopword removal.
	res := c.Cluster([]string{"!!!", "???", "..", "a b"})
	if res.ClusterCount() != 1 {
		t.Fatalf("expected single fallback cluster, got %d", res.ClusterCount())
	}
	if got := res.Labels[0]; len(got) != 1 || got[0] != FallbackLabel {
		t.Fatalf("expected fallback label, got %v", got)
	}
}

func TestCluster_LabelsAreTopTerms(t *testing.T) {
	c := newTestClusterer(2)
	res := c.Cluster(biologyResponses)
	for id, label := range res.Labels {
		if len(label) == 0 {
			t.Fatalf("cluster %d has empty label", id)
		}
		if len(label) > c.cfg.LabelTerms {
			t.Fatalf("cluster %d label has %d terms, cap is %d", id, len(label), c.cfg.LabelTerms)
		}
	}
}

func TestCluster_MoreClustersThanResponses(t *testing.T) {
	c := newTestClusterer(10)
	responses := biologyResponses[:3]
	res := c.Cluster(responses)
	if res.ClusterCount() > len(responses) {
		t.Fatalf("cluster count %d exceeds response count %d", res.ClusterCount(), len(responses))
	}
}
