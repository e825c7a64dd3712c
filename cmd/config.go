package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"exitlens/internal/analysis"
)

// runFile is the optional YAML run configuration accepted by analyze.
// Flags override whatever the file sets. CohortThreshold is a pointer so
// an explicit 0 is distinguishable from "not set" (0 is a valid boundary).
type runFile struct {
	Reference       string   `yaml:"reference"`
	Responses       string   `yaml:"responses"`
	Output          string   `yaml:"output"`
	TopK            int      `yaml:"top_k"`
	CohortThreshold *float64 `yaml:"cohort_threshold"`
	MaxClusters     int      `yaml:"max_clusters"`
	Offline         bool     `yaml:"offline"`
	NoSave          bool     `yaml:"no_save"`
}

func loadRunFile(path string) (runFile, error) {
	var rf runFile
	f, err := os.Open(path)
	if err != nil {
		return rf, fmt.Errorf("open run config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&rf); err != nil {
		return rf, fmt.Errorf("parse run config %s: %w", path, err)
	}
	return rf, nil
}

// analysisConfig maps the merged run file onto the pipeline defaults.
// An unset field keeps the default; a set field wins, including a cohort
// threshold of exactly 0.
func analysisConfig(rf runFile) analysis.Config {
	cfg := analysis.DefaultConfig()
	if rf.TopK > 0 {
		cfg.TopK = rf.TopK
	}
	if rf.CohortThreshold != nil {
		cfg.CohortThreshold = *rf.CohortThreshold
	}
	if rf.MaxClusters > 0 {
		cfg.Themes.MaxClusters = rf.MaxClusters
	}
	return cfg
}
