package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"exitlens/internal/analysis"
	"exitlens/internal/ingest"
	"exitlens/internal/knowledge"
	"exitlens/internal/llm"
	"exitlens/internal/quality"
	"exitlens/internal/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze an exit-ticket CSV against reference material",
	Long: "Reads student responses from a CSV (Student_ID, Q1_Response, Q2_Response,\n" +
		"Q3_Response), extracts concepts from the reference material, scores and\n" +
		"clusters each prompt's responses, and prints a diverse top selection with\n" +
		"cohort summaries.",
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringP("responses", "r", "", "Path to exit-ticket CSV")
	analyzeCmd.Flags().StringP("reference", "m", "", "Path to reference material text file")
	analyzeCmd.Flags().StringP("config", "c", "", "Path to YAML run configuration")
	analyzeCmd.Flags().StringP("out", "o", "", "Write the JSON payload to this file")
	analyzeCmd.Flags().Int("top-k", 0, "Responses to select per prompt (default 10)")
	analyzeCmd.Flags().Float64("threshold", 50, "Cohort score threshold")
	analyzeCmd.Flags().Bool("offline", false, "Skip the LLM oracle; use keyword fallbacks and neutral quality")
	analyzeCmd.Flags().Bool("no-save", false, "Do not record this run in the knowledge base")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	var rf runFile
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if rf, err = loadRunFile(path); err != nil {
			return err
		}
	}
	if v, _ := cmd.Flags().GetString("responses"); v != "" {
		rf.Responses = v
	}
	if v, _ := cmd.Flags().GetString("reference"); v != "" {
		rf.Reference = v
	}
	if v, _ := cmd.Flags().GetString("out"); v != "" {
		rf.Output = v
	}
	if v, _ := cmd.Flags().GetInt("top-k"); v > 0 {
		rf.TopK = v
	}
	if cmd.Flags().Changed("threshold") {
		v, _ := cmd.Flags().GetFloat64("threshold")
		rf.CohortThreshold = &v
	}
	if v, _ := cmd.Flags().GetBool("offline"); v {
		rf.Offline = true
	}
	if v, _ := cmd.Flags().GetBool("no-save"); v {
		rf.NoSave = true
	}
	if rf.Responses == "" || rf.Reference == "" {
		return fmt.Errorf("both a responses CSV and a reference file are required (flags or run config)")
	}

	cfg := analysisConfig(rf)

	reference, err := ingest.ReadReference(rf.Reference)
	if err != nil {
		return err
	}
	tickets, err := ingest.ReadTicketsFile(rf.Responses, log)
	if err != nil {
		return err
	}
	if len(tickets) == 0 {
		return fmt.Errorf("no usable rows in %s", rf.Responses)
	}
	responses := ingest.Responses(tickets)

	ctx := cmd.Context()

	var provider llm.Provider
	if !rf.Offline {
		provider, err = llm.NewProviderFromEnv(ctx, log)
		if err != nil {
			log.Warn("no LLM provider available, continuing offline", zap.Error(err))
		}
	}

	analyzer, err := analysis.New(provider, cfg, log)
	if err != nil {
		return err
	}
	rep := analyzer.Run(ctx, reference, responses)

	eval := quality.Evaluate(rep)
	cmp := saveRun(cmd, rep, eval, rf.NoSave, log)

	fmt.Print(report.Render(rep, &eval, cmp))

	if rf.Output != "" {
		var buf bytes.Buffer
		if err := report.WriteJSON(&buf, rep, &eval, cmp); err != nil {
			return err
		}
		if err := os.WriteFile(rf.Output, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("Report written to %s\n", rf.Output)
	}
	return nil
}

// saveRun records the run and returns the trend comparison. History is
// best-effort: a storage failure downgrades to a warning, never a failed
// analysis.
func saveRun(cmd *cobra.Command, rep *analysis.Report, eval quality.Evaluation, skip bool, log *zap.Logger) *knowledge.Comparison {
	if skip {
		return nil
	}
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		log.Warn("resolve database path", zap.Error(err))
		return nil
	}
	store, err := knowledge.Open(dbPath)
	if err != nil {
		log.Warn("open knowledge base", zap.Error(err))
		return nil
	}
	defer store.Close()

	ctx := cmd.Context()
	trends, err := store.QualityTrends(ctx)
	if err != nil {
		log.Warn("load quality trends", zap.Error(err))
		return nil
	}
	cmp := trends.Compare(eval.OverallScore)

	var buf bytes.Buffer
	if err := report.WriteJSON(&buf, rep, &eval, nil); err != nil {
		log.Warn("encode report for storage", zap.Error(err))
		return &cmp
	}
	err = store.SaveRun(ctx, knowledge.RunSummary{
		ID:             rep.RunID,
		Activity:       rep.Activity,
		CreatedAt:      time.Now().UTC(),
		Model:          rep.Model,
		StudentCount:   rep.StudentCount,
		OverallQuality: eval.OverallScore,
	}, json.RawMessage(buf.Bytes()))
	if err != nil {
		log.Warn("save run", zap.Error(err))
	}
	return &cmp
}
