package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"exitlens/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect and test the LLM provider configuration",
}

var llmCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the configured provider responds",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx := cmd.Context()
		provider, err := llm.NewProviderFromEnv(ctx, log)
		if err != nil {
			return fmt.Errorf("no provider configured: %w", err)
		}
		fmt.Printf("Provider model: %s\n", provider.ModelID())

		ctx = llm.WithPurpose(ctx, "connectivity-check")
		start := time.Now()
		resp, err := provider.Generate(ctx, llm.Request{
			Messages: []llm.Message{
				{Role: llm.RoleUser, Content: "Reply with the single word: ok"},
			},
			MaxTokens: 16,
		})
		if err != nil {
			return fmt.Errorf("provider check failed: %w", err)
		}
		fmt.Printf("Response in %s: %s\n", time.Since(start).Round(time.Millisecond), string(resp.Content))
		fmt.Printf("Tokens: %d in / %d out\n", resp.Usage.InputTokens, resp.Usage.OutputTokens)
		return nil
	},
}

var llmConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved provider configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, found := llm.DiscoverConfig()
		if !found {
			fmt.Println("No provider configured. Set GEMINI_API_KEY, OPENAI_API_KEY or ANTHROPIC_API_KEY.")
			return nil
		}
		fmt.Printf("Provider:  %s\n", cfg.Provider)
		fmt.Printf("Timeout:   %s\n", cfg.Timeout)
		fmt.Printf("Retries:   %d (initial wait %s)\n", cfg.Retry.MaxAttempts, cfg.Retry.InitialWait)
		return nil
	},
}

func init() {
	llmCmd.AddCommand(llmCheckCmd)
	llmCmd.AddCommand(llmConfigCmd)
}
