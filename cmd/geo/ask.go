package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/keevingfu/infranodus-geo-system/internal/rag"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a question from the knowledge graph",
	Long: `Classifies the question, retrieves a bounded subgraph, and composes
an evidence-grounded answer with citations. With llm.enabled in the
configuration, the template answer is refined by the configured model;
otherwise the template answer is returned as is.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	question := strings.Join(args, " ")

	client, cleanup, err := newClient(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	var opts []rag.PipelineOption
	if cfg.LLM.Enabled {
		generator, err := rag.NewOllamaGenerator(cfg.LLM.Model, cfg.LLM.BaseURL)
		if err != nil {
			log.Warn(ctx, "generator unavailable, falling back to template answers",
				"error", err.Error())
		} else {
			opts = append(opts, rag.WithGenerator(generator))
		}
	}

	pipeline := rag.NewPipeline(client, log, opts...)
	answer, err := pipeline.AnswerQuestion(ctx, question)
	if err != nil {
		return err
	}

	if askJSON {
		return printJSON(answer)
	}

	fmt.Printf("Q: %s\n\nA: %s\n", answer.Question, answer.Text)
	if len(answer.Citations) > 0 {
		fmt.Println("\nSources:")
		for i, citation := range answer.Citations {
			fmt.Printf("  [%d] %s (credibility: %.2f)\n", i+1, citation.Source, citation.CredibilityScore)
			if citation.URL != "" {
				fmt.Printf("      %s\n", citation.URL)
			}
		}
	}
	if len(answer.GraphPath) > 0 {
		fmt.Printf("\nGraph path: %s\n", strings.Join(answer.GraphPath, " > "))
	}
	fmt.Printf("Confidence: %.0f%%\n", answer.Confidence*100)
	return nil
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "Print the full answer as JSON")
}
