package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the knowledge base a question",
	Long: `Sends one question to the query endpoint and prints the answer with the
passages it was generated from.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var askLimit int

func init() {
	addOutputFlag(askCmd)
	askCmd.Flags().IntVarP(&askLimit, "limit", "n", 0, "number of passages to retrieve (default from chat.limit)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if newChat == nil {
		return errors.New("chat service not configured")
	}

	session := newChat(askLimit)
	defer session.Close()

	turn, err := session.Submit(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	if turn.IsError {
		return errors.New(turn.Content)
	}

	return render(cmd, turn, func() {
		cmd.Println(turn.Content)
		printSources(cmd, turn.RetrievedTexts)
		if turn.Metrics != nil {
			cmd.Printf("\nRetrieval %.2fs, generation %.2fs, total %.2fs\n",
				turn.Metrics.RetrievalTime, turn.Metrics.GenerationTime, turn.Metrics.TotalTime)
		}
	})
}

func printSources(cmd *cobra.Command, texts []domain.RetrievedText) {
	if len(texts) == 0 {
		return
	}
	cmd.Println()
	cmd.Println("Sources:")
	for i, rt := range texts {
		source := rt.Source
		if source == "" {
			source = "unknown"
		}
		cmd.Printf("  [%d] %s (%s)\n", i+1, source, rt.Relevance())
		cmd.Printf("      %s\n", truncate(strings.Join(strings.Fields(rt.Text), " "), 100))
	}
}
