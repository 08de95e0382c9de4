package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
)

var docsCmd = &cobra.Command{
	Use:     "docs",
	Aliases: []string{"documents"},
	Short:   "Manage knowledge base documents",
	Long:    `List ingested documents, summarise the knowledge base, and remove documents.`,
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List knowledge base documents",
	Args:  cobra.NoArgs,
	RunE:  runDocsList,
}

var docsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise the knowledge base",
	Args:  cobra.NoArgs,
	RunE:  runDocsStats,
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete [original-path...]",
	Short: "Remove documents from the knowledge base",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDocsDelete,
}

var docsDeleteYes bool

func init() {
	addOutputFlag(docsListCmd)
	addOutputFlag(docsStatsCmd)
	docsDeleteCmd.Flags().BoolVarP(&docsDeleteYes, "yes", "y", false, "do not ask for confirmation")

	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsStatsCmd)
	docsCmd.AddCommand(docsDeleteCmd)
	rootCmd.AddCommand(docsCmd)
}

func runDocsList(cmd *cobra.Command, _ []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	res, err := knowledgeService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	docs := res.Value
	return render(cmd, listing[domain.DocumentRecord]{Items: docs, Simulated: res.Simulated}, func() {
		noteSimulated(cmd, res.Simulated)
		if len(docs) == 0 {
			cmd.Println("Knowledge base is empty.")
			return
		}
		cmd.Printf("%-36s %-6s %-11s %7s  %s\n", "FILE", "TYPE", "STATUS", "CHUNKS", "PATH")
		for _, d := range docs {
			cmd.Printf("%-36s %-6s %-11s %7d  %s\n",
				truncate(d.FileName, 36), d.FileType, d.Status.Label(), d.ChunksCount, d.OriginalPath)
		}
		cmd.Printf("\nTotal: %d documents\n", len(docs))
	})
}

func runDocsStats(cmd *cobra.Command, _ []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	res, err := knowledgeService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	stats := knowledgeService.Stats(res.Value)
	return render(cmd, stats, func() {
		noteSimulated(cmd, res.Simulated)
		cmd.Println("Knowledge Base")
		cmd.Println("==============")
		cmd.Printf("  Documents:  %d\n", stats.Documents)
		cmd.Printf("  Chunks:     %d\n", stats.Chunks)
		cmd.Printf("  Completed:  %d\n", stats.Completed)
		cmd.Printf("  Processing: %d\n", stats.Processing)
		cmd.Printf("  Failed:     %d\n", stats.Failed)
	})
}

func runDocsDelete(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	if !docsDeleteYes {
		prompt := fmt.Sprintf("Remove %d document(s) from the knowledge base (%s)", len(args), strings.Join(args, ", "))
		ok, err := confirm(cmd, prompt)
		if err != nil {
			return err
		}
		if !ok {
			cmd.Println("Cancelled.")
			return nil
		}
	}

	res, err := knowledgeService.Delete(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}

	report := res.Value
	if report.Message != "" {
		cmd.Println(report.Message)
	}
	cmd.Printf("Deleted: %d, failed: %d\n", report.Successful, report.Failed)
	noteSimulated(cmd, res.Simulated)
	return nil
}
