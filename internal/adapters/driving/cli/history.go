package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Review past questions and answers",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored chat sessions",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Print a stored chat session",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [session-id]",
	Short: "Delete a stored chat session",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	addOutputFlag(historyListCmd)
	addOutputFlag(historyShowCmd)

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	sessions, err := historyService.Sessions(cmd.Context())
	if err != nil {
		return err
	}

	return render(cmd, sessions, func() {
		if len(sessions) == 0 {
			cmd.Println("No chat history.")
			return
		}
		for _, s := range sessions {
			cmd.Printf("%s  %s  %2d turns  %s\n",
				s.ID, s.LastAt.Local().Format("2006-01-02 15:04"), s.Turns, truncate(s.FirstQuestion, 50))
		}
	})
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	turns, err := historyService.Transcript(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	return render(cmd, turns, func() {
		for _, turn := range turns {
			printTurn(cmd, turn)
		}
	})
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	if err := historyService.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Deleted session %s\n", args[0])
	return nil
}

func printTurn(cmd *cobra.Command, turn domain.ChatTurn) {
	who := "You"
	if turn.Role == domain.RoleAssistant {
		who = "Assistant"
	}
	if turn.IsError {
		who = fmt.Sprintf("%s (error)", who)
	}
	cmd.Printf("[%s] %s:\n%s\n", turn.Timestamp.Local().Format("15:04:05"), who, turn.Content)
	printSources(cmd, turn.RetrievedTexts)
	cmd.Println()
}
