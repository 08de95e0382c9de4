package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driving"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Inspect background ingestion tasks",
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent tasks",
	Args:  cobra.NoArgs,
	RunE:  runTasksList,
}

var tasksWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow task progress",
	Long: `Fetches recent tasks on a fixed interval and prints each update.
Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runTasksWatch,
}

var tasksWatchInterval time.Duration

func init() {
	addOutputFlag(tasksListCmd)
	tasksWatchCmd.Flags().DurationVarP(&tasksWatchInterval, "interval", "i", 0,
		"time between fetches (default from tasks.poll_interval_seconds)")

	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksWatchCmd)
	rootCmd.AddCommand(tasksCmd)
}

func runTasksList(cmd *cobra.Command, _ []string) error {
	if taskService == nil {
		return errors.New("task service not configured")
	}

	res, err := taskService.Recent(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := res.Value
	return render(cmd, listing[domain.TaskRecord]{Items: tasks, Simulated: res.Simulated}, func() {
		noteSimulated(cmd, res.Simulated)
		printTasks(cmd, tasks)
	})
}

func runTasksWatch(cmd *cobra.Command, _ []string) error {
	if newMonitor == nil {
		return errors.New("task monitor not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	monitor := newMonitor(tasksWatchInterval)
	if err := monitor.Start(ctx); err != nil {
		return fmt.Errorf("starting task monitor: %w", err)
	}
	defer func() { _ = monitor.Stop() }()

	updates := monitor.Updates()
	for {
		select {
		case <-ctx.Done():
			cmd.Println("Stopped.")
			return nil
		case snap, ok := <-updates:
			if !ok {
				return nil
			}
			printSnapshot(cmd, snap)
		}
	}
}

func printSnapshot(cmd *cobra.Command, snap driving.TaskSnapshot) {
	cmd.Printf("--- %s ---\n", snap.FetchedAt.Local().Format("15:04:05"))
	if snap.Err != nil {
		cmd.PrintErrf("refresh failed: %v\n", snap.Err)
	}
	noteSimulated(cmd, snap.Simulated)
	printTasks(cmd, snap.Tasks)
}

func printTasks(cmd *cobra.Command, tasks []domain.TaskRecord) {
	if len(tasks) == 0 {
		cmd.Println("No recent tasks.")
		return
	}

	for _, t := range tasks {
		cmd.Printf("%-12s %-10s %-11s %s %3d%%\n",
			t.TaskID, t.TaskType, t.Status.Label(), progressBar(t.ClampedProgress(), 20), t.ClampedProgress())
		if t.FilePath != "" {
			cmd.Printf("    %s\n", t.FilePath)
		}
		cmd.Printf("    %s\n", t.StatusLine())
	}

	cmd.Printf("\n%d tasks, %d active\n", len(tasks), domain.ActiveTasks(tasks))
}

func progressBar(percent, width int) string {
	filled := percent * width / 100
	bar := make([]rune, width)
	for i := range bar {
		if i < filled {
			bar[i] = '#'
		} else {
			bar[i] = '.'
		}
	}
	return "[" + string(bar) + "]"
}
