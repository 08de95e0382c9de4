package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driving"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Manage uploaded files",
	Long:  `List, upload and delete raw files, and queue them for ingestion.`,
}

var filesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded files",
	Args:  cobra.NoArgs,
	RunE:  runFilesList,
}

var filesUploadCmd = &cobra.Command{
	Use:   "upload [path...]",
	Short: "Upload local files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFilesUpload,
}

var filesDeleteCmd = &cobra.Command{
	Use:   "delete [path]",
	Short: "Delete an uploaded file",
	Long:  `Deletes an uploaded file. The backend addresses files by their base name.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runFilesDelete,
}

var filesPromoteCmd = &cobra.Command{
	Use:   "promote [path...]",
	Short: "Add uploaded files to the knowledge base",
	Long:  `Queues uploaded files for ingestion. Use "kbadmin tasks watch" to follow progress.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFilesPromote,
}

var filesWatchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Upload files as they appear in a directory",
	Long: `Watches a local directory and uploads each new or rewritten file once
it has finished being written. Hidden files are skipped. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runFilesWatch,
}

var (
	filesDeleteYes bool
	filesWatchAdd  bool
)

func init() {
	addOutputFlag(filesListCmd)
	filesDeleteCmd.Flags().BoolVarP(&filesDeleteYes, "yes", "y", false, "do not ask for confirmation")
	filesWatchCmd.Flags().BoolVar(&filesWatchAdd, "promote", false, "also add each uploaded file to the knowledge base")

	filesCmd.AddCommand(filesListCmd)
	filesCmd.AddCommand(filesUploadCmd)
	filesCmd.AddCommand(filesDeleteCmd)
	filesCmd.AddCommand(filesPromoteCmd)
	filesCmd.AddCommand(filesWatchCmd)
	rootCmd.AddCommand(filesCmd)
}

func runFilesList(cmd *cobra.Command, _ []string) error {
	if fileService == nil {
		return errors.New("file service not configured")
	}

	res, err := fileService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}

	files := res.Value
	return render(cmd, listing[domain.FileRecord]{Items: files, Simulated: res.Simulated}, func() {
		noteSimulated(cmd, res.Simulated)
		if len(files) == 0 {
			cmd.Println("No files uploaded.")
			return
		}
		cmd.Printf("%-40s %10s  %s\n", "NAME", "SIZE", "MODIFIED")
		for _, f := range files {
			cmd.Printf("%-40s %10s  %s\n", truncate(f.Name, 40), domain.FormatSize(f.Size), formatTimestamp(f.Modified))
		}
		cmd.Printf("\nTotal: %d files\n", len(files))
	})
}

func runFilesUpload(cmd *cobra.Command, args []string) error {
	if fileService == nil {
		return errors.New("file service not configured")
	}

	var failed int
	for _, path := range args {
		res, err := fileService.UploadPath(cmd.Context(), path)
		if err != nil {
			failed++
			cmd.PrintErrf("%s: %v\n", path, err)
			continue
		}
		cmd.Printf("%s: %s\n", path, ackMessage(res.Value.Message, "uploaded"))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d uploads failed", failed, len(args))
	}
	return nil
}

func runFilesDelete(cmd *cobra.Command, args []string) error {
	if fileService == nil {
		return errors.New("file service not configured")
	}

	path := args[0]
	if !filesDeleteYes {
		ok, err := confirm(cmd, fmt.Sprintf("Delete %s", domain.BaseName(path)))
		if err != nil {
			return err
		}
		if !ok {
			cmd.Println("Cancelled.")
			return nil
		}
	}

	res, err := fileService.Delete(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	cmd.Println(ackMessage(res.Value.Message, "Deleted"))
	return nil
}

func runFilesPromote(cmd *cobra.Command, args []string) error {
	if fileService == nil {
		return errors.New("file service not configured")
	}

	res, err := fileService.AddToKnowledgeBase(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("failed to add files: %w", err)
	}

	cmd.Printf("%s\n", ackMessage(res.Value.Message, "Documents added to queue"))
	if res.Value.TaskID != "" {
		cmd.Printf("Task: %s\n", res.Value.TaskID)
	}
	return nil
}

func runFilesWatch(cmd *cobra.Command, args []string) error {
	if fileService == nil {
		return errors.New("file service not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	dir := args[0]
	cmd.Printf("Watching %s (Ctrl-C to stop)\n", dir)

	return fileService.WatchAndUpload(ctx, dir, func(ev driving.UploadEvent) {
		if ev.Err != nil {
			cmd.PrintErrf("%s: %v\n", ev.Path, ev.Err)
			return
		}
		cmd.Printf("%s: %s\n", ev.Path, ackMessage(ev.Result.Value.Message, "uploaded"))
		if !filesWatchAdd {
			return
		}
		name := uploadedPath(ev.Result.Value, ev.Path)
		if promoted, err := fileService.AddToKnowledgeBase(ctx, []string{name}); err != nil {
			cmd.PrintErrf("%s: %v\n", name, err)
		} else if promoted.Value.TaskID != "" {
			cmd.Printf("%s: queued as %s\n", name, promoted.Value.TaskID)
		}
	})
}

// uploadedPath returns the backend path reported in an upload ack,
// falling back to the local file's base name.
func uploadedPath(ack domain.Ack, local string) string {
	for _, key := range []string{"file_path", "path", "filename"} {
		if v, ok := ack.Data[key].(string); ok && v != "" {
			return v
		}
	}
	return domain.BaseName(local)
}

// ackMessage returns the backend's message, or fallback when it sent none.
func ackMessage(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}

func formatTimestamp(ts domain.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04")
}
