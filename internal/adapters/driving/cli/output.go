package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

const simulatedNote = "(simulated: backend unreachable)"

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", formatText, "output format: text, json or yaml")
}

func outputFormat(cmd *cobra.Command) (string, error) {
	format, err := cmd.Flags().GetString("output")
	if err != nil {
		return "", fmt.Errorf("getting output flag: %w", err)
	}
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case formatText, formatJSON, formatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use text, json or yaml)", format)
	}
}

// render writes v in the selected format, or calls text for plain output.
func render(cmd *cobra.Command, v any, text func()) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		cmd.Println(string(data))
	case formatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		cmd.Print(string(data))
	default:
		text()
	}
	return nil
}

// listing wraps a list for structured output.
type listing[T any] struct {
	Items     []T  `json:"items" yaml:"items"`
	Simulated bool `json:"simulated" yaml:"simulated"`
}

func noteSimulated(cmd *cobra.Command, simulated bool) {
	if simulated {
		cmd.Println(simulatedNote)
	}
}

// isTerminal reports whether stdin is interactive.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// confirm asks a yes/no question. Without a terminal it refuses, so
// destructive commands need --yes in scripts.
func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	if !isTerminal() {
		return false, fmt.Errorf("%s: confirmation required, pass --yes to proceed", prompt)
	}
	cmd.Printf("%s [y/N]: ", prompt)
	return readYes(cmd.InOrStdin()), nil
}

func readYes(r io.Reader) bool {
	line, _ := bufio.NewReader(r).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
