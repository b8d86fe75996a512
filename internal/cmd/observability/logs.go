package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/procdash/internal/config"
	"github.com/Iron-Ham/procdash/internal/logging"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View the debug log",
	Long: `View and filter the procdash debug log, including rotated backups.

Examples:
  # Show the last 50 entries
  procdash logs

  # Warnings and errors from the API client in the last hour
  procdash logs --level warn --component api --since 1h

  # Everything about one filter field
  procdash logs --field plan-year -n 0

  # Export matching entries
  procdash logs --grep commit --export commits.csv --format csv`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

var (
	logsDir       string
	logsTail      int
	logsLevel     string
	logsComponent string
	logsField     string
	logsSince     string
	logsGrep      string
	logsExport    string
	logsFormat    string
)

func init() {
	logsCmd.Flags().StringVar(&logsDir, "dir", "", "Log directory (default: the state directory)")
	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of entries to show (0 for all)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsComponent, "component", "", "Only entries from this component (api, auth, filter, count, ...)")
	logsCmd.Flags().StringVar(&logsField, "field", "", "Only entries about this filter field")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show entries since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Only entries whose message contains this text")
	logsCmd.Flags().StringVar(&logsExport, "export", "", "Write matching entries to this file instead of stdout")
	logsCmd.Flags().StringVar(&logsFormat, "format", "text", "Output format: text, json or csv")
}

// RegisterLogsCmd registers the logs command with the given parent command.
func RegisterLogsCmd(parent *cobra.Command) {
	parent.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	filter := logging.LogFilter{
		Level:           logsLevel,
		Component:       logsComponent,
		Field:           logsField,
		MessageContains: logsGrep,
	}
	if logsSince != "" {
		d, err := time.ParseDuration(logsSince)
		if err != nil {
			return fmt.Errorf("invalid duration format: %w", err)
		}
		filter.Since = time.Now().Add(-d)
	}
	switch strings.ToLower(logsFormat) {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json, csv)", logsFormat)
	}

	dir := logsDir
	if dir == "" {
		dir = config.StateDir()
	}
	entries, err := logging.AggregateLogs(dir)
	if err != nil {
		fmt.Fprintf(out, "No logs found in %s\n", dir)
		fmt.Fprintln(out, "Logging is controlled by logging.enabled in the config file.")
		return nil
	}

	entries = logging.FilterLogs(entries, filter)
	if logsTail > 0 && len(entries) > logsTail {
		entries = entries[len(entries)-logsTail:]
	}

	if logsExport != "" {
		if err := logging.ExportLogEntries(entries, logsExport, logsFormat); err != nil {
			return err
		}
		fmt.Fprintf(out, "Exported %d entries to %s\n", len(entries), logsExport)
		return nil
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No matching log entries found.")
		return nil
	}
	if strings.ToLower(logsFormat) != "text" {
		return logging.WriteLogEntries(out, entries, logsFormat)
	}
	for _, e := range entries {
		fmt.Fprintln(out, formatLogEntry(e))
	}
	return nil
}

var (
	timeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	fieldStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	levelStyles = map[string]lipgloss.Style{
		logging.LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		logging.LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		logging.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		logging.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
)

// formatLogEntry formats a log entry for terminal output
func formatLogEntry(e logging.LogEntry) string {
	var sb strings.Builder

	sb.WriteString(timeStyle.Render("[" + e.Timestamp.Local().Format("15:04:05.000") + "]"))
	sb.WriteString(" ")
	level := strings.ToUpper(e.Level)
	if style, ok := levelStyles[level]; ok {
		level = style.Render(level)
	}
	sb.WriteString("[" + level + "]")
	sb.WriteString(" ")
	sb.WriteString(e.Message)

	writeField(&sb, logging.KeyComponent, e.Component)
	writeField(&sb, logging.KeyField, e.Field)
	writeField(&sb, logging.KeyRequestID, e.RequestID)

	keys := make([]string, 0, len(e.Attrs))
	for k := range e.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeField(&sb, k, fmt.Sprintf("%v", e.Attrs[k]))
	}
	return sb.String()
}

func writeField(w io.StringWriter, key, value string) {
	if value == "" {
		return
	}
	_, _ = w.WriteString(" " + fieldStyle.Render(key+"=") + value)
}
