package requests

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/procdash/internal/api"
	"github.com/Iron-Ham/procdash/internal/cmd/cmdutil"
	"github.com/Iron-Ham/procdash/internal/errors"
	"github.com/Iron-Ham/procdash/internal/tui/filter"
	"github.com/Iron-Ham/procdash/internal/util"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print one page of purchase requests",
	Long: `Print one page of purchase requests as a table sized to the terminal.

Filters use the same fields as the dashboard filter row and match as the
server does. Columns are chosen with glob patterns over field ids.

Examples:
  procdash list --filter company=acme --filter plan-year=2025
  procdash list --page 2 --size 50
  procdash list --columns 'id,name,*-at'`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	listFilters []string
	listPage    int
	listSize    int
	listColumns []string
	listWidth   int
)

// fallbackWidth is used when stdout is not a terminal.
const fallbackWidth = 120

// columnGap separates table columns.
const columnGap = "  "

func init() {
	listCmd.Flags().StringArrayVarP(&listFilters, "filter", "f", nil, "Filter as field=value (repeatable)")
	listCmd.Flags().IntVar(&listPage, "page", 1, "Page number, starting at 1")
	listCmd.Flags().IntVar(&listSize, "size", 0, "Rows per page (default: tui.page_size)")
	listCmd.Flags().StringSliceVar(&listColumns, "columns", nil, "Column id globs to show (default: all not hidden by tui.hidden_columns)")
	listCmd.Flags().IntVar(&listWidth, "width", 0, "Table width (default: terminal width)")
}

// RegisterListCmd registers the list command with the given parent command.
func RegisterListCmd(parent *cobra.Command) {
	parent.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	filters, err := parseFilters(listFilters)
	if err != nil {
		return err
	}
	if listPage < 1 {
		return errors.NewValidationError("page must be at least 1").WithField("page").WithValue(listPage)
	}

	env, err := cmdutil.Authenticated(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer env.Close()

	fields, err := listFields(listColumns, env.Config.TUI.HiddenColumns)
	if err != nil {
		return err
	}

	size := listSize
	if size <= 0 {
		size = env.Config.TUI.PageSize
	}

	page, err := env.Client.List(commandContext(cmd), api.Query{Page: listPage - 1, Size: size, Filters: filters})
	if err != nil {
		return err
	}

	width := listWidth
	if width <= 0 {
		width = cmdutil.TerminalWidth(fallbackWidth)
	}
	renderPage(cmd.OutOrStdout(), page, fields, width, listPage)
	return nil
}

// parseFilters turns field=value arguments into a FieldSet. Fields may be
// given by id or by query parameter name.
func parseFilters(args []string) (filter.FieldSet, error) {
	set := filter.FieldSet{}
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, errors.NewValidationError("filter must be field=value").WithField("filter").WithValue(arg)
		}
		id, ok := filter.ParseFieldID(name)
		if !ok {
			return nil, errors.NewValidationError("unknown filter field").WithField("filter").WithValue(name)
		}
		set = set.With(id, strings.TrimSpace(value))
	}
	return set, nil
}

// listFields picks the columns to print: the --columns globs when given,
// otherwise every column not hidden by config.
func listFields(patterns, hidden []string) ([]filter.FieldID, error) {
	if len(patterns) > 0 {
		fields, err := filter.MatchFields(patterns)
		if err != nil {
			return nil, errors.NewValidationError("invalid --columns").WithField("columns").WithCause(err)
		}
		if len(fields) == 0 {
			return nil, errors.NewValidationError("--columns matched no column").WithField("columns").WithValue(strings.Join(patterns, ","))
		}
		return fields, nil
	}

	skip, err := filter.MatchFields(hidden)
	if err != nil {
		return nil, err
	}
	var fields []filter.FieldID
	for _, id := range filter.AllFields() {
		if !slices.Contains(skip, id) {
			fields = append(fields, id)
		}
	}
	return fields, nil
}

var headerStyle = lipgloss.NewStyle().Bold(true)

// renderPage writes page as an aligned table no wider than width, followed
// by a one-line summary.
func renderPage(w io.Writer, page *api.Page, fields []filter.FieldID, width, pageNum int) {
	widths := columnWidths(page, fields)

	header := make([]string, len(fields))
	for i, id := range fields {
		c, _ := filter.Lookup(id)
		header[i] = headerStyle.Render(util.PadRight(c.Label, widths[i]))
	}
	fmt.Fprintln(w, util.Truncate(strings.Join(header, columnGap), width))

	for _, rec := range page.Content {
		cells := rec.Cells(fields)
		for i := range cells {
			cells[i] = util.Cell(cells[i], widths[i])
		}
		fmt.Fprintln(w, util.Truncate(strings.TrimRight(strings.Join(cells, columnGap), " "), width))
	}

	fmt.Fprintf(w, "\npage %d/%d · %d shown · %d matching\n",
		pageNum, max(page.TotalPages, 1), len(page.Content), page.TotalElements)
}

// columnWidths sizes each column to its widest cell, at least the header
// and at most twice the dashboard width of the column.
func columnWidths(page *api.Page, fields []filter.FieldID) []int {
	widths := make([]int, len(fields))
	for i, id := range fields {
		c, _ := filter.Lookup(id)
		widths[i] = lipgloss.Width(c.Label)
		for _, rec := range page.Content {
			widths[i] = max(widths[i], lipgloss.Width(rec.Field(id)))
		}
		widths[i] = min(widths[i], max(c.Width*2, lipgloss.Width(c.Label)))
	}
	return widths
}
