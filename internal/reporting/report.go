// Package reporting renders computed views as terminal tables, markdown,
// HTML and JSON.
package reporting

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/justinphan3110cais/cais-ai-dashboard/internal/engine"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/models"
	"github.com/mattn/go-runewidth"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Format selects an output renderer.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Formats lists the supported formats.
var Formats = []Format{FormatTable, FormatJSON, FormatMarkdown, FormatHTML}

// ParseFormat parses a --format flag value.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "md" {
		return FormatMarkdown, nil
	}
	if slices.Contains(Formats, f) {
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want one of table, json, markdown, html)", s)
}

// Write renders v to w in the given format.
func Write(w io.Writer, f Format, v *engine.View) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, v)
	case FormatMarkdown:
		return WriteMarkdown(w, v)
	case FormatHTML:
		return WriteHTML(w, v)
	default:
		return WriteTable(w, v)
	}
}

var printer = message.NewPrinter(language.English)

// row is one leaderboard line.
type row struct {
	rank     string
	name     string
	provider string
	size     string
	released string
	average  string
	frontier string
	shade    string
}

// rows orders results best first. Models without an aggregate sort last in
// catalog order.
func rows(v *engine.View) []row {
	results := slices.Clone(v.Results)
	slices.SortStableFunc(results, func(a, b models.ModelResult) int {
		switch {
		case a.Included && !b.Included:
			return -1
		case !a.Included && b.Included:
			return 1
		case !a.Included:
			return 0
		}
		if v.Polarity == models.LowerIsBetter {
			return cmp.Compare(*a.Average, *b.Average)
		}
		return cmp.Compare(*b.Average, *a.Average)
	})

	onFrontier := make(map[string]bool, len(v.Timeline))
	for _, p := range v.Timeline {
		onFrontier[p.ModelName] = p.OnFrontier
	}

	out := make([]row, 0, len(results))
	for i, r := range results {
		rw := row{
			rank:     "—",
			name:     r.Model.Name,
			provider: r.Model.Provider,
			size:     string(r.Model.Size),
			released: r.Model.ReleaseDate,
			average:  "—",
		}
		if rw.released == "" {
			rw.released = "—"
		}
		if r.Included {
			rw.rank = fmt.Sprintf("%d", i+1)
			rw.average = printer.Sprintf("%.2f", *r.Average)
			if onFrontier[r.Model.Name] {
				rw.frontier = "★"
			}
			if tier, ok := v.Shades[r.Model.Name]; ok {
				rw.shade = fmt.Sprintf("%d", tier)
			}
		}
		out = append(out, rw)
	}
	return out
}

// WriteTable writes a fixed-width leaderboard for terminals.
func WriteTable(w io.Writer, v *engine.View) error {
	rs := rows(v)
	headers := []string{"#", "Model", "Provider", "Size", "Released", "Average", "Frontier", "Shade"}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	cells := func(r row) []string {
		return []string{r.rank, r.name, r.provider, r.size, r.released, r.average, r.frontier, r.shade}
	}
	for _, r := range rs {
		for i, c := range cells(r) {
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}
	totalWidth := 2 * (len(widths) - 1)
	for _, wd := range widths {
		totalWidth += wd
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", strings.Repeat("═", totalWidth))
	fmt.Fprintf(&b, " %s\n", title(v))
	fmt.Fprintf(&b, "%s\n", strings.Repeat("═", totalWidth))
	fmt.Fprintf(&b, " Datasets: %s\n\n", strings.Join(v.EffectiveDatasets, ", "))

	writeLine := func(cols []string) {
		for i, c := range cols {
			if i > 0 {
				b.WriteString("  ")
			}
			if i == len(cols)-1 {
				b.WriteString(c)
				continue
			}
			b.WriteString(padRight(c, widths[i]))
		}
		b.WriteString("\n")
	}
	writeLine(headers)
	fmt.Fprintf(&b, "%s\n", strings.Repeat("─", totalWidth))
	for _, r := range rs {
		writeLine(cells(r))
	}

	b.WriteString("\n")
	b.WriteString(summaryLine(v))
	b.WriteString("\n")
	writeLabels(&b, v, "")

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteMarkdown writes the leaderboard as a GitHub-flavored markdown
// document.
func WriteMarkdown(w io.Writer, v *engine.View) error {
	_, err := io.WriteString(w, markdown(v))
	return err
}

func markdown(v *engine.View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title(v))
	fmt.Fprintf(&b, "Datasets: %s\n\n", strings.Join(codeSpans(v.EffectiveDatasets), ", "))
	b.WriteString("| # | Model | Provider | Size | Released | Average | Frontier |\n")
	b.WriteString("|---|---|---|---|---|---:|:---:|\n")
	for _, r := range rows(v) {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			r.rank, escapeCell(r.name), escapeCell(r.provider), r.size, r.released, r.average, r.frontier)
	}
	b.WriteString("\n")
	b.WriteString(summaryLine(v))
	b.WriteString("\n")
	writeLabels(&b, v, "## ")
	return b.String()
}

// WriteHTML renders the markdown report to a standalone HTML page.
func WriteHTML(w io.Writer, v *engine.View) error {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var body bytes.Buffer
	if err := md.Convert([]byte(markdown(v)), &body); err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	_, err := fmt.Fprintf(w, "<!doctype html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n%s</body>\n</html>\n",
		title(v), body.String())
	return err
}

// WriteJSON writes the full view as indented JSON.
func WriteJSON(w io.Writer, v *engine.View) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func title(v *engine.View) string {
	section := string(v.Section)
	if section != "" {
		section = strings.ToUpper(section[:1]) + section[1:]
	}
	if v.IndexMode {
		return section + " leaderboard (all datasets)"
	}
	return fmt.Sprintf("%s leaderboard (%d datasets)", section, len(v.EffectiveDatasets))
}

func summaryLine(v *engine.View) string {
	s := v.Summary
	if s.Included == 0 {
		return printer.Sprintf("No model has scores on every selected dataset (%d excluded).\n", s.Excluded)
	}
	return printer.Sprintf("%d models ranked, %d excluded. Mean %.2f, std dev %.2f, range %.2f to %.2f.\n",
		s.Included, s.Excluded, s.Mean, s.StdDev, s.Min, s.Max)
}

func writeLabels(b *strings.Builder, v *engine.View, heading string) {
	if len(v.Labels.Best) == 0 && len(v.Labels.Worst) == 0 {
		return
	}
	if heading != "" {
		fmt.Fprintf(b, "\n%sLabeled points (%s, %s)\n\n", heading, v.LabelSize, v.Strategy)
	} else {
		fmt.Fprintf(b, "\nLabeled points (%s, %s)\n", v.LabelSize, v.Strategy)
	}
	for _, l := range v.Labels.Best {
		fmt.Fprintf(b, "- best  %s %s %s\n", l.Timestamp.Format(models.DateLayout), l.ModelName, printer.Sprintf("%.2f", l.Value))
	}
	for _, l := range v.Labels.Worst {
		fmt.Fprintf(b, "- worst %s %s %s\n", l.Timestamp.Format(models.DateLayout), l.ModelName, printer.Sprintf("%.2f", l.Value))
	}
}

func codeSpans(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = "`" + id + "`"
	}
	return out
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
