// Package report renders H-statistic results for people and machines.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"gohstat/adapters/stats/interaction"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Format names an output format
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

// ParseFormat accepts a format name, case-insensitive
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatMarkdown, FormatHTML, FormatJSON:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

// Meta describes the run behind a result
type Meta struct {
	Title    string `json:"title,omitempty"`
	Source   string `json:"source,omitempty"`
	RunID    string `json:"run_id,omitempty"`
	RowCount int    `json:"row_count"`
	// Top limits the pairs listed per output; 0 lists all
	Top int `json:"-"`
}

func (m Meta) title() string {
	if m.Title != "" {
		return m.Title
	}
	return "Pairwise interaction strength"
}

// Render writes the result in the given format
func Render(w io.Writer, format Format, result *interaction.Result, meta Meta) error {
	switch format {
	case FormatText:
		return Text(w, result, meta)
	case FormatMarkdown:
		return Markdown(w, result, meta)
	case FormatHTML:
		return HTML(w, result, meta)
	case FormatJSON:
		return JSON(w, result, meta)
	}
	return fmt.Errorf("unknown report format %q", format)
}

// Text writes an aligned table per output, strongest pairs first
func Text(w io.Writer, result *interaction.Result, meta Meta) error {
	summaries, err := Summarize(result)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s\n", meta.title())
	if meta.Source != "" {
		fmt.Fprintf(w, "source: %s\n", meta.Source)
	}
	if meta.RunID != "" {
		fmt.Fprintf(w, "run: %s\n", meta.RunID)
	}
	fmt.Fprintf(w, "rows used: %d of %d\n", len(result.SampledRows), meta.RowCount)

	for c, s := range summaries {
		fmt.Fprintln(w)
		if result.OutputDim > 1 {
			fmt.Fprintf(w, "output %d\n", c)
		}
		fmt.Fprintf(w, "%s\n\n", summaryLine(s))

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "rank\tpair\tH^2\tsqrt(num)\tnumerator\tdenominator\t")
		for i, rec := range limit(result.Ranked(c), meta.Top) {
			fmt.Fprintf(tw, "%d\t%s\t%.4f\t%.4g\t%.4g\t%.4g\t\n", i+1, rec.Pair,
				rec.HSquared[c], math.Sqrt(rec.Numerator[c]), rec.Numerator[c], rec.Denominator[c])
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// Markdown writes the report as a markdown document with one table per output
func Markdown(w io.Writer, result *interaction.Result, meta Meta) error {
	summaries, err := Summarize(result)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "# %s\n\n", meta.title())
	if meta.Source != "" {
		fmt.Fprintf(w, "- **Source:** %s\n", meta.Source)
	}
	if meta.RunID != "" {
		fmt.Fprintf(w, "- **Run:** `%s`\n", meta.RunID)
	}
	fmt.Fprintf(w, "- **Rows used:** %d of %d\n", len(result.SampledRows), meta.RowCount)

	for c, s := range summaries {
		if result.OutputDim > 1 {
			fmt.Fprintf(w, "\n## Output %d\n", c)
		}
		fmt.Fprintf(w, "\n%s\n\n", summaryLine(s))
		fmt.Fprintln(w, "| Rank | Pair | H² | √numerator | Numerator | Denominator |")
		fmt.Fprintln(w, "|---:|---|---:|---:|---:|---:|")
		for i, rec := range limit(result.Ranked(c), meta.Top) {
			fmt.Fprintf(w, "| %d | %s | %.4f | %.4g | %.4g | %.4g |\n", i+1, escapePipes(rec.Pair.String()),
				rec.HSquared[c], math.Sqrt(rec.Numerator[c]), rec.Numerator[c], rec.Denominator[c])
		}
	}
	return nil
}

// HTML renders the markdown report as a complete HTML page
func HTML(w io.Writer, result *interaction.Result, meta Meta) error {
	var md bytes.Buffer
	if err := Markdown(&md, result, meta); err != nil {
		return err
	}
	return writePage(w, md.Bytes(), meta.title())
}

// writePage renders a markdown document as a complete HTML page
func writePage(w io.Writer, md []byte, title string) error {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	_, err := w.Write(markdown.ToHTML(md, p, renderer))
	return err
}

type jsonReport struct {
	Meta      Meta                `json:"meta"`
	Summaries []Summary           `json:"summaries"`
	Result    *interaction.Result `json:"result"`
}

// JSON writes the result, its summaries and the run metadata
func JSON(w io.Writer, result *interaction.Result, meta Meta) error {
	summaries, err := Summarize(result)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{Meta: meta, Summaries: summaries, Result: result})
}

func summaryLine(s Summary) string {
	if s.Pairs == 0 {
		return "no pairs"
	}
	line := fmt.Sprintf("%d pairs, H^2 mean %.4f, median %.4f, max %.4f", s.Pairs, s.Mean, s.Median, s.Max)
	if s.Strongest != nil {
		line += ", strongest " + s.Strongest.String()
	}
	return line
}

func limit(records []interaction.PairStatistic, top int) []interaction.PairStatistic {
	if top > 0 && len(records) > top {
		return records[:top]
	}
	return records
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
