package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/crosscheck/internal/model"
)

// Renderer writes reports as JSON, Markdown and a short terminal summary
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes the report as Markdown
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, []byte(r.Markdown(report)))
}

// Markdown renders the report as a Markdown document
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder
	result := report.Result

	fmt.Fprintf(&b, "# Cross-source verification: %s\n\n", report.Subject)
	fmt.Fprintf(&b, "- **Verdict:** %s (%s)\n", result.OverallVerdict, passLabel(result.Passed))
	fmt.Fprintf(&b, "- **Confidence:** %s\n", report.Confidence)
	fmt.Fprintf(&b, "- **Comparator:** %s\n", report.Comparator)
	fmt.Fprintf(&b, "- **Run:** `%s` at %s\n\n", report.RunID, report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	b.WriteString("## Sources\n\n")
	if len(report.Sources) == 0 {
		b.WriteString("_No sources._\n\n")
	}
	for i, src := range report.Sources {
		fmt.Fprintf(&b, "%d. %s\n", i+1, src)
	}
	if len(report.Sources) > 0 {
		b.WriteString("\n")
	}

	s := report.Summary
	b.WriteString("## Summary\n\n")
	b.WriteString("| Conflicts resolved | Conflicts unresolved | Claims verified | Claims unverified | Claims contradicted |\n")
	b.WriteString("|---|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d | %d |\n\n",
		s.ConflictsResolved, s.ConflictsUnresolved, s.ClaimsVerified, s.ClaimsUnverified, s.ClaimsContradicted)

	b.WriteString("## Field conflicts\n\n")
	if len(result.Conflicts) == 0 {
		b.WriteString("_Sources agree on every shared field._\n\n")
	} else {
		b.WriteString("| Field | Resolution | Values | Resolved value | Reasoning |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, c := range result.Conflicts {
			values := make([]string, 0, len(c.Values))
			for _, v := range c.Values {
				values = append(values, fmt.Sprintf("%s (%s)", cell(v.Value), cell(v.Source)))
			}
			resolved := ""
			if c.ResolvedValue != nil {
				resolved = cell(*c.ResolvedValue)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				cell(c.Field), c.Resolution, strings.Join(values, "<br>"), resolved, cell(c.Reasoning))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Description claims\n\n")
	if len(result.TruthChecks) == 0 {
		b.WriteString("_No claims extracted._\n\n")
	} else {
		b.WriteString("| Claim | Verdict | Supported by | Contradicted by |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, tc := range result.TruthChecks {
			fmt.Fprintf(&b, "| %s | %s | %d | %d |\n", cell(tc.Claim), tc.Verdict, len(tc.SupportedBy), len(tc.ContradictedBy))
		}
		b.WriteString("\n")
	}

	if report.Resolution != nil {
		b.WriteString("## Resolution\n\n")
		fields := make([]string, 0, len(report.Resolution.Resolved))
		for field := range report.Resolution.Resolved {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			fmt.Fprintf(&b, "- **%s:** %s\n", field, report.Resolution.Resolved[field])
		}
		for _, c := range report.Resolution.Unresolved {
			fmt.Fprintf(&b, "- **%s:** unresolved\n", c.Field)
		}
		b.WriteString("\n")
	}

	if report.CleanedDescription != nil {
		b.WriteString("## Cleaned description\n\n")
		b.WriteString(*report.CleanedDescription)
		b.WriteString("\n\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString("_Generated by crosscheck. Verdicts reflect agreement between the listed sources, not ground truth._\n")
	}

	return b.String()
}

// RenderSummary prints a one-screen summary
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	result := report.Result
	s := report.Summary

	fmt.Fprintf(w, "\n%s\n", report.Subject)
	fmt.Fprintf(w, "  Verdict:    %s (%s)\n", result.OverallVerdict, passLabel(result.Passed))
	fmt.Fprintf(w, "  Confidence: %s\n", report.Confidence)
	fmt.Fprintf(w, "  Sources:    %d\n", len(report.Sources))
	fmt.Fprintf(w, "  Conflicts:  %d resolved, %d unresolved\n", s.ConflictsResolved, s.ConflictsUnresolved)
	fmt.Fprintf(w, "  Claims:     %d verified, %d unverified, %d contradicted\n",
		s.ClaimsVerified, s.ClaimsUnverified, s.ClaimsContradicted)

	for _, c := range result.Conflicts {
		if c.Resolution == model.ResolutionConflict {
			fmt.Fprintf(w, "  ✗ %s: sources disagree\n", c.Field)
		}
	}
	for _, tc := range result.TruthChecks {
		if tc.Verdict == model.VerdictContradicted {
			fmt.Fprintf(w, "  ✗ %q contradicted by %d source(s)\n", tc.Claim, len(tc.ContradictedBy))
		}
	}
}

func passLabel(passed bool) string {
	if passed {
		return "passed"
	}
	return "failed"
}

// cell makes text safe for a Markdown table cell
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}
