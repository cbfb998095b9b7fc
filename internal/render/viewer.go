package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sourceplane/foldplan/internal/expand"
	"github.com/sourceplane/foldplan/internal/model"
)

type styles struct {
	color     bool
	title     lipgloss.Style
	ok        lipgloss.Style
	failed    lipgloss.Style
	skipped   lipgloss.Style
	simulated lipgloss.Style
	dim       lipgloss.Style
}

func newStyles(color bool) styles {
	return styles{
		color:     color,
		title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		ok:        lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		failed:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		skipped:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		simulated: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		dim:       lipgloss.NewStyle().Faint(true),
	}
}

func (s styles) render(style lipgloss.Style, text string) string {
	if !s.color {
		return text
	}
	return style.Render(text)
}

func (s styles) status(st model.Status) string {
	switch st {
	case model.StatusSucceeded:
		return s.render(s.ok, string(st))
	case model.StatusFailed:
		return s.render(s.failed, string(st))
	case model.StatusSkipped:
		return s.render(s.skipped, string(st))
	case model.StatusSimulated:
		return s.render(s.simulated, string(st))
	}
	return string(st)
}

const rule = "═══════════════════════════════════════════════════════════\n"

// ReportViewer provides human-readable views of a batch report
type ReportViewer struct {
	report *model.BatchReport
	styles styles
}

// NewReportViewer creates a viewer; color enables terminal styling
func NewReportViewer(report *model.BatchReport, color bool) *ReportViewer {
	return &ReportViewer{report: report, styles: newStyles(color)}
}

// ViewJobs returns a tree of jobs in manifest order with their plan and outcome
func (rv *ReportViewer) ViewJobs() string {
	if len(rv.report.Outcomes) == 0 {
		return "No jobs in batch"
	}
	s := rv.styles

	var sb strings.Builder
	for i, o := range rv.report.Outcomes {
		isLast := i == len(rv.report.Outcomes)-1
		prefix, connector := "├─ ", "│  "
		if isLast {
			prefix, connector = "└─ ", "   "
		}

		line := fmt.Sprintf("%s%s [%s]", prefix, s.render(s.title, o.JobID), s.status(o.Status))
		if o.SequenceType != "" {
			line += fmt.Sprintf(" %s", o.SequenceType)
		}
		if o.ComplexType != "" && o.ComplexType != string(o.SequenceType) {
			line += fmt.Sprintf("/%s", o.ComplexType)
		}
		if o.TotalResidues > 0 {
			line += fmt.Sprintf(" %d aa", o.TotalResidues)
		}
		sb.WriteString(line + "\n")

		if o.ModelPreset != "" {
			sb.WriteString(fmt.Sprintf("%s  Preset: %s\n", connector, o.ModelPreset))
		}
		if e := o.Estimate; e != nil {
			sb.WriteString(fmt.Sprintf("%s  Estimate: %.1f min, %.1f GB RAM, %.1f GB disk, %d cores\n",
				connector, e.EstimatedRuntimeMinutes, e.EstimatedMemoryGB, e.EstimatedDiskGB, e.EstimatedCores))
		}
		for _, m := range o.MSA {
			if m.Reused() {
				sb.WriteString(fmt.Sprintf("%s  MSA %s: reuses %s\n", connector, m.ChainID, m.ReusedFrom))
			}
		}
		if o.Command != nil {
			sb.WriteString(fmt.Sprintf("%s  %s\n", connector, s.render(s.dim, "$ "+strings.Join(o.Command.Argv(), " "))))
		}
		if o.Status == model.StatusFailed && o.Detail != "" {
			sb.WriteString(fmt.Sprintf("%s  Error: %s\n", connector, s.render(s.failed, o.Detail)))
		}
		if o.Stderr != "" {
			for _, l := range strings.Split(o.Stderr, "\n") {
				sb.WriteString(fmt.Sprintf("%s    | %s\n", connector, l))
			}
		}
	}
	return sb.String()
}

// ViewSummary returns counts and aggregate resource totals
func (rv *ReportViewer) ViewSummary() string {
	r := rv.report
	s := rv.styles

	var sb strings.Builder
	sb.WriteString(rule)
	name := r.Name
	if name == "" {
		name = "batch"
	}
	sb.WriteString(s.render(s.title, fmt.Sprintf("%s (%s mode)", name, r.Mode)) + "\n")
	sb.WriteString(fmt.Sprintf("Jobs: %d total, %d simulated, %d succeeded, %s, %d skipped\n",
		r.Counts.Total, r.Counts.Simulated, r.Counts.Succeeded,
		s.render(s.failed, fmt.Sprintf("%d failed", r.Counts.Failed)), r.Counts.Skipped))
	sb.WriteString(fmt.Sprintf("Alignments: %d distinct, %d computed, %d reused\n",
		r.DistinctMSAKeys, r.Totals.FullAlignments, r.Totals.ReusedAlignments))
	sb.WriteString(fmt.Sprintf("Estimated: %.1f min total, %.1f GB disk, peak %.1f GB RAM, %d cores\n",
		r.Totals.RuntimeMinutes, r.Totals.DiskGB, r.Totals.PeakMemoryGB, r.Totals.PeakCores))
	return sb.String()
}

// ViewMSA groups chains by alignment key, owner first
func (rv *ReportViewer) ViewMSA() string {
	type member struct {
		jobID, chainID string
		reused         bool
	}
	var keys []string
	groups := make(map[string][]member)
	for _, o := range rv.report.Outcomes {
		for _, m := range o.MSA {
			if _, ok := groups[m.Key]; !ok {
				keys = append(keys, m.Key)
			}
			groups[m.Key] = append(groups[m.Key], member{o.JobID, m.ChainID, m.Reused()})
		}
	}
	if len(keys) == 0 {
		return "No alignments planned"
	}

	var sb strings.Builder
	sb.WriteString("Alignment Groups\n")
	sb.WriteString(rule + "\n")
	for i, key := range keys {
		prefix, connector := "├─ ", "│  "
		if i == len(keys)-1 {
			prefix, connector = "└─ ", "   "
		}
		members := groups[key]
		short := key
		if len(short) > 8 {
			short = short[:8]
		}
		sb.WriteString(fmt.Sprintf("%s%s (%d chains)\n", prefix, short, len(members)))
		for j, m := range members {
			mp := "├─ "
			if j == len(members)-1 {
				mp = "└─ "
			}
			role := "computed"
			if m.reused {
				role = "reused"
			}
			sb.WriteString(fmt.Sprintf("%s%s%s/%s (%s)\n", connector, mp, m.jobID, m.chainID, role))
		}
	}
	return sb.String()
}

// ViewAnalysis renders a sequence analysis
func ViewAnalysis(a expand.Analysis, color bool) string {
	s := newStyles(color)

	var sb strings.Builder
	sb.WriteString(s.render(s.title, a.SourcePath) + "\n")
	sb.WriteString(rule)
	sb.WriteString(fmt.Sprintf("Type: %s (%s)\n", a.SequenceType, a.ComplexType))
	sb.WriteString(fmt.Sprintf("Chains: %d\n", len(a.Chains)))
	sb.WriteString(fmt.Sprintf("Total length: %d residues\n", a.TotalResidues))
	for i, c := range a.Chains {
		prefix := "├─ "
		if i == len(a.Chains)-1 {
			prefix = "└─ "
		}
		sb.WriteString(fmt.Sprintf("%s%s: %d residues\n", prefix, c.ID, c.Length))
	}
	if e := a.Estimate; e != nil {
		sb.WriteString(fmt.Sprintf("Estimate: %.0f min, %.1f GB memory, %.1f GB disk, %d cores\n",
			e.EstimatedRuntimeMinutes, e.EstimatedMemoryGB, e.EstimatedDiskGB, e.EstimatedCores))
	}
	return sb.String()
}
