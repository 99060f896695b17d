package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ShayCichocki/baton/pkg/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("243"))

	taskIDStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#45B7D1"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#96E6A1"))

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFC857"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// renderPlan prints a plan as an aligned task listing.
func renderPlan(plan *models.Plan, estimated time.Duration) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Plan %s", plan.ID)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("owner %s · mode %s · %d tasks · estimated cost %.1f · estimated duration %s",
		plan.OwnerID, plan.Mode, len(plan.Tasks), plan.EstimatedCost, estimated)))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-10s %-26s %6s  %s", "ID", "TYPE", "COST", "DEPENDS ON")))
	b.WriteString("\n")
	for _, t := range plan.Tasks {
		deps := "-"
		if len(t.Dependencies) > 0 {
			deps = strings.Join(t.Dependencies, ", ")
		}
		b.WriteString(fmt.Sprintf("  %s %-26s %6.1f  %s\n",
			taskIDStyle.Render(fmt.Sprintf("%-10s", t.ID)), t.Type, t.EstimatedCost, dimStyle.Render(deps)))
	}

	for _, w := range plan.ComplianceWarnings {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render("⚠ " + w))
		b.WriteString("\n")
	}
	return b.String()
}

// renderReport prints per-task outcomes and the rolled-up summary.
func renderReport(report *models.ExecutionReport) string {
	var b strings.Builder

	for _, r := range report.Results {
		mark := okStyle.Render("✓")
		if !r.Success {
			mark = failStyle.Render("✗")
			if r.Cancelled {
				mark = warnStyle.Render("⊘")
			}
		}
		line := fmt.Sprintf("%s %s", mark, taskIDStyle.Render(r.TaskID))
		if r.Success {
			line += dimStyle.Render(fmt.Sprintf("  cost %.1f · %s · attempts %d", r.CostConsumed, r.ComplianceStatus, r.Attempts))
		} else {
			line += dimStyle.Render("  " + r.Explanation)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	overall := okStyle.Render("SUCCEEDED")
	if !report.OverallSuccess {
		overall = failStyle.Render("FAILED")
	}
	b.WriteString(fmt.Sprintf("%s %s\n", headerStyle.Render("Plan"), overall))
	b.WriteString(dimStyle.Render(fmt.Sprintf("total cost %.1f · compliance %s (compliant %d, non-compliant %d, review %d)",
		report.TotalCostConsumed, report.Compliance.Overall(),
		report.Compliance.Compliant, report.Compliance.NonCompliant, report.Compliance.RequiresReview)))
	b.WriteString("\n")
	return b.String()
}
