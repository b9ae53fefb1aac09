package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "plugdroid.dev/pkg/plugdroid/internal/model"
)

// SimpleUI implements UI by printing tables to the command's output.
type SimpleUI struct {
	cmd *cobra.Command

	ok     lipgloss.Style
	warn   lipgloss.Style
	failed lipgloss.Style
	faint  lipgloss.Style
}

// NewSimpleUI creates a new SimpleUI. Colors are only emitted when the
// command's output is a terminal.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	renderer := lipgloss.NewRenderer(cmd.OutOrStdout())

	return &SimpleUI{
		cmd:    cmd,
		ok:     renderer.NewStyle().Foreground(lipgloss.Color("2")),
		warn:   renderer.NewStyle().Foreground(lipgloss.Color("3")),
		failed: renderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		faint:  renderer.NewStyle().Faint(true),
	}
}

// DisplayOperation prints one row per touched file and, in dry runs, the
// diffs that would be written.
func (s *SimpleUI) DisplayOperation(ctx context.Context, report *m.OperationReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := "Added"
	if report.Kind == m.OpRemove {
		done = "Removed"
	}

	switch {
	case report.State == m.Failed:
		s.printf("%s %s %s\n", s.failed.Render("Failed to"), report.Kind, report.Plugin)
	case report.DryRun:
		s.printf("%s %s %s\n", s.warn.Render("Dry run:"), report.Kind, report.Plugin)
	default:
		s.printf("%s %s\n", s.ok.Render(done), report.Plugin)
	}

	if len(report.Files) == 0 {
		s.printf("%s\n", s.faint.Render("No target files affected."))
		return nil
	}

	s.printf("\n%s", renderFileTable(report.Files, s.statusLabel))

	for _, file := range report.Files {
		for _, skipped := range file.Skipped {
			s.printf("%s %s\n", s.warn.Render("skipped"), skipped)
		}

		if file.Err != nil {
			s.printf("%s %v\n", s.failed.Render("error"), file.Err)
		}

		if file.Diff != "" {
			s.printf("\n%s\n", file.Diff)
		}
	}

	return nil
}

func renderFileTable(files []m.FileReport, label func(m.FileStatus) string) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"File", "Status", "Applied", "Reverted", "Skipped"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER,
	})

	modified := 0

	for _, file := range files {
		if file.Status == m.FileModified {
			modified++
		}

		table.Append([]string{
			string(file.Path),
			label(file.Status),
			fmt.Sprintf("%d", file.Applied),
			fmt.Sprintf("%d", file.Reverted),
			fmt.Sprintf("%d", len(file.Skipped)),
		})
	}

	table.SetFooter([]string{fmt.Sprintf("Total Files %d", len(files)), fmt.Sprintf("%d modified", modified), "", "", ""})

	table.Render()

	return tableBuffer.String()
}

// DisplayStatus prints the installed plugins and the tracked munges.
func (s *SimpleUI) DisplayStatus(ctx context.Context, status m.ProjectStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("Project: %s\n", status.Project)

	if len(status.Plugins) == 0 {
		s.printf("%s\n", s.faint.Render("No plugins installed."))
	} else {
		var tableBuffer bytes.Buffer

		table := tablewriter.NewWriter(&tableBuffer)
		table.SetHeader([]string{"Plugin", "Version", "Source"})
		table.SetBorder(false)
		table.SetCenterSeparator("")
		table.SetAutoWrapText(false)

		for _, plugin := range status.Plugins {
			table.Append([]string{string(plugin.ID), plugin.Version, string(plugin.Source)})
		}

		table.Render()
		s.printf("\n%s", tableBuffer.String())
	}

	if len(status.Munges) == 0 {
		s.printf("%s\n", s.faint.Render("No tracked munges."))
		return nil
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"File", "Parent", "Edit", "Count", "Plugins"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	for _, tracked := range status.Munges {
		owners := make([]string, 0, len(tracked.Owners))
		for _, owner := range tracked.Owners {
			owners = append(owners, string(owner))
		}

		table.Append([]string{
			string(tracked.File),
			string(tracked.Parent),
			summarizeEdit(tracked.Edit),
			fmt.Sprintf("%d", len(tracked.Owners)),
			strings.Join(owners, ", "),
		})
	}

	table.SetFooter([]string{fmt.Sprintf("Total Munges %d", len(status.Munges)), "", "", "", ""})
	table.Render()
	s.printf("\n%s", tableBuffer.String())

	return nil
}

// DisplayRebuild reports a rebuilt munge store.
func (s *SimpleUI) DisplayRebuild(ctx context.Context, plugins []m.PluginID, entries int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	names := make([]string, 0, len(plugins))
	for _, plugin := range plugins {
		names = append(names, string(plugin))
	}

	s.printf("%s munge store from %d plugin(s): %s\n", s.ok.Render("Rebuilt"), len(plugins), strings.Join(names, ", "))
	s.printf("Tracking %d munge(s). Target files were not modified.\n", entries)

	return nil
}

// DisplayHook shows the outcome of the on-change hook.
func (s *SimpleUI) DisplayHook(ctx context.Context, command, output string, err error) {
	if ctx.Err() != nil {
		return
	}

	if err != nil {
		s.printf("%s %s: %v\n", s.failed.Render("Hook failed"), command, err)
	} else {
		s.printf("%s %s\n", s.ok.Render("Hook ran"), command)
	}

	if output = strings.TrimSpace(output); output != "" {
		s.printf("%s\n", s.faint.Render(output))
	}
}

func (s *SimpleUI) statusLabel(status m.FileStatus) string {
	switch status {
	case m.FileModified:
		return s.ok.Render(status.String())
	case m.FileFailed:
		return s.failed.Render(status.String())
	default:
		return s.faint.Render(status.String())
	}
}

const maxEditWidth = 60

func summarizeEdit(edit m.Edit) string {
	var text string

	if edit.Kind == m.EditSetAttributes {
		pairs := make([]string, 0, len(edit.Attrs))
		for _, attr := range edit.Attrs {
			pairs = append(pairs, attr.Name+"="+attr.Value)
		}

		text = "set " + strings.Join(pairs, " ")
	} else {
		text = strings.Join(strings.Fields(edit.XML), " ")
		if edit.Kind == m.EditRemoveChild {
			text = "remove " + text
		}
	}

	if len(text) > maxEditWidth {
		text = text[:maxEditWidth-3] + "..."
	}

	return text
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
