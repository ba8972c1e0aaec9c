package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v2"
)

var (
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
	colorCyan  = lipgloss.Color("36")
	colorAmber = lipgloss.Color("220")

	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
	styleMissed = styleCell.Foreground(colorAmber)
)

// Format names an output format of the deps command.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want table, json or yaml)", s)
}

// Write renders modules in the given format.
func Write(w io.Writer, f Format, modules []Module) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, modules)
	case FormatYAML:
		return WriteYAML(w, modules)
	default:
		return WriteTable(w, modules)
	}
}

// WriteTable prints one bordered table per module.
func WriteTable(w io.Writer, modules []Module) error {
	for i, m := range modules {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, styleTitle.Render(strings.Repeat("  ", m.Depth)+m.Coordinates))
		if len(m.Dependencies) == 0 {
			fmt.Fprintln(w, lipgloss.NewStyle().Foreground(colorDim).Render("  no dependencies"))
			continue
		}

		rows := make([][]string, 0, len(m.Dependencies))
		for _, d := range m.Dependencies {
			rows = append(rows, []string{d.GroupID, d.ArtifactID, d.DisplayVersion(), d.Scope})
		}
		deps := m.Dependencies
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
			Headers("Group ID", "Artifact ID", "Version", "Scope").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return styleHeader
				}
				if col == 2 && row >= 0 && row < len(deps) && deps[row].Version == "" {
					return styleMissed
				}
				return styleCell
			})
		if _, err := fmt.Fprintln(w, t.Render()); err != nil {
			return err
		}
	}
	return nil
}

func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func WriteYAML(w io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	_, err = w.Write(data)
	return err
}
