package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/toparvion/analogtail/internal/analog"
)

// Output formats of the choices command.
const (
	FormatTable = "table"
	FormatYAML  = "yaml"
	FormatJSON  = "json"
)

// WriteChoices renders choices in format.
func WriteChoices(w io.Writer, choices []analog.Choice, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatTable:
		_, err := fmt.Fprintln(w, choicesTable(choices))
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(choices); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(choices); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want table, yaml or json)", format)
	}
}

func choicesTable(choices []analog.Choice) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("", "GROUP", "TITLE", "ID", "TYPE", "NODES").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for _, c := range choices {
		mark := ""
		if c.Selected {
			mark = "*"
		}
		t.Row(mark, c.Group, c.Title, c.ID(), string(c.Type()), analog.NodeLabel(c))
	}
	return t.Render()
}
