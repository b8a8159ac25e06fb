// Package report renders link calculations and antenna listings.
package report

import (
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/signalsfoundry/commnet-calculator/internal/linkcalc"
	"github.com/signalsfoundry/commnet-calculator/internal/units"
	"github.com/signalsfoundry/commnet-calculator/model"
)

const indent = "    "

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Write renders out in the given format ("table" or "json").
func Write(w io.Writer, format string, out *linkcalc.Output) error {
	switch format {
	case linkcalc.OutputJSON:
		return WriteJSON(w, out)
	case linkcalc.OutputTable, "":
		return WriteTable(w, out)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// WriteTable prints both endpoint summaries, the maximum distance and a
// markdown table of signal strengths per distance section.
func WriteTable(w io.Writer, out *linkcalc.Output) error {
	var b strings.Builder

	b.WriteString("From:\n")
	writeEndpoint(&b, out.From)
	b.WriteString("To:\n")
	writeEndpoint(&b, out.To)
	b.WriteString("\n")

	fmt.Fprintf(&b, "Max distance: %s\n\n", units.FormatDistance(out.MaxDistance))

	b.WriteString("|          Section          |   @Min   |   @Max   |\n")
	b.WriteString("|:--------------------------|---------:|---------:|\n")
	for _, s := range out.Strengths {
		fmt.Fprintf(&b, "| %-25s | %8s | %8s |\n", s.Section, FormatStrength(s.AtMin), FormatStrength(s.AtMax))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeEndpoint(b *strings.Builder, e linkcalc.EndpointInfo) {
	fmt.Fprintf(b, "%s%s:\n", indent, e.Kind)
	for _, a := range e.Antennas {
		if a.Count == 1 {
			fmt.Fprintf(b, "%s%s%s\n", indent, indent, a.Name)
		} else {
			fmt.Fprintf(b, "%s%s%dx %s\n", indent, indent, a.Count, a.Name)
		}
	}
}

// FormatStrength renders a strength as a percentage, or "NA" for no signal.
func FormatStrength(s *float64) string {
	if s == nil {
		return "NA"
	}
	return units.FormatPercent(*s)
}

// WriteJSON writes out as indented JSON.
func WriteJSON(w io.Writer, out *linkcalc.Output) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteAntennaList prints every antenna with its aliases and parameters.
func WriteAntennaList(w io.Writer, specs []model.AntennaSpec, version string) error {
	var b strings.Builder

	b.WriteString("Available antennas:\n")
	for _, a := range specs {
		var flags []string
		if a.Relay {
			flags = append(flags, "relay")
		}
		if a.IsDSN {
			flags = append(flags, "DSN")
		}
		if !a.Combinable {
			flags = append(flags, "non-combinable")
		}

		fmt.Fprintf(&b, "%s%s\n", indent, a.Name)
		if len(a.Aliases) > 0 {
			fmt.Fprintf(&b, "%s%saliases: %s\n", indent, indent, strings.Join(a.Aliases, ", "))
		}
		fmt.Fprintf(&b, "%s%spower: %s, combine exponent: %.2f", indent, indent, units.FormatSI(a.Power), a.EffectiveExponent())
		if len(flags) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(flags, ", "))
		}
		b.WriteString("\n")
	}
	if version != "" {
		fmt.Fprintf(&b, "\ncatalog version: %s\n", version)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
