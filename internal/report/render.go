// Package report renders a deduplication report for people and tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/vocabmerge/internal/dedup"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a case-insensitive name to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want text, json or yaml)", s)
	}
}

// Render writes r to w in format f.
func Render(w io.Writer, r dedup.Report, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode json report: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}
		return nil
	case FormatText, "":
		return renderText(w, r)
	default:
		return fmt.Errorf("unknown report format %q", f)
	}
}

func renderText(w io.Writer, r dedup.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Duplicate groups: %d\n", r.DuplicateGroups)
	fmt.Fprintf(&b, "Entries removed:  %d\n", r.EntriesRemoved)
	fmt.Fprintf(&b, "Collection size:  %d -> %d\n", r.OriginalSize, r.FinalSize)

	for i, g := range r.Groups {
		fmt.Fprintf(&b, "\n[%d] %s (%d entries)\n", i+1, g.Key, g.Count)
		for _, m := range g.Members {
			marker := " "
			suffix := ""
			if m.ID == g.BaseID {
				marker = "*"
				suffix = "  (base)"
			}
			fmt.Fprintf(&b, "  %s %s  score=%.3f%s\n", marker, m.ID, m.Score, suffix)
		}
		fmt.Fprintf(&b, "    merged id: %s, absorbed: %s\n", g.MergedID, strings.Join(g.AbsorbedIDs, ", "))
		if len(g.FallbackFields) > 0 {
			fmt.Fprintf(&b, "    kept base value for: %s\n", strings.Join(g.FallbackFields, ", "))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
