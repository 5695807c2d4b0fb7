package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/lensfinder/backend/internal/domain"
	"github.com/lensfinder/backend/internal/presenter"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

type calculationOutput struct {
	Result  *domain.CalculationResult `json:"result"`
	Summary presenter.Summary         `json:"summary"`
}

type lensesOutput struct {
	Lenses        []domain.LensProduct `json:"lenses"`
	Count         int                  `json:"count"`
	ProductsFound string               `json:"productsFound"`
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeCalculation prints the eye lines and, for a match, the lens table
func writeCalculation(w io.Writer, format string, result *domain.CalculationResult, summary presenter.Summary, withLenses bool) error {
	if format == JSONOut {
		return writeJSON(w, calculationOutput{Result: result, Summary: summary})
	}

	bold := color.New(color.Bold).SprintFunc()
	lines := []string{bold(summary.RightEye), bold(summary.LeftEye)}
	if summary.DominantEye != "" {
		lines = append(lines, summary.DominantEye)
	}
	lines = append(lines, fmt.Sprintf("Vertex distance: %.1f mm", result.VertexDistance))
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if !withLenses {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if len(summary.Cards) > 0 {
		if err := writeCardTable(w, summary.Cards); err != nil {
			return err
		}
	}
	return writeFooter(w, len(summary.Cards))
}

// writeLenses prints the catalog listing
func writeLenses(w io.Writer, format string, lenses []domain.LensProduct) error {
	if format == JSONOut {
		return writeJSON(w, lensesOutput{
			Lenses:        lenses,
			Count:         len(lenses),
			ProductsFound: presenter.ProductsFoundLine(len(lenses)),
		})
	}

	if len(lenses) > 0 {
		if err := writeCardTable(w, presenter.Cards(lenses)); err != nil {
			return err
		}
	}
	return writeFooter(w, len(lenses))
}

func writeCardTable(w io.Writer, cards []presenter.LensCard) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "Name", "Manufacturer", "Modality", "Type", "Sphere", "Cylinder", "Add"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	data := make([][]string, 0, len(cards))
	for _, card := range cards {
		data = append(data, []string{
			card.ID,
			card.Name,
			card.Manufacturer,
			card.Modality,
			card.Type,
			card.SphereRange,
			card.CylinderRange,
			card.AddPowersLabel,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeFooter(w io.Writer, n int) error {
	if n == 0 {
		_, err := fmt.Fprintln(w, color.YellowString(presenter.NoMatchesMessage))
		return err
	}
	_, err := fmt.Fprintln(w, color.GreenString(presenter.ProductsFoundLine(n)))
	return err
}
