package usecase

import (
	"strings"

	"github.com/xavierca1/wizard-sync/internal/entity"
)

const notAvailable = "N/A"

// RenderNote builds the activity note attached to the CRM contact. The
// section order and labels are fixed; sales reads these in Spanish.
func RenderNote(s entity.Submission) string {
	var b strings.Builder

	b.WriteString("Resultados del Wizard:\n---------------------\n")
	b.WriteString("Servicios: " + joinOrNA(s.Objectives.Services) + "\n")
	b.WriteString("Objetivos: " + joinOrNA(s.Objectives.Goals) + "\n")
	b.WriteString("Presupuesto: " + orNA(s.Objectives.Budget) + "\n")
	b.WriteString("Tiempo: " + orNA(s.Objectives.Timeline) + "\n\n")
	b.WriteString("Descripción:\n" + orNA(s.Description) + "\n\n")

	lines := make([]string, 0, len(s.Requirements))
	for _, r := range s.Requirements {
		lines = append(lines, "- "+r.Text+": $"+r.Value.String())
	}
	b.WriteString("Requerimientos:\n" + strings.Join(lines, "\n") + "\n\n")

	b.WriteString("Total Estimado: $" + s.TotalEstimate.String())
	return b.String()
}

func orNA(v string) string {
	if strings.TrimSpace(v) == "" {
		return notAvailable
	}
	return v
}

func joinOrNA(v []string) string {
	if len(v) == 0 {
		return notAvailable
	}
	return strings.Join(v, ", ")
}
