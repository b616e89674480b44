package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/wizard-sync/internal/entity"
)

func TestRenderNote_Full(t *testing.T) {
	s := entity.Submission{
		Objectives: entity.Objectives{
			Services: []string{"Web", "App"},
			Goals:    []string{"Sales"},
			Budget:   "5k-10k",
			Timeline: "3 months",
		},
		Description: "An online shop",
		Requirements: []entity.Requirement{
			{Text: "Login", Value: 120.5},
			{Text: "Payments", Value: 300},
		},
		TotalEstimate: 420.5,
	}

	want := "Resultados del Wizard:\n---------------------\n" +
		"Servicios: Web, App\n" +
		"Objetivos: Sales\n" +
		"Presupuesto: 5k-10k\n" +
		"Tiempo: 3 months\n\n" +
		"Descripción:\nAn online shop\n\n" +
		"Requerimientos:\n- Login: $120.5\n- Payments: $300\n\n" +
		"Total Estimado: $420.5"

	assert.Equal(t, want, RenderNote(s))
}

func TestRenderNote_MissingFields(t *testing.T) {
	note := RenderNote(entity.Submission{})

	assert.Contains(t, note, "Servicios: N/A\n")
	assert.Contains(t, note, "Objetivos: N/A\n")
	assert.Contains(t, note, "Presupuesto: N/A\n")
	assert.Contains(t, note, "Tiempo: N/A\n")
	assert.Contains(t, note, "Descripción:\nN/A\n")
	assert.Contains(t, note, "Requerimientos:\n\n\n")
	assert.Contains(t, note, "Total Estimado: $0")
}

func TestRenderNote_CoercedValues(t *testing.T) {
	s := entity.Submission{Requirements: []entity.Requirement{
		{Text: "Unknown", Value: entity.ParseAmount("n/a")},
		{Text: "Secure data storage", Value: 500},
	}}

	note := RenderNote(s)

	assert.Contains(t, note, "- Unknown: $0\n")
	assert.Contains(t, note, "- Secure data storage: $500\n")
}

func TestOpportunityName(t *testing.T) {
	assert.Equal(t, "Ana Lopez - App Estimate", OpportunityName(" Ana Lopez "))
	assert.Equal(t, "Lead - App Estimate", OpportunityName(""))
}
