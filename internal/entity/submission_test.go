package entity

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Amount
	}{
		{"number", `500`, 500},
		{"decimal", `99.5`, 99.5},
		{"numeric string", `"1200.25"`, 1200.25},
		{"null", `null`, 0},
		{"non numeric string", `"a lot"`, 0},
		{"bool", `true`, 0},
		{"NaN string", `"NaN"`, 0},
		{"Infinity string", `"Infinity"`, 0},
		{"inf string", `"inf"`, 0},
		{"negative inf string", `"-Inf"`, 0},
		{"overflowing number", `1e999`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Amount
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &a))
			assert.Equal(t, tt.want, a)
		})
	}
}

func TestAmountFormatting(t *testing.T) {
	assert.Equal(t, "500", Amount(500).String())
	assert.Equal(t, "99.5", Amount(99.5).String())
	assert.Equal(t, "500.00", Amount(500).Fixed2())
	assert.Equal(t, "0.10", Amount(0.1).Fixed2())
}

func TestSubmissionDecodeLooseValues(t *testing.T) {
	raw := `{
		"contact": {"email": " Ana@B.com ", "fullName": "Ana Lopez"},
		"objectives": {"services": ["Web"], "goals": ["Sales"]},
		"requirements": [
			{"text": "Secure data storage", "value": 500, "included": true},
			{"text": "Unknown", "value": null},
			{"text": "Typo", "value": "abc"}
		],
		"totalEstimate": "500"
	}`

	var s Submission
	require.NoError(t, json.Unmarshal([]byte(raw), &s))

	assert.Equal(t, "ana@b.com", s.Email())
	require.Len(t, s.Requirements, 3)
	assert.Equal(t, Amount(500), s.Requirements[0].Value)
	assert.Equal(t, Amount(0), s.Requirements[1].Value)
	assert.Equal(t, Amount(0), s.Requirements[2].Value)
	assert.Equal(t, Amount(500), s.TotalEstimate)
}

func TestSubmissionEncodeIsReversible(t *testing.T) {
	s := Submission{
		Contact:    Contact{Email: "a@b.com", FullName: "Ana Lopez", Phone: "+34 600"},
		Objectives: Objectives{Services: []string{"Web", "App"}, Budget: "5k"},
		Requirements: []Requirement{
			{Text: "Login", Value: 120.5, Included: true},
			{Text: "Admin", Value: 0},
		},
		TotalEstimate: 120.5,
		Description:   "A shop",
	}

	data, err := s.Encode()
	require.NoError(t, err)

	back, err := DecodeSubmission(data)
	require.NoError(t, err)
	assert.Equal(t, s, back)
}

func TestSubmissionValidate(t *testing.T) {
	assert.ErrorIs(t, Submission{}.Validate(), ErrEmailRequired)
	assert.NoError(t, Submission{Contact: Contact{Email: "a@b.com"}}.Validate())
}

func TestNewLeadFromSubmission(t *testing.T) {
	s := Submission{
		Contact:       Contact{Email: "A@B.com", FullName: "Ana", CompanyName: "Acme"},
		TotalEstimate: 500,
	}

	lead, err := NewLeadFromSubmission(s)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", lead.Email)
	assert.Equal(t, "Ana", lead.Name)
	assert.Equal(t, "Acme", lead.Company)
	assert.Equal(t, Amount(500), lead.TotalEstimate)

	back, err := lead.Submission()
	require.NoError(t, err)
	assert.Equal(t, s, back)
}

func TestAmountMarshalNonFinite(t *testing.T) {
	b, err := json.Marshal(Amount(math.NaN()))
	require.NoError(t, err)
	assert.Equal(t, "0", string(b))

	b, err = json.Marshal(Amount(math.Inf(1)))
	require.NoError(t, err)
	assert.Equal(t, "0", string(b))
}

func TestSubmissionEncodeKeepsReceivedPayload(t *testing.T) {
	raw := `{"contact":{"email":"a@b.com"},"totalEstimate":"500","utm":{"source":"ads"}}`
	var s Submission
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	s.Raw = json.RawMessage(raw)

	lead, err := NewLeadFromSubmission(s)
	require.NoError(t, err)
	assert.Equal(t, raw, lead.Data)

	back, err := lead.Submission()
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", back.Email())
	assert.Equal(t, Amount(500), back.TotalEstimate)
}

func TestSubmissionEncodeRejectsInvalidRaw(t *testing.T) {
	s := Submission{Contact: Contact{Email: "a@b.com"}, Raw: json.RawMessage(`{"contact":`)}
	_, err := s.Encode()
	assert.Error(t, err)
}
