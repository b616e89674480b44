package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrEmailRequired = errors.New("contact email is required")

// Amount is a monetary value as sent by the wizard. The frontend is not strict
// about types, so null, numeric strings and garbage are all accepted; anything
// that is not a number decodes to zero.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*a = 0
			return nil
		}
		*a = ParseAmount(s)
		return nil
	}

	*a = ParseAmount(string(data))
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !finite(float64(a)) {
		return []byte("0"), nil
	}
	return []byte(a.String()), nil
}

// String renders the shortest decimal form: 500 -> "500", 99.5 -> "99.5".
func (a Amount) String() string {
	return strconv.FormatFloat(float64(a), 'f', -1, 64)
}

// Fixed2 renders the value with two decimals, as stored locally.
func (a Amount) Fixed2() string {
	return fmt.Sprintf("%.2f", float64(a))
}

func (a Amount) Float64() float64 {
	return float64(a)
}

// ParseAmount coerces a loose string into an Amount, zero when not numeric.
// NaN and infinities count as not numeric.
func ParseAmount(s string) Amount {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !finite(f) {
		return 0
	}
	return Amount(f)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

type Contact struct {
	Email       string `json:"email"`
	FullName    string `json:"fullName,omitempty"`
	Phone       string `json:"phone,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
}

type Objectives struct {
	Services []string `json:"services,omitempty"`
	Goals    []string `json:"goals,omitempty"`
	Budget   string   `json:"budget,omitempty"`
	Timeline string   `json:"timeline,omitempty"`
}

type Requirement struct {
	Text     string `json:"text"`
	Value    Amount `json:"value"`
	Included bool   `json:"included"`
}

// Submission is one completed wizard run. It is treated as read-only once it
// leaves the HTTP layer.
type Submission struct {
	Contact       Contact       `json:"contact"`
	Objectives    Objectives    `json:"objectives"`
	Requirements  []Requirement `json:"requirements"`
	TotalEstimate Amount        `json:"totalEstimate"`
	Description   string        `json:"description,omitempty"`

	// Raw is the payload as received. When set it is what gets stored.
	Raw json.RawMessage `json:"-"`
}

// Email returns the normalized identity key of the submission.
func (s Submission) Email() string {
	return strings.ToLower(strings.TrimSpace(s.Contact.Email))
}

func (s Submission) Validate() error {
	if s.Email() == "" {
		return ErrEmailRequired
	}
	return nil
}

// Encode serializes the submission for storage: the received payload when
// there is one, the parsed fields otherwise. DecodeSubmission reverses it.
func (s Submission) Encode() (string, error) {
	if len(bytes.TrimSpace(s.Raw)) > 0 {
		if !json.Valid(s.Raw) {
			return "", errors.New("raw submission is not valid JSON")
		}
		return string(s.Raw), nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func DecodeSubmission(data string) (Submission, error) {
	var s Submission
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return Submission{}, err
	}
	return s, nil
}
