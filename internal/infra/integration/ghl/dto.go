package ghl

// ContactInput is what the wizard knows about a contact.
type ContactInput struct {
	Email       string
	FullName    string
	Phone       string
	CompanyName string
}

type contactPayload struct {
	Email       string   `json:"email"`
	Phone       string   `json:"phone,omitempty"`
	Name        string   `json:"name,omitempty"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	CompanyName string   `json:"companyName,omitempty"`
	LocationID  string   `json:"locationId,omitempty"`
	Tags        []string `json:"tags"`
}

type contactRef struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

type searchContactsResponse struct {
	Contacts []contactRef `json:"contacts"`
}

type contactResponse struct {
	Contact contactRef `json:"contact"`
}

// Stage is one step of a pipeline, in the order the CRM lists it.
type Stage struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Pipeline struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Stages []Stage `json:"stages"`
}

type pipelinesResponse struct {
	Pipelines []Pipeline `json:"pipelines"`
}

// OpportunityInput describes a new opportunity. Status is always open.
type OpportunityInput struct {
	ContactID     string
	PipelineID    string
	StageID       string
	Name          string
	MonetaryValue float64
}

type opportunityPayload struct {
	PipelineID      string  `json:"pipelineId"`
	LocationID      string  `json:"locationId"`
	ContactID       string  `json:"contactId"`
	Name            string  `json:"name"`
	PipelineStageID string  `json:"pipelineStageId"`
	Status          string  `json:"status"`
	MonetaryValue   float64 `json:"monetaryValue"`
}

type opportunityResponse struct {
	Opportunity struct {
		ID string `json:"id"`
	} `json:"opportunity"`
}

type notePayload struct {
	Body string `json:"body"`
}

type noteResponse struct {
	Note struct {
		ID string `json:"id"`
	} `json:"note"`
}
