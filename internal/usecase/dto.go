package usecase

type CaptureLeadInput struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type CaptureLeadOutput struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
