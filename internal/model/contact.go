package model

import "time"

// ContactMessage represents a message submitted via the contact form.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company,omitempty"`
	Service   string    `json:"service,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactSubmission is the JSON body of POST /api/contact, shared by the
// server and the form client. Company and Service may be empty.
type ContactSubmission struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Company string `json:"company"`
	Service string `json:"service" validate:"service"`
	Message string `json:"message" validate:"required,min=10"`
}

// ToMessage converts the submission into a storable ContactMessage.
func (s ContactSubmission) ToMessage() *ContactMessage {
	return &ContactMessage{
		Name:    s.Name,
		Email:   s.Email,
		Company: s.Company,
		Service: s.Service,
		Message: s.Message,
	}
}

// ContactListOptions carries pagination parameters for listing contact messages.
type ContactListOptions struct {
	Limit  int
	Offset int
}

// ContactResponse is the envelope returned by POST /api/contact.
type ContactResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError describes a single rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Services lists the offerings selectable on the contact form.
var Services = []string{
	"Web Development",
	"Mobile Apps",
	"Cloud Solutions",
	"DevOps & Infrastructure",
	"UI/UX Design",
	"Digital Strategy",
}

// IsKnownService reports whether s is one of Services.
func IsKnownService(s string) bool {
	for _, svc := range Services {
		if svc == s {
			return true
		}
	}
	return false
}
