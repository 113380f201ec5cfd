// Package contactform is a client for POST /api/contact that keeps the same
// state a browser contact form does: the five fields, a submitting flag and
// the last status message.
package contactform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/banddevs/backend/internal/model"
	"github.com/banddevs/backend/internal/validation"
)

// ContactPath is the endpoint the form posts to.
const ContactPath = "/api/contact"

// NetworkErrorMessage is shown when the request never produced a usable response.
const NetworkErrorMessage = "Network error. Please check your connection and try again."

// ErrUnknownField is returned by SetField for a name that is not a form field.
var ErrUnknownField = errors.New("unknown form field")

// StatusKind is the outcome shown under the form.
type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusSuccess
	StatusError
)

func (k StatusKind) String() string {
	switch k {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Status is the message displayed after a submission.
type Status struct {
	Kind    StatusKind
	Message string
	// Errors holds per-field problems found before sending or reported by the server.
	Errors []model.FieldError
}

// Doer is the part of *http.Client the form needs.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Form holds the editable contact fields. It is safe for concurrent use.
type Form struct {
	baseURL string
	client  Doer

	mu         sync.Mutex
	fields     model.ContactSubmission
	submitting bool
	status     Status
}

// New creates a Form posting to baseURL+ContactPath. A nil client uses an
// http.Client with a 30s timeout.
func New(baseURL string, client Doer) *Form {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Form{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// SetField updates the field with the given JSON name.
func (f *Form) SetField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch name {
	case "name":
		f.fields.Name = value
	case "email":
		f.fields.Email = value
	case "company":
		f.fields.Company = value
	case "service":
		f.fields.Service = value
	case "message":
		f.fields.Message = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// Fields returns a copy of the current field values.
func (f *Form) Fields() model.ContactSubmission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// Submitting reports whether a submission is in flight.
func (f *Form) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Status returns the last submission outcome.
func (f *Form) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Validate runs the checks a browser applies before submitting: required
// fields and email syntax. Length and service rules are left to the server.
func (f *Form) Validate() []model.FieldError {
	fields := f.Fields()
	return validation.Required(&fields)
}

// Submit posts the current fields once. On success the fields are cleared;
// on any failure they are kept so the user can resubmit. A second call while
// one is in flight is ignored and returns the current status.
func (f *Form) Submit(ctx context.Context) Status {
	f.mu.Lock()
	if f.submitting {
		st := f.status
		f.mu.Unlock()
		return st
	}
	f.submitting = true
	f.status = Status{}
	fields := f.fields
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	if errs := validation.Required(&fields); errs != nil {
		return f.finish(Status{Kind: StatusError, Message: errs[0].Message, Errors: errs}, false)
	}

	resp, err := f.post(ctx, fields)
	if err != nil {
		return f.finish(Status{Kind: StatusError, Message: NetworkErrorMessage}, false)
	}
	if !resp.Success {
		return f.finish(Status{Kind: StatusError, Message: resp.Message, Errors: resp.Errors}, false)
	}
	return f.finish(Status{Kind: StatusSuccess, Message: resp.Message}, true)
}

func (f *Form) finish(st Status, reset bool) Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = st
	if reset {
		f.fields = model.ContactSubmission{}
	}
	return st
}

func (f *Form) post(ctx context.Context, fields model.ContactSubmission) (model.ContactResponse, error) {
	var out model.ContactResponse

	body, err := json.Marshal(fields)
	if err != nil {
		return out, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+ContactPath, bytes.NewReader(body))
	if err != nil {
		return out, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := f.client.Do(req)
	if err != nil {
		return out, err
	}
	defer res.Body.Close()

	// Any status carries the envelope; only an undecodable body counts as a
	// network failure.
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("decode response (status %d): %w", res.StatusCode, err)
	}
	if out.Message == "" && !out.Success {
		out.Message = http.StatusText(res.StatusCode)
	}
	return out, nil
}
