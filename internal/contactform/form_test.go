package contactform

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/banddevs/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillValid(t *testing.T, f *Form) {
	t.Helper()
	for name, value := range map[string]string{
		"name":    "Alice",
		"email":   "alice@example.com",
		"company": "Acme",
		"service": "Mobile Apps",
		"message": "We would like an iOS app.",
	} {
		require.NoError(t, f.SetField(name, value))
	}
}

func respondWith(status int, resp model.ContactResponse) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestSetField_UnknownName(t *testing.T) {
	f := New("http://localhost", nil)
	err := f.SetField("phone", "123")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestSubmit_SuccessResetsFields(t *testing.T) {
	var got model.ContactSubmission
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ContactPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(model.ContactResponse{Success: true, Message: "Thanks!"})
	}))
	defer srv.Close()

	f := New(srv.URL, srv.Client())
	fillValid(t, f)

	st := f.Submit(context.Background())

	assert.Equal(t, StatusSuccess, st.Kind)
	assert.Equal(t, "Thanks!", st.Message)
	assert.Equal(t, model.ContactSubmission{}, f.Fields(), "all fields reset to empty")
	assert.False(t, f.Submitting())
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "Mobile Apps", got.Service)
}

func TestSubmit_ServerFailureKeepsFields(t *testing.T) {
	srv := respondWith(http.StatusInternalServerError, model.ContactResponse{
		Message: "Sorry, there was an error sending your message. Please try again.",
	})
	defer srv.Close()

	f := New(srv.URL, srv.Client())
	fillValid(t, f)
	before := f.Fields()

	st := f.Submit(context.Background())

	assert.Equal(t, StatusError, st.Kind)
	assert.Equal(t, "Sorry, there was an error sending your message. Please try again.", st.Message)
	assert.Equal(t, before, f.Fields())
	assert.False(t, f.Submitting())
}

func TestSubmit_ServerValidationErrorKeepsFields(t *testing.T) {
	srv := respondWith(http.StatusBadRequest, model.ContactResponse{
		Message: "Validation failed",
		Errors:  []model.FieldError{{Field: "message", Message: "Message must be at least 10 characters long"}},
	})
	defer srv.Close()

	f := New(srv.URL, srv.Client())
	fillValid(t, f)
	require.NoError(t, f.SetField("message", "short"))
	before := f.Fields()

	st := f.Submit(context.Background())

	assert.Equal(t, StatusError, st.Kind)
	require.Len(t, st.Errors, 1)
	assert.Equal(t, "message", st.Errors[0].Field)
	assert.Equal(t, before, f.Fields())
}

type failingDoer struct{ calls int }

func (d *failingDoer) Do(*http.Request) (*http.Response, error) {
	d.calls++
	return nil, errors.New("dial tcp: connection refused")
}

func TestSubmit_NetworkFailureKeepsFields(t *testing.T) {
	doer := &failingDoer{}
	f := New("http://127.0.0.1:1", doer)
	fillValid(t, f)
	before := f.Fields()

	st := f.Submit(context.Background())

	assert.Equal(t, StatusError, st.Kind)
	assert.Equal(t, NetworkErrorMessage, st.Message)
	assert.Equal(t, before, f.Fields())
	assert.False(t, f.Submitting())
	assert.Equal(t, 1, doer.calls, "no retry")
}

type htmlDoer struct{}

func (htmlDoer) Do(*http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: http.StatusBadGateway,
		Body:       io.NopCloser(strings.NewReader("<html>bad gateway</html>")),
	}, nil
}

func TestSubmit_UndecodableResponseIsNetworkError(t *testing.T) {
	f := New("http://example.invalid", htmlDoer{})
	fillValid(t, f)

	st := f.Submit(context.Background())

	assert.Equal(t, StatusError, st.Kind)
	assert.Equal(t, NetworkErrorMessage, st.Message)
	assert.Equal(t, "Alice", f.Fields().Name)
}

func TestSubmit_RequiredFieldsCheckedBeforeSending(t *testing.T) {
	doer := &failingDoer{}
	f := New("http://localhost", doer)
	require.NoError(t, f.SetField("email", "not-an-email"))

	st := f.Submit(context.Background())

	assert.Equal(t, StatusError, st.Kind)
	assert.NotEmpty(t, st.Errors)
	assert.Equal(t, 0, doer.calls, "request must not be sent")
	assert.Equal(t, "not-an-email", f.Fields().Email)
}

func TestSubmit_ClearsPreviousStatus(t *testing.T) {
	srv := respondWith(http.StatusOK, model.ContactResponse{Success: true, Message: "ok"})
	defer srv.Close()

	f := New("http://127.0.0.1:1", &failingDoer{})
	fillValid(t, f)
	require.Equal(t, StatusError, f.Submit(context.Background()).Kind)

	f.client = srv.Client()
	f.baseURL = srv.URL
	st := f.Submit(context.Background())
	assert.Equal(t, StatusSuccess, st.Kind)
	assert.Empty(t, st.Errors)
}

func TestSubmit_InFlightIsSubmittingAndIgnoresSecondCall(t *testing.T) {
	var requests atomic.Int32
	arrived := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			close(arrived)
		}
		<-release
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(model.ContactResponse{Success: true, Message: "Thanks!"})
	}))
	defer srv.Close()

	f := New(srv.URL, srv.Client())
	fillValid(t, f)

	done := make(chan Status, 1)
	go func() { done <- f.Submit(context.Background()) }()

	select {
	case <-arrived:
	case <-time.After(5 * time.Second):
		close(release)
		t.Fatal("request never reached the server")
	}

	assert.True(t, f.Submitting(), "submitting while the request is in flight")
	second := f.Submit(context.Background())
	assert.Equal(t, StatusIdle, second.Kind, "second submit returns the cleared status")
	assert.True(t, f.Submitting())

	close(release)
	var st Status
	select {
	case st = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("submit did not finish")
	}

	assert.Equal(t, StatusSuccess, st.Kind)
	assert.False(t, f.Submitting())
	assert.EqualValues(t, 1, requests.Load(), "second submit must not send")
}

func TestValidate(t *testing.T) {
	f := New("http://localhost", nil)
	assert.Len(t, f.Validate(), 3)
	fillValid(t, f)
	assert.Empty(t, f.Validate())
}

func TestStatusKind_String(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "error", StatusError.String())
}
