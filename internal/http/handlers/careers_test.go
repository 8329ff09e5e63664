package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toughlovemassage/portal/internal/careers"
)

type memApplicationStore struct {
	apps []*careers.Application
}

func (s *memApplicationStore) Insert(ctx context.Context, app *careers.Application) (*careers.Application, error) {
	out := *app
	out.ID = uuid.New()
	out.SubmittedAt = time.Now()
	s.apps = append(s.apps, &out)
	return &out, nil
}

func (s *memApplicationStore) List(ctx context.Context) ([]*careers.Application, error) {
	return s.apps, nil
}

type noopApplicationNotifier struct{}

func (noopApplicationNotifier) ApplicationReceived(ctx context.Context, name, email string) error {
	return nil
}

func applicationForm(t *testing.T, fields map[string]string, resume []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, w.WriteField(key, value))
	}
	if resume != nil {
		part, err := w.CreateFormFile("resume", "resume.pdf")
		require.NoError(t, err)
		_, err = part.Write(resume)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func newCareersHandler(store *memApplicationStore) *CareersHandler {
	svc := careers.NewService(store, nil, noopApplicationNotifier{}, nil)
	return NewCareersHandler(svc, nil)
}

func TestApplyAcceptsMultipartForm(t *testing.T) {
	store := &memApplicationStore{}
	h := newCareersHandler(store)

	body, contentType := applicationForm(t, map[string]string{
		"name":       "Riley Okafor",
		"email":      "riley@example.com",
		"experience": "5 years LMT",
	}, []byte("%PDF-1.4 fake resume"))

	req := httptest.NewRequest(http.MethodPost, "/careers/apply", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Apply(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var app careers.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &app))
	assert.Equal(t, "Riley Okafor", app.Name)
	require.Len(t, store.apps, 1)
}

func TestApplyWithoutResume(t *testing.T) {
	store := &memApplicationStore{}
	h := newCareersHandler(store)

	body, contentType := applicationForm(t, map[string]string{
		"name":  "Sam Field",
		"email": "sam@example.com",
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/careers/apply", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Apply(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, store.apps, 1)
	assert.Empty(t, store.apps[0].ResumeURL)
}

func TestApplyRejectsMissingName(t *testing.T) {
	store := &memApplicationStore{}
	h := newCareersHandler(store)

	body, contentType := applicationForm(t, map[string]string{
		"email": "anon@example.com",
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/careers/apply", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Apply(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.apps)
}

func TestApplyRejectsNonMultipartBody(t *testing.T) {
	store := &memApplicationStore{}
	h := newCareersHandler(store)

	req := httptest.NewRequest(http.MethodPost, "/careers/apply", bytes.NewBufferString(`{"name":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Apply(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
