package careers

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type stubAppStore struct {
	inserted []*Application
}

func (s *stubAppStore) Insert(ctx context.Context, app *Application) (*Application, error) {
	app.ID = uuid.New()
	s.inserted = append(s.inserted, app)
	return app, nil
}

func (s *stubAppStore) List(ctx context.Context) ([]*Application, error) {
	return s.inserted, nil
}

type stubNotifier struct {
	notified int
	err      error
}

func (n *stubNotifier) ApplicationReceived(ctx context.Context, name, email string) error {
	n.notified++
	return n.err
}

// mockS3Client records PutObject calls.
type mockS3Client struct {
	keys   []string
	bodies [][]byte
}

func (m *mockS3Client) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, _ := io.ReadAll(input.Body)
	m.keys = append(m.keys, *input.Key)
	m.bodies = append(m.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func TestSubmitStoresResumeAndNotifies(t *testing.T) {
	store := &stubAppStore{}
	mock := &mockS3Client{}
	notifier := &stubNotifier{}
	svc := NewService(store, NewS3Storage(mock, "resumes-bucket", nil), notifier, nil)

	app, err := svc.Submit(context.Background(), SubmitParams{
		Name:           "Alex Reyes",
		Email:          "alex@example.com",
		Experience:     "5 years deep tissue",
		ResumeFilename: "alex resume.pdf",
		ResumeType:     "application/pdf",
		Resume:         strings.NewReader("%PDF-1.4 fake"),
		ResumeSize:     13,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if app.ResumeURL == "" || !strings.HasPrefix(app.ResumeURL, "s3://resumes-bucket/resumes/") {
		t.Fatalf("unexpected resume url: %q", app.ResumeURL)
	}
	if len(mock.keys) != 1 || strings.Contains(mock.keys[0], " ") {
		t.Fatalf("filename must be sanitized: %v", mock.keys)
	}
	if notifier.notified != 1 {
		t.Fatalf("expected 1 notification, got %d", notifier.notified)
	}
}

func TestSubmitWithoutResume(t *testing.T) {
	store := &stubAppStore{}
	svc := NewService(store, nil, &stubNotifier{}, nil)

	app, err := svc.Submit(context.Background(), SubmitParams{
		Name:  "Alex Reyes",
		Email: "alex@example.com",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if app.ResumeURL != "" {
		t.Fatalf("expected empty resume url, got %q", app.ResumeURL)
	}
}

func TestSubmitRejectsOversizedResume(t *testing.T) {
	svc := NewService(&stubAppStore{}, nil, &stubNotifier{}, nil)

	_, err := svc.Submit(context.Background(), SubmitParams{
		Name:       "Alex",
		Email:      "alex@example.com",
		Resume:     strings.NewReader("x"),
		ResumeSize: MaxResumeSize + 1,
	})
	if !errors.Is(err, ErrResumeTooLarge) {
		t.Fatalf("expected ErrResumeTooLarge, got %v", err)
	}
}

func TestSubmitValidation(t *testing.T) {
	svc := NewService(&stubAppStore{}, nil, nil, nil)

	if _, err := svc.Submit(context.Background(), SubmitParams{Email: "a@b.c"}); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	if _, err := svc.Submit(context.Background(), SubmitParams{Name: "Alex"}); !errors.Is(err, ErrEmailRequired) {
		t.Fatalf("expected ErrEmailRequired, got %v", err)
	}
}

func TestSubmitSwallowsNotifierFailure(t *testing.T) {
	store := &stubAppStore{}
	svc := NewService(store, nil, &stubNotifier{err: errors.New("smtp down")}, nil)

	if _, err := svc.Submit(context.Background(), SubmitParams{Name: "Alex", Email: "alex@example.com"}); err != nil {
		t.Fatalf("notification failure must not fail the submission: %v", err)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("application must still be recorded")
	}
}

func TestLocalStorageWritesFile(t *testing.T) {
	dir := t.TempDir()
	storage := NewLocalStorage(dir, nil)

	url, err := storage.Store(context.Background(), "../evil/../resume.pdf", "application/pdf", strings.NewReader("data"))
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/") || strings.Contains(url, "..") {
		t.Fatalf("unexpected url: %q", url)
	}
}
