package careers

import (
	"context"
	"io"
	"strings"

	"github.com/toughlovemassage/portal/pkg/logging"
)

// ApplicationStore is the persistence surface the service needs.
type ApplicationStore interface {
	Insert(ctx context.Context, app *Application) (*Application, error)
	List(ctx context.Context) ([]*Application, error)
}

// Notifier announces a new application. Failures are logged and swallowed.
type Notifier interface {
	ApplicationReceived(ctx context.Context, applicantName, applicantEmail string) error
}

// Service handles job application submissions.
type Service struct {
	store    ApplicationStore
	storage  Storage
	notifier Notifier
	logger   *logging.Logger
}

// NewService wires the careers service. storage may be nil; applications then
// go in without a resume.
func NewService(store ApplicationStore, storage Storage, notifier Notifier, logger *logging.Logger) *Service {
	if store == nil {
		panic("careers: application store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, storage: storage, notifier: notifier, logger: logger}
}

// SubmitParams are the fields of an application. Resume is optional; when
// present it is stored before the row is written.
type SubmitParams struct {
	Name           string
	Email          string
	Experience     string
	ResumeFilename string
	ResumeType     string
	Resume         io.Reader
	ResumeSize     int64
}

// Submit validates, stores the resume if any, records the application, and
// notifies the admin and applicant.
func (s *Service) Submit(ctx context.Context, p SubmitParams) (*Application, error) {
	name := strings.TrimSpace(p.Name)
	email := strings.TrimSpace(p.Email)
	if name == "" {
		return nil, ErrNameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}
	if p.ResumeSize > MaxResumeSize {
		return nil, ErrResumeTooLarge
	}

	var resumeURL string
	if p.Resume != nil && s.storage != nil {
		// Cap the read as well; a lying Content-Length must not get around
		// the limit.
		limited := io.LimitReader(p.Resume, MaxResumeSize+1)
		url, err := s.storage.Store(ctx, p.ResumeFilename, p.ResumeType, limited)
		if err != nil {
			return nil, err
		}
		resumeURL = url
	}

	app, err := s.store.Insert(ctx, &Application{
		Name:       name,
		Email:      email,
		Experience: p.Experience,
		ResumeURL:  resumeURL,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("application submitted", "application_id", app.ID, "email", email)
	if s.notifier != nil {
		if err := s.notifier.ApplicationReceived(ctx, name, email); err != nil {
			s.logger.Error("application notification failed", "error", err, "application_id", app.ID)
		}
	}
	return app, nil
}

// List returns all applications for the admin view.
func (s *Service) List(ctx context.Context) ([]*Application, error) {
	return s.store.List(ctx)
}
