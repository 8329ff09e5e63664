package careers

import (
	"time"

	"github.com/google/uuid"
)

// MaxResumeSize caps resume uploads at 16 MiB.
const MaxResumeSize = 16 << 20

// Application is a job application. Rows are insert-only; applications are
// never edited after submission.
type Application struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Experience  string    `json:"experience"`
	ResumeURL   string    `json:"resume_url,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}
