package handlers

import (
	"errors"
	"net/http"

	"github.com/toughlovemassage/portal/internal/careers"
	"github.com/toughlovemassage/portal/pkg/logging"
)

// CareersHandler serves the public job application form and the admin list.
type CareersHandler struct {
	service *careers.Service
	logger  *logging.Logger
}

// NewCareersHandler creates the careers handler.
func NewCareersHandler(service *careers.Service, logger *logging.Logger) *CareersHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &CareersHandler{service: service, logger: logger}
}

// Apply handles POST /careers/apply as a multipart form with an optional
// "resume" file part.
func (h *CareersHandler) Apply(w http.ResponseWriter, r *http.Request) {
	// The resume cap plus headroom for the text fields. A request past this
	// size is cut off before it buffers.
	r.Body = http.MaxBytesReader(w, r.Body, careers.MaxResumeSize+1<<20)
	if err := r.ParseMultipartForm(4 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, careers.ErrResumeTooLarge)
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	params := careers.SubmitParams{
		Name:       r.FormValue("name"),
		Email:      r.FormValue("email"),
		Experience: r.FormValue("experience"),
	}
	file, header, err := r.FormFile("resume")
	if err == nil {
		defer file.Close()
		params.Resume = file
		params.ResumeSize = header.Size
		params.ResumeFilename = header.Filename
		params.ResumeType = header.Header.Get("Content-Type")
	} else if !errors.Is(err, http.ErrMissingFile) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid resume upload"})
		return
	}

	app, err := h.service.Submit(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

// List handles GET /admin/applications.
func (h *CareersHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []*careers.Application{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"applications": list})
}
