package careers

import "errors"

var (
	// ErrNameRequired indicates the application carried no name.
	ErrNameRequired = errors.New("careers: name required")

	// ErrEmailRequired indicates the application carried no email.
	ErrEmailRequired = errors.New("careers: email required")

	// ErrResumeTooLarge indicates the upload exceeded MaxResumeSize.
	ErrResumeTooLarge = errors.New("careers: resume exceeds size limit")
)
