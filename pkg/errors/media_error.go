package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for propagation policy and HTTP mapping.
type Kind string

const (
	KindValidation Kind = "validation"
	KindStorage    Kind = "storage"
	KindConversion Kind = "conversion"
	KindQueue      Kind = "queue"
	KindNotFound   Kind = "not_found"
)

type MediaError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *MediaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *MediaError) Unwrap() error {
	return e.Err
}

func ErrFileTooLarge(size, max int64) *MediaError {
	return &MediaError{
		Kind:    KindValidation,
		Code:    "file_too_large",
		Message: fmt.Sprintf("file size %d exceeds the configured limit of %d bytes", size, max),
	}
}

func ErrMimeNotAllowed(mimeType string) *MediaError {
	return &MediaError{
		Kind:    KindValidation,
		Code:    "mime_not_allowed",
		Message: fmt.Sprintf("mime type %q is not allowed", mimeType),
	}
}

func ErrMissingFile(err error) *MediaError {
	return &MediaError{Kind: KindValidation, Code: "missing_file", Message: "no file supplied", Err: err}
}

func ErrStorage(op string, err error) *MediaError {
	return &MediaError{Kind: KindStorage, Code: "storage_" + op + "_failed", Message: "storage " + op + " failed", Err: err}
}

func ErrConversion(name string, err error) *MediaError {
	return &MediaError{Kind: KindConversion, Code: "conversion_failed", Message: fmt.Sprintf("conversion %q failed", name), Err: err}
}

func ErrQueue(op string, err error) *MediaError {
	return &MediaError{Kind: KindQueue, Code: "queue_" + op + "_failed", Message: "queue " + op + " failed", Err: err}
}

func ErrMediaNotFound(id string) *MediaError {
	return &MediaError{Kind: KindNotFound, Code: "media_not_found", Message: fmt.Sprintf("media %q not found", id)}
}

func ErrJobNotFound(id string) *MediaError {
	return &MediaError{Kind: KindNotFound, Code: "job_not_found", Message: fmt.Sprintf("job %q not found", id)}
}

func ErrConversionNotFound(name string) *MediaError {
	return &MediaError{Kind: KindNotFound, Code: "conversion_not_found", Message: fmt.Sprintf("conversion %q not found", name)}
}

// KindOf extracts the Kind from an error chain; unclassified errors report
// KindStorage so callers fail loud rather than mask an unknown condition.
func KindOf(err error) Kind {
	var me *MediaError
	if errors.As(err, &me) {
		return me.Kind
	}
	return KindStorage
}

func IsNotFound(err error) bool {
	var me *MediaError
	return errors.As(err, &me) && me.Kind == KindNotFound
}

func IsValidation(err error) bool {
	var me *MediaError
	return errors.As(err, &me) && me.Kind == KindValidation
}
