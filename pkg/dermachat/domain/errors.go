package domain

import "errors"

var (
	ErrNoImageSelected      = errors.New("no image selected")
	ErrNoCameraSession      = errors.New("camera is not open")
	ErrEmptyMessage         = errors.New("empty message")
	ErrPredictionInProgress = errors.New("prediction already in progress")
	ErrControllerClosed     = errors.New("controller is closed")
)

// ServiceError is an error reported by a backend service in its response body (as opposed to a failed request).
type ServiceError struct {
	Message string
}

func NewServiceError(message string) *ServiceError {
	return &ServiceError{Message: message}
}

func (s *ServiceError) Error() string {
	return s.Message
}

// IsServiceError returns the service-reported error wrapped in `err`, if any.
func IsServiceError(err error) (*ServiceError, bool) {
	var serviceError *ServiceError
	if errors.As(err, &serviceError) {
		return serviceError, true
	}
	return nil, false
}
