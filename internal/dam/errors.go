package dam

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError reports a non-success HTTP status from the DAM API.
type APIError struct {
	Method string
	Path   string
	Status int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.Status)
}

// IsNotFound reports whether err is a 404 from the API, which the pollers
// read as "asset no longer exists".
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
