package geocode

import (
	"errors"
	"fmt"
)

var (
	// ErrGeocode is returned when every attempt failed without leaving an error behind.
	ErrGeocode = errors.New("geocoding failed")
	// ErrTransport marks an unreachable upstream or a non-success status.
	ErrTransport = errors.New("geocoder unreachable")
	// ErrMalformed marks a response body that could not be decoded.
	ErrMalformed = errors.New("malformed geocoder response")
	// ErrNotFound marks an empty result list.
	ErrNotFound = errors.New("address not found")
)

// TransportError carries the upstream status code, zero when the request never got a response.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d", ErrTransport, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", ErrTransport, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}
