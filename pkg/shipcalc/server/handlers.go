package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/nekruzvatanshoev/shipcalc/pkg/shipcalc/dal"
	"github.com/nekruzvatanshoev/shipcalc/pkg/shipcalc/geocode"
	"github.com/nekruzvatanshoev/shipcalc/pkg/shipcalc/pricing"
)

// User facing messages, in the language of the quote form
const (
	msgNotFound   = "Cím nem geokódolható."
	msgGeocode    = "Geokódolási hiba."
	msgBadRequest = "Érvénytelen kérés."
	msgUnknown    = "Ismeretlen hiba történt."
)

const maxBodyBytes = 1 << 16

var errTrailingData = errors.New("request body has data after the JSON value")

// CalculateShipping defines a POST handler returning the quote for the posted request
func (h *httpServer) CalculateShipping(w http.ResponseWriter, r *http.Request) {
	body, err := validateBody(w, r)
	if err != nil {
		h.log.WithError(err).Info("request body validation failed")
		return
	}

	result, err := h.quoter.Quote(r.Context(), body.Request())
	if err != nil {
		h.log.WithError(err).Warn("quote failed")
		writeError(w, http.StatusBadRequest, errorMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Health defines a liveness probe
func (h *httpServer) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func validateBody(w http.ResponseWriter, r *http.Request) (dal.QuoteBody, error) {
	var body dal.QuoteBody
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return dal.QuoteBody{}, err
	}
	// the body must hold exactly one JSON value
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return dal.QuoteBody{}, errTrailingData
	}
	return body, nil
}

func errorMessage(err error) string {
	var verr *pricing.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, geocode.ErrNotFound):
		return msgNotFound
	case errors.Is(err, geocode.ErrTransport),
		errors.Is(err, geocode.ErrMalformed),
		errors.Is(err, geocode.ErrGeocode):
		return msgGeocode
	default:
		return msgUnknown
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, dal.ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
