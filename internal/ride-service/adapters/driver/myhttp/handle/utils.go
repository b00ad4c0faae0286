package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/orlantquijada/wingz/internal/mylogger"
	"github.com/orlantquijada/wingz/internal/ride-service/core/myerrors"
)

const (
	WaitTime = 10
)

var ErrInvalidJSON = errors.New("failed to parse JSON")

// jsonResponse writes the given data as a JSON-encoded HTTP response.
func jsonResponse(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// JsonError writes an error response as JSON with the specified HTTP status code.
func JsonError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err == nil {
		return
	}
	body := map[string]interface{}{
		"error": err.Error(),
		"code":  code,
	}
	var verr *myerrors.ValidationError
	if errors.As(err, &verr) {
		body["error"] = "invalid request"
		body["fields"] = verr.Fields
	}
	_ = json.NewEncoder(w).Encode(body)
}

// writeServiceError maps core errors onto status codes. Anything unknown is
// logged and answered with a generic 500.
func writeServiceError(w http.ResponseWriter, log mylogger.Logger, err error) {
	switch {
	case myerrors.IsValidation(err):
		JsonError(w, http.StatusBadRequest, err)
	case errors.Is(err, myerrors.ErrNotFound):
		JsonError(w, http.StatusNotFound, myerrors.ErrNotFound)
	case errors.Is(err, myerrors.ErrInvalidPage):
		JsonError(w, http.StatusNotFound, myerrors.ErrInvalidPage)
	case errors.Is(err, myerrors.ErrInvalidCredentials):
		JsonError(w, http.StatusUnauthorized, myerrors.ErrInvalidCredentials)
	case errors.Is(err, myerrors.ErrUnauthorized):
		JsonError(w, http.StatusUnauthorized, myerrors.ErrUnauthorized)
	case errors.Is(err, myerrors.ErrForbidden):
		JsonError(w, http.StatusForbidden, myerrors.ErrForbidden)
	case errors.Is(err, myerrors.ErrDBConnClosed):
		log.Error("database unavailable", err)
		JsonError(w, http.StatusServiceUnavailable, myerrors.ErrDBConnClosedMsg)
	default:
		log.Error("request failed", err)
		JsonError(w, http.StatusInternalServerError, myerrors.ErrDBConnClosedMsg)
	}
}

// decodeJSON decodes one JSON body and rejects unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return myerrors.FieldError(myerrors.NonFieldErrors, ErrInvalidJSON.Error()+": "+err.Error())
	}
	return nil
}
