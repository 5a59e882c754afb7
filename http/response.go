package http

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/mycobrun/geoengine/errors"
	"github.com/mycobrun/geoengine/logging"
)

// Response is a standard API response wrapper.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta contains response metadata.
type Meta struct {
	Total    int    `json:"total,omitempty"`
	Returned int    `json:"returned,omitempty"`
	Partial  int    `json:"partial,omitempty"`
	Source   string `json:"source,omitempty"`
}

// JSON sends a JSON response.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	if data == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		return
	}

	body, err := json.Marshal(data)
	if err != nil {
		apperrors.WriteErrorWithStatus(w, http.StatusInternalServerError,
			apperrors.CodeInternal, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// OK sends a 200 OK response with data.
func OK(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// OKWithMeta sends a 200 OK response with data and metadata.
func OKWithMeta(w http.ResponseWriter, data interface{}, meta *Meta) {
	JSON(w, http.StatusOK, Response{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// Error writes err through the application error renderer, logging server
// side failures with the request's logger.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	logger := logging.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			"path", r.URL.Path,
			"status", status,
			"code", apperrors.Code(err),
			"error", err.Error())
	} else {
		logger.Debug("request rejected",
			"path", r.URL.Path,
			"status", status,
			"error", err.Error())
	}
	apperrors.WriteError(w, err, logging.TraceIDFromContext(r.Context()))
}
