package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/prjrating/sellerrating/pkg/httputil"
	"github.com/prjrating/sellerrating/pkg/validator"
)

const maxBodyBytes = 1 << 20

// decodeBody decodes and validates a JSON body into dst. On failure it writes
// a 400 and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := validator.DecodeAndValidate(r, dst); err != nil {
		httputil.WriteValidationError(w, r, err)
		return false
	}
	return true
}

// pathID reads a UUID path parameter, writing a 400 when it is malformed.
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	return httputil.ParseUUID(w, r, chi.URLParam(r, name))
}

func writeInvalidParam(w http.ResponseWriter, r *http.Request, name string) {
	httputil.WriteErrorCode(w, r, http.StatusBadRequest, "INVALID_PARAMETER", "invalid value for "+name)
}

// queryInt returns nil when the parameter is absent.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeInvalidParam(w, r, name)
		return nil, false
	}
	return &v, true
}

func queryFloat(w http.ResponseWriter, r *http.Request, name string) (*float64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		writeInvalidParam(w, r, name)
		return nil, false
	}
	return &v, true
}

func queryBool(w http.ResponseWriter, r *http.Request, name string) (bool, bool) {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	if err != nil {
		writeInvalidParam(w, r, name)
		return false, false
	}
	return v, true
}
