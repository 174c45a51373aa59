package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mdlayher/eui64calc/eui64"
)

// maxBodySize bounds request bodies; valid inputs are far smaller.
const maxBodySize = 4 << 10

// kindBadRequest reports a request which could not be decoded at all.
const kindBadRequest = "bad_request"

// A response is the JSON body of every API response.
type response struct {
	OK          bool     `json:"ok"`
	InterfaceID string   `json:"interface_id,omitempty"`
	FullIP      string   `json:"full_ip,omitempty"`
	Error       *failure `json:"error,omitempty"`
}

// A failure is the JSON form of an eui64.Failure.
type failure struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func newFailure(f *eui64.Failure) *failure {
	if f == nil {
		return nil
	}

	return &failure{Kind: f.Kind.String(), Message: f.Message}
}

// A calculateRequest is the JSON body accepted by POST /calculate.
type calculateRequest struct {
	MAC    string `json:"mac"`
	Prefix string `json:"prefix"`
}

// calculate handles POST /calculate with either a JSON or form body. An empty
// prefix produces only the interface identifier.
func (s *Server) calculate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCalculate(w, r)
	if err != nil {
		f := &failure{Kind: kindBadRequest, Message: err.Error()}
		s.metrics.rejected(f)
		writeJSON(w, http.StatusBadRequest, response{Error: f})
		return
	}

	var o eui64.Outcome
	if req.Prefix == "" {
		o = s.cfg.Calculator.InterfaceOutcome(req.MAC)
	} else {
		o = s.cfg.Calculator.Outcome(req.MAC, req.Prefix)
	}

	switch o := o.(type) {
	case eui64.Success:
		s.metrics.calculated(nil)
		writeJSON(w, http.StatusOK, response{
			OK:          true,
			InterfaceID: o.InterfaceID,
			FullIP:      o.FullIP,
		})
	case eui64.Failure:
		f := newFailure(&o)
		s.metrics.calculated(f)
		writeJSON(w, http.StatusUnprocessableEntity, response{Error: f})
	default:
		panicf("server: unhandled outcome %T", o)
	}
}

func decodeCalculate(w http.ResponseWriter, r *http.Request) (calculateRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		var req calculateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return calculateRequest{}, errors.New("empty JSON body")
			}
			return calculateRequest{}, fmt.Errorf("invalid JSON body: %v", err)
		}

		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return calculateRequest{}, fmt.Errorf("invalid form body: %v", err)
	}

	// Field names match the calculator's HTML form.
	return calculateRequest{
		MAC:    r.PostForm.Get("mac"),
		Prefix: r.PostForm.Get("ip-start"),
	}, nil
}

// validate handles GET /validate/{mac,prefix}?value=.
func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	value := r.URL.Query().Get("value")

	var err error
	switch what := mux.Vars(r)["what"]; what {
	case "mac":
		err = s.cfg.Calculator.ValidateMAC(value)
	case "prefix":
		err = s.cfg.Calculator.ValidateIPv6Prefix(value)
	default:
		panicf("server: unhandled validation %q", what)
	}

	if f := newFailure(eui64.NewFailure(err)); f != nil {
		s.metrics.rejected(f)
		writeJSON(w, http.StatusUnprocessableEntity, response{Error: f})
		return
	}

	writeJSON(w, http.StatusOK, response{OK: true})
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func panicf(format string, a ...any) {
	panic(fmt.Sprintf(format, a...))
}
