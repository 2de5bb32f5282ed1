package main

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"net/http"
	"os"

	"github.com/Shimmur/loggen/audit"
	"github.com/Shimmur/loggen/generator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const (
	megabyte = 1024 * 1024

	// Largest MB size that still fits in a uint64 byte count
	maxSizeMB = math.MaxUint64 / megabyte
)

//go:embed index.html
var indexPage []byte

// StartRequest is the body of POST /api/start. TotalBytes and FileMaxBytes
// override the MB sizes when set.
type StartRequest struct {
	NumServices   int    `json:"num_services"`
	TotalSizeMB   uint64 `json:"total_size_mb"`
	FileMaxSizeMB uint64 `json:"file_max_size_mb"`
	TotalBytes    uint64 `json:"total_bytes,omitempty"`
	FileMaxBytes  uint64 `json:"file_max_bytes,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Server is the HTTP control plane for the Engine
type Server struct {
	Engine      *generator.Engine
	Auditor     *audit.Auditor
	OutputDir   string
	MaxServices int
	Gatherer    prometheus.Gatherer
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.indexHandler)
	mux.HandleFunc("POST /api/start", s.startHandler)
	mux.HandleFunc("POST /api/stop", s.stopHandler)
	mux.HandleFunc("GET /api/progress", s.progressHandler)
	mux.HandleFunc("GET /api/audit", s.auditHandler)

	gatherer := s.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return mux
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warnf("Unable to write response: %s", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexPage)
}

// params turns a request into run parameters, or an error message for the
// caller.
func (s *Server) params(req *StartRequest) (generator.Params, string) {
	maxServices := s.MaxServices
	if maxServices < 1 {
		maxServices = 1000
	}

	if req.NumServices < 1 || req.NumServices > maxServices {
		return generator.Params{}, fmt.Sprintf("Number of services must be between 1 and %d", maxServices)
	}

	if req.TotalSizeMB > maxSizeMB || req.FileMaxSizeMB > maxSizeMB {
		return generator.Params{}, fmt.Sprintf("Sizes must be at most %d MB", uint64(maxSizeMB))
	}

	targetBytes := req.TotalBytes
	if targetBytes == 0 {
		targetBytes = req.TotalSizeMB * megabyte
	}
	if targetBytes == 0 {
		return generator.Params{}, "Total size must be greater than 0"
	}

	fileMaxBytes := req.FileMaxBytes
	if fileMaxBytes == 0 {
		fileMaxBytes = req.FileMaxSizeMB * megabyte
	}
	if fileMaxBytes == 0 {
		return generator.Params{}, "File max size must be greater than 0"
	}

	return generator.Params{
		NumServices:  req.NumServices,
		TargetBytes:  targetBytes,
		FileMaxBytes: fileMaxBytes,
		OutputRoot:   s.OutputDir,
		ServiceNames: generator.ServiceNames(req.NumServices),
	}, ""
}

func (s *Server) startHandler(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %s", err))
		return
	}

	params, msg := s.params(&req)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	run, err := s.Engine.Start(params)
	switch {
	case errors.Is(err, generator.ErrAlreadyRunning):
		writeError(w, http.StatusConflict, "Generation is already running. Stop it first.")
		return
	case errors.Is(err, generator.ErrInvalidParams):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	go func() {
		if err := run.Wait(); err != nil {
			log.Warnf("Run finished with failures, first was: %s", err)
		}
	}()

	var message string
	if req.TotalBytes > 0 {
		message = fmt.Sprintf("Started generating %d bytes of logs across %d services",
			params.TargetBytes, params.NumServices)
	} else {
		message = fmt.Sprintf("Started generating %d MB of logs across %d services",
			req.TotalSizeMB, params.NumServices)
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: message})
}

func (s *Server) stopHandler(w http.ResponseWriter, r *http.Request) {
	s.Engine.RequestCancel()
	writeJSON(w, http.StatusOK, MessageResponse{
		Message: "Stop signal sent. Generation will halt shortly.",
	})
}

func (s *Server) progressHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Engine.Snapshot())
}

func (s *Server) auditHandler(w http.ResponseWriter, r *http.Request) {
	_, err := os.Stat(s.OutputDir)
	if errors.Is(err, fs.ErrNotExist) {
		// Nothing generated yet
		writeJSON(w, http.StatusOK, &audit.Report{Services: []audit.ServiceReport{}})
		return
	}

	report, err := s.Auditor.Audit()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}
