package veracity

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// maxRequestBody caps the size of an analysis request.
const maxRequestBody = 1 << 20

// Analyzer is what the HTTP handler needs from a Service.
type Analyzer interface {
	ClassifyValue(v interface{}) (Analysis, error)
	Status() ServiceStatus
}

// AnalyzeResponse is the body of every /analyze_comment reply. Error is null
// on success and the other fields are omitted on failure.
type AnalyzeResponse struct {
	Verdict    string   `json:"verdict,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Sentiment  string   `json:"sentiment,omitempty"`
	Error      *string  `json:"error"`
}

// StatusResponse is the body of /status.
type StatusResponse struct {
	ModelLoaded bool   `json:"model_loaded"`
	Artifact    string `json:"artifact"`
	Detail      string `json:"detail"`
	Vocabulary  int    `json:"vocabulary"`
}

// User-facing error messages.
const (
	msgUnavailable = "Analysis model is currently unavailable. Please check server status or try again later."
	msgNotJSON     = "Request must be JSON"
	msgBadJSON     = "Request body is not valid JSON"
	msgEmptyText   = "Comment text is missing or empty"
	msgInternal    = "An internal error occurred during analysis."
)

type handler struct {
	analyzer Analyzer
	log      *logrus.Entry
	mux      *http.ServeMux
}

// NewHandler returns the HTTP boundary for an Analyzer.
func NewHandler(analyzer Analyzer, log *logrus.Entry) http.Handler {
	if log == nil {
		log = discardLogger()
	}
	h := &handler{analyzer: analyzer, log: log, mux: http.NewServeMux()}
	h.mux.HandleFunc("/analyze_comment", h.handleAnalyze)
	h.mux.HandleFunc("/status", h.handleStatus)
	return h.mux
}

func (h *handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		jsonResponse(w, http.StatusMethodNotAllowed, errorBody("Method not allowed"))
		return
	}
	log := h.log.WithField("request_id", uuid.NewString())

	if !h.analyzer.Status().Ready {
		log.Warn("analysis requested but the model is unavailable")
		jsonResponse(w, http.StatusServiceUnavailable, errorBody(msgUnavailable))
		return
	}
	if !isJSON(r.Header.Get("Content-Type")) {
		log.WithField("content_type", r.Header.Get("Content-Type")).Warn("request is not JSON")
		jsonResponse(w, http.StatusUnsupportedMediaType, errorBody(msgNotJSON))
		return
	}

	var req map[string]interface{}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		log.WithError(err).Warn("malformed request body")
		jsonResponse(w, http.StatusBadRequest, errorBody(msgBadJSON))
		return
	}

	analysis, err := h.analyzer.ClassifyValue(req["text"])
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidInput):
		log.Warn("comment text is missing or empty")
		jsonResponse(w, http.StatusBadRequest, errorBody(msgEmptyText))
		return
	case errors.Is(err, ErrUnavailable):
		jsonResponse(w, http.StatusServiceUnavailable, errorBody(msgUnavailable))
		return
	default:
		log.WithError(err).Error("analysis failed")
		jsonResponse(w, http.StatusInternalServerError, errorBody(msgInternal))
		return
	}

	log.WithFields(logrus.Fields{
		"verdict":    analysis.Verdict,
		"confidence": analysis.Confidence,
		"p_genuine":  analysis.Probabilities.Genuine(),
		"p_fake":     analysis.Probabilities.Fake(),
		"sentiment":  analysis.Sentiment.Label,
		"score":      analysis.Sentiment.Score,
	}).Info("comment analyzed")

	confidence := analysis.Confidence
	jsonResponse(w, http.StatusOK, AnalyzeResponse{
		Verdict:    analysis.Verdict.String(),
		Confidence: &confidence,
		Sentiment:  string(analysis.Sentiment.Label),
	})
}

func (h *handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		jsonResponse(w, http.StatusMethodNotAllowed, errorBody("Method not allowed"))
		return
	}
	status := h.analyzer.Status()
	jsonResponse(w, http.StatusOK, StatusResponse{
		ModelLoaded: status.Ready,
		Artifact:    status.ArtifactPath,
		Detail:      status.Detail,
		Vocabulary:  status.Vocabulary,
	})
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" ||
		(strings.HasPrefix(mediaType, "application/") && strings.HasSuffix(mediaType, "+json"))
}

func errorBody(msg string) AnalyzeResponse {
	return AnalyzeResponse{Error: &msg}
}

func jsonResponse(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
