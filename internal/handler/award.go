package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dukerupert/ouenpt/internal/store"
)

// Regenerator rebuilds the ranking pages from the current log.
type Regenerator interface {
	Run()
}

// Scheduler arms the delayed chat announcement for one award.
type Scheduler interface {
	Schedule(name string, points int)
}

// AwardHandler is the ingestion endpoint: it validates a submission, appends
// it durably, kicks off regeneration, and schedules the notification.
type AwardHandler struct {
	log    *store.EventLogStore
	regen  Regenerator
	notify Scheduler
	logger *slog.Logger
}

func NewAwardHandler(log *store.EventLogStore, regen Regenerator, notify Scheduler, logger *slog.Logger) *AwardHandler {
	return &AwardHandler{log: log, regen: regen, notify: notify, logger: logger}
}

// Add handles POST /add. The body is JSON or form-encoded depending on
// Content-Type; pt may arrive as a number or a numeric string.
func (h *AwardHandler) Add(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "unreadable body", http.StatusBadRequest)
		return
	}

	var name string
	var points int
	if strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		name, points, err = parseJSONBody(body)
	} else {
		name, points, err = parseFormBody(body)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ev, err := h.log.Append(name, points)
	if err != nil {
		// Confirming an award that was never written would be worse
		// than failing the request.
		h.logger.Error("append award", "name", name, "pt", points, "error", err)
		http.Error(w, "failed to record points", http.StatusInternalServerError)
		return
	}

	// Best-effort from here on: the award is durable, the client gets its
	// confirmation no matter what the pipeline does.
	h.regen.Run()
	h.notify.Schedule(ev.Name, ev.Points)

	h.logger.Info("award recorded", "name", ev.Name, "pt", ev.Points)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"name":   ev.Name,
		"pt":     ev.Points,
	})
}

func parseJSONBody(body []byte) (string, int, error) {
	var req struct {
		Name string `json:"name"`
		Pt   any    `json:"pt"`
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return "", 0, errInvalidBody
	}
	return validate(req.Name, req.Pt)
}

func parseFormBody(body []byte) (string, int, error) {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return "", 0, errInvalidBody
	}
	return validate(values.Get("name"), values.Get("pt"))
}

type validationError string

func (e validationError) Error() string { return string(e) }

const (
	errInvalidBody   = validationError("invalid request body")
	errEmptyName     = validationError("name is required")
	errInvalidPoints = validationError("pt must be a positive integer")
)

// validate trims the name and coerces pt from whatever shape it arrived in.
func validate(name string, pt any) (string, int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", 0, errEmptyName
	}

	var points int
	switch v := pt.(type) {
	case json.Number:
		n, err := strconv.Atoi(v.String())
		if err != nil {
			return "", 0, errInvalidPoints
		}
		points = n
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return "", 0, errInvalidPoints
		}
		points = n
	default:
		return "", 0, errInvalidPoints
	}

	if points <= 0 {
		return "", 0, errInvalidPoints
	}
	return name, points, nil
}

// writeJSON ignores encode errors: the client may already be gone, and a
// failed response write must not crash the pipeline.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
