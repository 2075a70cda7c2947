package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appideas "github.com/ideavalidator/sanity-api/internal/application/ideas"
	"github.com/ideavalidator/sanity-api/internal/domain/analysis"
	"github.com/ideavalidator/sanity-api/internal/domain/idea"
	"github.com/ideavalidator/sanity-api/internal/middleware"
	"github.com/ideavalidator/sanity-api/internal/report"
)

// Exporter uploads a serialized report and returns its URL.
type Exporter interface {
	PutReport(ctx context.Context, key string, payload []byte) (string, error)
}

var (
	errBadRequest     = errors.New("bad request")
	errExportDisabled = errors.New("report export storage not configured")
)

type Router struct {
	svc      *appideas.Service
	exporter Exporter // nil when export storage is not configured
}

func NewRouter(svc *appideas.Service, exporter Exporter, checkers map[string]middleware.HealthChecker) http.Handler {
	r := &Router{svc: svc, exporter: exporter}
	mux := chi.NewRouter()

	// consumers are browsers; keep CORS wide open like the rest of the API
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	mux.Use(middleware.CountRequests)

	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1/{user}", func(rt chi.Router) {
		rt.Post("/ideas/analyze", r.wrap(r.handleAnalyze))
		rt.Get("/ideas/history", r.wrap(r.handleHistory))
		rt.Get("/ideas/remote", r.wrap(r.handleRemoteHistory))
		rt.Delete("/ideas/{id}", r.wrap(r.handleDelete))
		rt.Get("/ideas/{id}/report", r.wrap(r.handleReport))
		rt.Post("/ideas/{id}/export", r.wrap(r.handleExport))

		rt.Post("/drafts", r.wrap(r.handleDraftCreate))
		rt.Get("/drafts/{draftID}", r.wrap(r.handleDraftGet))
		rt.Patch("/drafts/{draftID}", r.wrap(r.handleDraftPatch))
		rt.Post("/drafts/{draftID}/advance", r.wrap(r.handleDraftAdvance))
		rt.Post("/drafts/{draftID}/retreat", r.wrap(r.handleDraftRetreat))
		rt.Post("/drafts/{draftID}/submit", r.wrap(r.handleDraftSubmit))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			switch {
			case errors.Is(err, appideas.ErrDraftNotFound),
				errors.Is(err, appideas.ErrResultNotFound):
				http.Error(w, err.Error(), http.StatusNotFound)
			case errors.Is(err, errBadRequest),
				errors.Is(err, idea.ErrFormIncomplete),
				errors.Is(err, idea.ErrStepIncomplete),
				errors.Is(err, idea.ErrLastStep),
				errors.Is(err, idea.ErrUnknownStage):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, errExportDisabled),
				errors.Is(err, appideas.ErrRemoteDisabled):
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func userParam(req *http.Request) (string, error) {
	user := chi.URLParam(req, "user")
	if err := middleware.ValidateUserID(user); err != nil {
		return "", fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return user, nil
}

func idParam(req *http.Request) (analysis.ID, error) {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAnalysisID(id); err != nil {
		return "", fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return analysis.ID(id), nil
}

// POST /v1/{user}/ideas/analyze
// Body: a complete questionnaire. Responds with the stored result; on AI
// failure the sample fallback is returned with demo=true, never an error.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	user, err := userParam(req)
	if err != nil {
		return err
	}

	form := idea.NewFormData()
	if err := json.NewDecoder(req.Body).Decode(&form); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	out, err := r.svc.Analyze(req.Context(), user, form)
	if err != nil {
		return err
	}
	middleware.IncrementAnalyses()
	if out.Demo {
		middleware.IncrementFallbacks()
	}
	return writeJSON(w, http.StatusOK, out)
}

// GET /v1/{user}/ideas/history
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	user, err := userParam(req)
	if err != nil {
		return err
	}
	list, err := r.svc.HistoryList(user)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/{user}/ideas/remote?page=1&pageSize=20
// Pages through the remote collection, which outlives the bounded local
// history. 503 when no database is configured.
func (r *Router) handleRemoteHistory(w http.ResponseWriter, req *http.Request) error {
	user, err := userParam(req)
	if err != nil {
		return err
	}
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(req.URL.Query().Get("pageSize"))

	list, err := r.svc.RemoteHistory(req.Context(), user, page, pageSize)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*analysis.Result{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// DELETE /v1/{user}/ideas/{id}
func (r *Router) handleDelete(w http.ResponseWriter, req *http.Request) error {
	user, err := userParam(req)
	if err != nil {
		return err
	}
	id, err := idParam(req)
	if err != nil {
		return err
	}

	out, err := r.svc.Delete(req.Context(), user, id)
	if err != nil {
		return err
	}
	middleware.IncrementDeletes()
	return writeJSON(w, http.StatusOK, out)
}

// GET /v1/{user}/ideas/{id}/report
func (r *Router) handleReport(w http.ResponseWriter, req *http.Request) error {
	user, err := userParam(req)
	if err != nil {
		return err
	}
	id, err := idParam(req)
	if err != nil {
		return err
	}

	result, err := r.svc.Get(user, id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, report.Build(result))
}

// POST /v1/{user}/ideas/{id}/export
func (r *Router) handleExport(w http.ResponseWriter, req *http.Request) error {
	user, err := userParam(req)
	if err != nil {
		return err
	}
	id, err := idParam(req)
	if err != nil {
		return err
	}
	if r.exporter == nil {
		return errExportDisabled
	}

	result, err := r.svc.Get(user, id)
	if err != nil {
		return err
	}
	rep := report.Build(result)
	payload, err := json.Marshal(struct {
		report.Report
		Text string `json:"text"`
	}{Report: rep, Text: rep.Text()})
	if err != nil {
		return err
	}

	key := fmt.Sprintf("%s/%s.json", user, id)
	url, err := r.exporter.PutReport(req.Context(), key, payload)
	if err != nil {
		return err
	}
	middleware.IncrementExports()
	return writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// POST /v1/{user}/drafts
func (r *Router) handleDraftCreate(w http.ResponseWriter, req *http.Request) error {
	if _, err := userParam(req); err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, r.svc.CreateDraft())
}

// GET /v1/{user}/drafts/{draftID}
func (r *Router) handleDraftGet(w http.ResponseWriter, req *http.Request) error {
	if _, err := userParam(req); err != nil {
		return err
	}
	v, err := r.svc.Draft(chi.URLParam(req, "draftID"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, v)
}

// PATCH /v1/{user}/drafts/{draftID}
func (r *Router) handleDraftPatch(w http.ResponseWriter, req *http.Request) error {
	if _, err := userParam(req); err != nil {
		return err
	}
	var p idea.Patch
	if err := json.NewDecoder(req.Body).Decode(&p); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	v, err := r.svc.PatchDraft(chi.URLParam(req, "draftID"), p)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, v)
}

// POST /v1/{user}/drafts/{draftID}/advance
func (r *Router) handleDraftAdvance(w http.ResponseWriter, req *http.Request) error {
	if _, err := userParam(req); err != nil {
		return err
	}
	v, err := r.svc.AdvanceDraft(chi.URLParam(req, "draftID"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, v)
}

// POST /v1/{user}/drafts/{draftID}/retreat
func (r *Router) handleDraftRetreat(w http.ResponseWriter, req *http.Request) error {
	if _, err := userParam(req); err != nil {
		return err
	}
	v, err := r.svc.RetreatDraft(chi.URLParam(req, "draftID"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, v)
}

// POST /v1/{user}/drafts/{draftID}/submit
func (r *Router) handleDraftSubmit(w http.ResponseWriter, req *http.Request) error {
	user, err := userParam(req)
	if err != nil {
		return err
	}
	out, err := r.svc.SubmitDraft(req.Context(), user, chi.URLParam(req, "draftID"))
	if err != nil {
		return err
	}
	middleware.IncrementAnalyses()
	if out.Demo {
		middleware.IncrementFallbacks()
	}
	return writeJSON(w, http.StatusOK, out)
}
