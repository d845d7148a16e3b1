package http

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yuin/goldmark"

	"event-planner/backend/internal/config"
	catalogdomain "event-planner/backend/internal/features/catalog/domain"
	"event-planner/backend/internal/features/planner/application"
	"event-planner/backend/internal/features/planner/domain"
	"event-planner/backend/internal/features/planner/infrastructure"
	"event-planner/backend/internal/platform/logger"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	sessionCookie     = "planner_session"
	generationTimeout = 60 * time.Second
)

// PlannerHandler holds the planner service and app config service.
type PlannerHandler struct {
	plannerService   application.PlannerService
	appConfigService config.AppConfigService
	markdown         goldmark.Markdown
	sessionTTL       time.Duration
	log              *logger.Logger
}

// NewPlannerHandler creates a new PlannerHandler.
func NewPlannerHandler(plannerService application.PlannerService, appConfigService config.AppConfigService, sessionTTL time.Duration, log *logger.Logger) *PlannerHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &PlannerHandler{
		plannerService:   plannerService,
		appConfigService: appConfigService,
		markdown:         goldmark.New(),
		sessionTTL:       sessionTTL,
		log:              log,
	}
}

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templatesFS, "templates/*.html"))
}

// formValues echoes the submitted form back into the page.
type formValues struct {
	Goal        string
	Strategy    string
	Audience    string
	Budget      string
	Temperature float64
	MaxTokens   int
}

type pageData struct {
	CatalogCount    int
	CatalogError    string
	CatalogWarnings []string
	Alert           string
	Error           string
	Form            formValues
	Plan            *domain.GeneratedPlan
	PlanHTML        template.HTML
}

// IndexHandler renders the form together with the plan held for the session.
func (h *PlannerHandler) IndexHandler(c *gin.Context) {
	id := h.sessionID(c)
	h.renderPage(c, http.StatusOK, id, h.defaultForm(), "", "")
}

// SubmitFormHandler handles the HTML form submission.
func (h *PlannerHandler) SubmitFormHandler(c *gin.Context) {
	id := h.sessionID(c)

	req, form, err := h.parseForm(c)
	if err != nil {
		h.renderPage(c, http.StatusUnprocessableEntity, id, form, err.Error(), "")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), generationTimeout)
	defer cancel()
	if _, err := h.plannerService.Generate(ctx, id, req); err != nil {
		status, _ := statusFor(err)
		_ = c.Error(err)
		if status == http.StatusUnprocessableEntity {
			h.renderPage(c, status, id, form, err.Error(), "")
			return
		}
		h.renderPage(c, status, id, form, "", err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// DownloadHandler sends the held plan as a Word document.
func (h *PlannerHandler) DownloadHandler(c *gin.Context) {
	id := h.sessionID(c)
	data, err := h.plannerService.Export(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNoPlan) {
			respondError(c, http.StatusNotFound, "no_plan", err)
			return
		}
		h.log.Error("failed to export event plan", "session_id", id, "error", err)
		respondError(c, http.StatusInternalServerError, "export_failed", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+infrastructure.DocxFileName+`"`)
	c.Data(http.StatusOK, infrastructure.DocxMIMEType, data)
}

// planRequestBody is the JSON body of POST /api/plan. Omitted numeric
// parameters fall back to the configured defaults.
type planRequestBody struct {
	Goal        string   `json:"goal"`
	Strategy    string   `json:"strategy"`
	Audience    string   `json:"audience"`
	Budget      string   `json:"budget"`
	Temperature *float64 `json:"temperature"`
	MaxTokens   *int     `json:"max_tokens"`
}

// GeneratePlanHandler is the JSON variant of SubmitFormHandler.
func (h *PlannerHandler) GeneratePlanHandler(c *gin.Context) {
	var body planRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	def := h.defaultForm()
	req := domain.PlanRequest{
		Goal:        body.Goal,
		Strategy:    body.Strategy,
		Audience:    body.Audience,
		Budget:      body.Budget,
		Temperature: def.Temperature,
		MaxTokens:   def.MaxTokens,
	}
	if body.Temperature != nil {
		req.Temperature = *body.Temperature
	}
	if body.MaxTokens != nil {
		req.MaxTokens = *body.MaxTokens
	}

	id := h.sessionID(c)
	ctx, cancel := context.WithTimeout(c.Request.Context(), generationTimeout)
	defer cancel()
	plan, err := h.plannerService.Generate(ctx, id, req)
	if err != nil {
		status, code := statusFor(err)
		respondError(c, status, code, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

// GetPlanHandler returns the plan held for the session.
func (h *PlannerHandler) GetPlanHandler(c *gin.Context) {
	id := h.sessionID(c)
	plan, err := h.plannerService.Current(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "session_unavailable", err)
		return
	}
	if plan == nil {
		respondError(c, http.StatusNotFound, "no_plan", domain.ErrNoPlan)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

func (h *PlannerHandler) renderPage(c *gin.Context, status int, sessionID string, form formValues, alert, errMsg string) {
	data := pageData{Form: form, Alert: alert, Error: errMsg}

	catalog, err := h.plannerService.CatalogStatus(c.Request.Context())
	if err != nil {
		data.CatalogError = err.Error()
	}
	data.CatalogCount = catalog.Len()
	if catalog != nil {
		for _, w := range catalog.Warnings {
			data.CatalogWarnings = append(data.CatalogWarnings, w.String())
		}
	}

	plan, err := h.plannerService.Current(c.Request.Context(), sessionID)
	if err != nil {
		h.log.Error("failed to load session", "session_id", sessionID, "error", err)
	}
	if plan != nil {
		data.Plan = plan
		var buf bytes.Buffer
		if err := h.markdown.Convert([]byte(plan.EventPlan), &buf); err != nil {
			data.PlanHTML = template.HTML(template.HTMLEscapeString(plan.EventPlan))
		} else {
			data.PlanHTML = template.HTML(buf.String())
		}
	}
	c.HTML(status, "index.html", data)
}

func (h *PlannerHandler) defaultForm() formValues {
	form := formValues{Temperature: 0.5, MaxTokens: 300}
	appConfig, err := h.appConfigService.LoadAppConfig()
	if err != nil {
		h.log.Warn("failed to load app config, using form defaults", "error", err)
		return form
	}
	form.Temperature = appConfig.ModelParams.Temperature
	if appConfig.ModelParams.MaxTokens != 0 {
		form.MaxTokens = appConfig.ModelParams.MaxTokens
	}
	return form
}

func (h *PlannerHandler) parseForm(c *gin.Context) (domain.PlanRequest, formValues, error) {
	form := h.defaultForm()
	form.Goal = c.PostForm("goal")
	form.Strategy = c.PostForm("strategy")
	form.Audience = c.PostForm("audience")
	form.Budget = c.PostForm("budget")

	if v := strings.TrimSpace(c.PostForm("temperature")); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return domain.PlanRequest{}, form, &catalogdomain.ValidationError{Code: catalogdomain.CodeOutOfRange, Message: "Temperature must be a number."}
		}
		form.Temperature = t
	}
	if v := strings.TrimSpace(c.PostForm("max_tokens")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return domain.PlanRequest{}, form, &catalogdomain.ValidationError{Code: catalogdomain.CodeOutOfRange, Message: "Max tokens must be an integer."}
		}
		form.MaxTokens = n
	}

	return domain.PlanRequest{
		Goal:        form.Goal,
		Strategy:    form.Strategy,
		Audience:    form.Audience,
		Budget:      form.Budget,
		Temperature: form.Temperature,
		MaxTokens:   form.MaxTokens,
	}, form, nil
}

// sessionID returns the caller's session id, issuing a new cookie when absent.
func (h *PlannerHandler) sessionID(c *gin.Context) string {
	if id, err := c.Cookie(sessionCookie); err == nil {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, int(h.sessionTTL.Seconds()), "/", "", false, true)
	return id
}

func statusFor(err error) (int, string) {
	var v *catalogdomain.ValidationError
	if errors.As(err, &v) {
		return http.StatusUnprocessableEntity, v.Code
	}
	var catErr *catalogdomain.CatalogError
	if errors.As(err, &catErr) {
		return http.StatusInternalServerError, "catalog_unavailable"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, "generation_timeout"
	}
	if errors.Is(err, domain.ErrGenerationFailed) {
		return http.StatusBadGateway, "generation_failed"
	}
	return http.StatusInternalServerError, "internal_error"
}

type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, gin.H{"error": apiError{Message: msg, Code: code}})
}
