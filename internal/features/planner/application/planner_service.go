package application

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"event-planner/backend/internal/config"
	catalogapp "event-planner/backend/internal/features/catalog/application"
	catalogdomain "event-planner/backend/internal/features/catalog/domain"
	cataloginfra "event-planner/backend/internal/features/catalog/infrastructure"
	configdomain "event-planner/backend/internal/features/config/domain"
	"event-planner/backend/internal/features/planner/domain"
	"event-planner/backend/internal/features/planner/infrastructure"
	"event-planner/backend/internal/platform/logger"
)

// PlannerService drives one session through Idle -> Generated.
type PlannerService interface {
	// CatalogStatus loads (or reuses) the configured catalog for display.
	CatalogStatus(ctx context.Context) (*catalogdomain.Catalog, error)
	// Generate validates req, runs the pipeline and stores the result for the
	// session. On any error the session state is left untouched.
	Generate(ctx context.Context, sessionID string, req domain.PlanRequest) (*domain.GeneratedPlan, error)
	// Current returns the plan held for the session, or nil when Idle.
	Current(ctx context.Context, sessionID string) (*domain.GeneratedPlan, error)
	// Export renders the held plan as a document.
	Export(ctx context.Context, sessionID string) ([]byte, error)
}

// RendererFactory builds a document renderer for the configured document text.
type RendererFactory func(cfg configdomain.DocumentConfig) infrastructure.DocumentRenderer

// PlannerDeps are the collaborators of the planner service.
type PlannerDeps struct {
	AppConfig   config.AppConfigService
	Loader      *cataloginfra.CachedLoader
	Completions infrastructure.CompletionClient
	Sessions    infrastructure.SessionStore
	Renderers   RendererFactory
	Log         *logger.Logger
	Now         func() time.Time
}

type plannerService struct {
	deps PlannerDeps
}

// NewPlannerService creates a new instance of plannerService, filling unset
// optional dependencies with defaults.
func NewPlannerService(deps PlannerDeps) PlannerService {
	if deps.Loader == nil {
		deps.Loader = cataloginfra.NewCachedLoader()
	}
	if deps.Sessions == nil {
		deps.Sessions = infrastructure.NewMemorySessionStore()
	}
	if deps.Renderers == nil {
		deps.Renderers = func(cfg configdomain.DocumentConfig) infrastructure.DocumentRenderer {
			return infrastructure.NewGodocxRenderer(cfg)
		}
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &plannerService{deps: deps}
}

func (s *plannerService) CatalogStatus(ctx context.Context) (*catalogdomain.Catalog, error) {
	appConfig, err := s.deps.AppConfig.LoadAppConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load app config: %w", err)
	}
	return s.loadCatalog(ctx, appConfig.Catalog)
}

func (s *plannerService) Generate(ctx context.Context, sessionID string, req domain.PlanRequest) (*domain.GeneratedPlan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	appConfig, err := s.deps.AppConfig.LoadAppConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load app config: %w", err)
	}

	catalog, err := s.loadCatalog(ctx, appConfig.Catalog)
	if err != nil {
		return nil, err
	}

	selector, err := catalogapp.NewSelector(appConfig.Catalog)
	if err != nil {
		return nil, err
	}
	selected, err := selector.Select(req.Goal, catalog.Products)
	if err != nil {
		return nil, err
	}

	data := RenderProducts(selected, appConfig.Catalog.WithIngredients)
	completion, err := s.deps.Completions.Complete(ctx, infrastructure.CompletionRequest{
		Model:       appConfig.ModelParams.Model,
		System:      SystemPersona,
		Prompt:      BuildPrompt(req, data),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}

	plan := &domain.GeneratedPlan{
		Goal:       req.Goal,
		Audience:   req.Audience,
		Strategy:   req.Strategy,
		Budget:     req.Budget,
		EventPlan:  completion.Text,
		TokensUsed: completion.MaxTokens,
		CreatedAt:  s.deps.Now(),
	}
	if err := s.deps.Sessions.Put(ctx, sessionID, domain.SessionState{Plan: plan}); err != nil {
		return nil, fmt.Errorf("failed to store event plan: %w", err)
	}

	s.deps.Log.Info("event plan generated",
		"session_id", sessionID,
		"products", len(selected),
		"requested_tokens", req.MaxTokens,
		"tokens_used", completion.MaxTokens,
	)
	return plan, nil
}

func (s *plannerService) Current(ctx context.Context, sessionID string) (*domain.GeneratedPlan, error) {
	state, err := s.deps.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return state.Plan, nil
}

func (s *plannerService) Export(ctx context.Context, sessionID string) ([]byte, error) {
	plan, err := s.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrNoPlan
	}
	appConfig, err := s.deps.AppConfig.LoadAppConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load app config: %w", err)
	}
	return s.deps.Renderers(appConfig.Document).Render(plan)
}

// loadCatalog reads the source for the configured strategy; brand matching
// scans a directory, fixed sampling reads a single file.
func (s *plannerService) loadCatalog(ctx context.Context, cfg configdomain.CatalogConfig) (*catalogdomain.Catalog, error) {
	var src cataloginfra.Source
	if cfg.Strategy == configdomain.StrategyFixedSample {
		path := cfg.File
		if !filepath.IsAbs(path) && cfg.Directory != "" {
			path = filepath.Join(cfg.Directory, path)
		}
		src = cataloginfra.FileSource{Path: path}
	} else {
		src = cataloginfra.DirectorySource{Dir: cfg.Directory}
	}

	catalog, cached, err := s.deps.Loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	if !cached {
		for _, w := range catalog.Warnings {
			s.deps.Log.Warn("catalog warning", "file", w.File, "reason", w.Message)
		}
		s.deps.Log.Info("catalog loaded", "source", catalog.Source, "records", catalog.Len())
	}
	if catalog.Len() == 0 {
		return catalog, &catalogdomain.CatalogError{Source: catalog.Source, Err: catalogdomain.ErrEmptyCatalog}
	}
	return catalog, nil
}
