package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/assist"
	"resume-builder/internal/llm"
	"resume-builder/internal/llm/gemini"
	"resume-builder/internal/llm/openai"
	"resume-builder/internal/printer"
	"resume-builder/internal/render"
	"resume-builder/internal/resumes"
	"resume-builder/internal/services/health"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/telemetry"
)

// Deps carries the wired dependencies for route registration. Tests inject
// fakes here instead of going through environment-driven construction.
type Deps struct {
	Repo     resumes.Repo
	Gateway  llm.Gateway
	Renderer resumes.Renderer
	Printer  resumes.Printer
	Health   *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	return NewRouterWith(cfg, Deps{
		Repo:     resumes.NewMemoryRepo(),
		Gateway:  buildGateway(cfg),
		Renderer: render.NewRenderer(),
		Printer:  printer.NewChromePrinter(cfg.ChromePath),
		Health:   health.NewService(cfg.LLMProvider),
	})
}

// NewRouterWith assembles the engine from pre-built dependencies.
func NewRouterWith(cfg config.Config, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	assistSvc := assist.NewService(deps.Gateway)
	resumeSvc := &resumes.Service{Repo: deps.Repo, Assist: assistSvc}
	resumeHandler := resumes.NewHandler(resumeSvc, deps.Renderer, deps.Printer)

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, deps.Health.Status())
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.Use(middleware.Session())
	resumeHandler.RegisterRoutes(api)

	return r
}

// buildGateway picks the AI backend from configuration. A provider that is
// named but missing its key degrades to the placeholder so the editor keeps
// working without assistance.
func buildGateway(cfg config.Config) llm.Gateway {
	switch cfg.LLMProvider {
	case "openai":
		client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel)
		if err != nil {
			telemetry.Warn("llm.gateway.fallback", map[string]any{"provider": "openai", "error": err.Error()})
			return llm.PlaceholderGateway{}
		}
		return client
	case "gemini":
		client, err := gemini.NewClient(context.Background(), cfg.GeminiAPIKey, cfg.LLMModel)
		if err != nil {
			telemetry.Warn("llm.gateway.fallback", map[string]any{"provider": "gemini", "error": err.Error()})
			return llm.PlaceholderGateway{}
		}
		return client
	default:
		return llm.PlaceholderGateway{}
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
