// @title           Site Analyzer API
// @version         0.9.0
// @description     Collects public metadata about a website (WHOIS, technology stack, first-seen date, SEO, DNS, hosting) and renders it as a PDF report.

// @contact.name   API Support
// @contact.email  info@bentech.app

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /
// @schemes   http https
package main

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/vit0-9/site_analyzer/docs"
	"github.com/vit0-9/site_analyzer/handlers"
	"github.com/vit0-9/site_analyzer/pkg/logger"
	"github.com/vit0-9/site_analyzer/pkg/report"
)

// AppVersion is shown on the front page and in the health check.
const AppVersion = "0.9.0"

//go:embed templates/*.html
var templatesFS embed.FS

// App encapsulates all the components of the application
type App struct {
	Router              *gin.Engine
	AnalysisHandlers    *handlers.AnalysisHandlers
	NetIntelHandlers    *handlers.NetworkIntelligenceHandlers
	WebAnalysisHandlers *handlers.WebAnalysisHandlers
	HealthHandler       *handlers.HealthHandler
	PageHandler         *handlers.PageHandler
}

// NewApp creates and initializes a new application instance
func NewApp(lookups report.Lookups) (*App, error) {
	analyzer := report.NewAnalyzer(lookups)

	router := gin.New()
	router.Use(gin.Recovery(), handlers.RequestLogger())
	if err := router.SetTrustedProxies(nil); err != nil {
		logger.Log.Warn().Err(err).Msg("could not reset trusted proxies")
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	docs.SwaggerInfo.Version = AppVersion

	app := &App{
		Router:              router,
		AnalysisHandlers:    handlers.NewAnalysisHandlers(analyzer, report.NewRenderer()),
		NetIntelHandlers:    handlers.NewNetworkIntelligenceHandlers(analyzer),
		WebAnalysisHandlers: handlers.NewWebAnalysisHandlers(analyzer),
		HealthHandler:       handlers.NewHealthHandler(AppVersion),
		PageHandler:         handlers.NewPageHandler(AppVersion),
	}

	app.setupRoutes()
	return app, nil
}

// setupRoutes defines all the application routes
func (app *App) setupRoutes() {
	app.Router.GET("/", app.PageHandler.IndexHandler)
	app.Router.POST("/analyze", app.AnalysisHandlers.AnalyzeHandler)
	app.Router.POST("/download_pdf", app.AnalysisHandlers.DownloadPDFHandler)

	app.Router.GET("/api/v1/health", app.HealthHandler.HealthCheckHandler)

	netIntelV1 := app.Router.Group("/api/v1/net")
	{
		netIntelV1.GET("/whois", app.NetIntelHandlers.WhoisLookupHandler)
		netIntelV1.GET("/dns", app.NetIntelHandlers.DNSLookupHandler)
		netIntelV1.GET("/server-info", app.NetIntelHandlers.ServerInfoHandler)
	}

	webAnalysisV1 := app.Router.Group("/api/v1/web")
	{
		webAnalysisV1.GET("/tech-stack", app.WebAnalysisHandlers.StackAnalyzerHandler)
		webAnalysisV1.GET("/seo", app.WebAnalysisHandlers.SEOHandler)
		webAnalysisV1.GET("/wayback", app.WebAnalysisHandlers.WaybackHandler)
	}

	app.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	app.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))
}

// Start runs the Gin HTTP server
func (app *App) Start(addr string) error {
	logger.Log.Info().Str("addr", addr).Msg("API server starting")
	return app.Router.Run(addr)
}
