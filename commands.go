package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/vit0-9/site_analyzer/config"
	"github.com/vit0-9/site_analyzer/models"
	"github.com/vit0-9/site_analyzer/pkg/logger"
	"github.com/vit0-9/site_analyzer/pkg/report"
	"github.com/vit0-9/site_analyzer/pkg/utils"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "site-analyzer",
		Short:         "Collect public metadata about a website and render it as a report",
		Version:       AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfg)
		},
	}
	root.AddCommand(newServeCmd(cfg), newAnalyzeCmd(cfg))
	return root
}

func newServeCmd(cfg *config.Config) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and web page",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				cfg.Port = port
			}
			return runServe(cfg)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	return cmd
}

func newAnalyzeCmd(cfg *config.Config) *cobra.Command {
	var pdfPath string
	var quiet bool
	cmd := &cobra.Command{
		Use:   "analyze <url>",
		Short: "Analyze one website and print the JSON report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			geo, closeGeo := openGeoLocator(cfg)
			defer closeGeo()

			analyzer := report.NewAnalyzer(report.NewLiveLookups(cfg.Lookup, geo))
			rep := analyzer.Analyze(cmd.Context(), args[0])

			out := cmd.OutOrStdout()
			if !quiet {
				printSummary(rep)
			}
			data, err := json.MarshalIndent(rep, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding report: %w", err)
			}
			fmt.Fprintln(out, string(data))

			if pdfPath == "" {
				return nil
			}
			pdf, err := report.NewRenderer().Render(rep)
			if err != nil {
				return fmt.Errorf("rendering PDF: %w", err)
			}
			if err := os.WriteFile(pdfPath, pdf, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", pdfPath, err)
			}
			color.New(color.FgGreen).Fprintf(os.Stderr, "PDF written to %s\n", pdfPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "also write the report as a PDF to this file")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the JSON report")
	return cmd
}

func runServe(cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	} else if !logger.IsDev(cfg.Env) {
		gin.SetMode(gin.ReleaseMode)
	}

	geo, closeGeo := openGeoLocator(cfg)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		logger.Log.Info().Msg("shutting down server")
		closeGeo()
		os.Exit(0)
	}()

	app, err := NewApp(report.NewLiveLookups(cfg.Lookup, geo))
	if err != nil {
		closeGeo()
		return fmt.Errorf("initializing application: %w", err)
	}
	if err := app.Start(":" + cfg.Port); err != nil {
		closeGeo()
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}

// openGeoLocator returns the MaxMind provider when configured and loadable.
// A nil locator makes the lookups use the HTTP geolocation API.
func openGeoLocator(cfg *config.Config) (utils.GeoLocator, func()) {
	if cfg.GeoProvider != utils.GeoProviderMaxMind {
		return nil, func() {}
	}
	db, err := utils.OpenGeoDB(cfg.MMDBCityPath, cfg.MMDBASNPath)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("MaxMind databases unavailable, falling back to the IP info API")
		return nil, func() {}
	}
	return db, db.Close
}

// printSummary writes a colored per-section status overview to stderr.
func printSummary(rep models.Report) {
	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	status := func(err error) string {
		if err != nil {
			return bad("✗ " + err.Error())
		}
		return ok("✓")
	}

	w := os.Stderr
	fmt.Fprintf(w, "%s %s (%s)\n", bold("Report for"), rep.URL, time.Now().Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "  %-16s %s\n", "WHOIS", status(rep.DomainInfo.Err))
	fmt.Fprintf(w, "  %-16s %s\n", "Technology", status(rep.TechStack.Err))
	fmt.Fprintf(w, "  %-16s %s\n", "First seen", status(rep.ExistenceDate.Err))
	fmt.Fprintf(w, "  %-16s %s\n", "SEO", status(rep.SEOInfo.Err))
	fmt.Fprintf(w, "  %-16s %s\n", "DNS", status(rep.DNSInfo.Err))
	fmt.Fprintf(w, "  %-16s %s\n", "Server", status(rep.ServerInfo.Err))
}
