package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joseph-ayodele/clarify/internal/analysis"
	"github.com/joseph-ayodele/clarify/internal/common"
	"github.com/joseph-ayodele/clarify/internal/extract"
	"github.com/joseph-ayodele/clarify/internal/llm"
	"github.com/joseph-ayodele/clarify/internal/ocr"
	"github.com/joseph-ayodele/clarify/internal/pipeline"
	"github.com/joseph-ayodele/clarify/internal/server"
	"github.com/joseph-ayodele/clarify/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var jobs *store.Store
	if cfg.DB.Path != "" {
		var err error
		jobs, err = store.Open(cfg.DB.Path)
		if err != nil {
			logger.Error("opening job store", "path", cfg.DB.Path, "error", err)
			os.Exit(1)
		}
		defer jobs.Close()
	}

	client := llm.NewClient(llm.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		VisionModel: cfg.LLM.VisionModel,
		Timeout:     cfg.LLM.Timeout,
		MaxAttempts: cfg.LLM.MaxAttempts,
	}, logger)

	primary := ocr.NewVisionBackend(client, client.VisionModel(), logger)
	var secondary ocr.Backend
	if cfg.OCR.Tesseract != "" {
		secondary = ocr.NewTesseractBackend(ocr.TesseractConfig{
			Tesseract:   cfg.OCR.Tesseract,
			Pdftoppm:    cfg.OCR.Pdftoppm,
			Lang:        cfg.OCR.TesseractLang,
			TessdataDir: cfg.OCR.TessdataDir,
			DPI:         cfg.OCR.DPI,
			MaxPages:    cfg.OCR.MaxPages,
		})
	}
	chain := ocr.NewChain(primary, secondary, cfg.OCR.Timeout, logger)

	extractor := extract.NewOrchestrator(extract.Config{
		MaxFileBytes: cfg.Extract.MaxFileBytes,
	}, chain, logger)

	analyzer := analysis.NewAnalyzer(client, cfg.LLM.Temperature, logger)
	verifier := analysis.NewVerifier(client, logger)
	controller := analysis.NewController(analyzer, verifier, cfg.Analysis.MaxRetries, logger)

	proc := pipeline.NewProcessor(extractor, controller, jobs, logger)
	srv := server.New(proc, server.Config{
		MaxFileBytes:  cfg.Extract.MaxFileBytes,
		MaxConcurrent: cfg.Server.MaxConcurrent,
	}, logger)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router(),
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("stopped")
}
