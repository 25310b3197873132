// Command clarify is a one-shot utility: extract text from a file, or
// run the full clause-explanation pipeline, and print the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/clarify/internal/analysis"
	"github.com/joseph-ayodele/clarify/internal/common"
	"github.com/joseph-ayodele/clarify/internal/extract"
	"github.com/joseph-ayodele/clarify/internal/llm"
	"github.com/joseph-ayodele/clarify/internal/ocr"
	"github.com/joseph-ayodele/clarify/internal/pipeline"
)

func main() {
	var (
		file     = flag.String("file", "", "path to the document to process")
		explain  = flag.Bool("explain", false, "run the full clause-explanation pipeline")
		role     = flag.String("role", "", "reader role for explanations (e.g. tenant)")
		language = flag.String("language", "", "explanation language (default English)")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: clarify -file <path> [-explain] [-role ...] [-language ...]")
		os.Exit(2)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		fatal(err)
	}
	doc := extract.UploadedDocument{Filename: filepath.Base(*file), Data: data}

	cfg := common.LoadConfig()
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
	extractor := extract.NewOrchestrator(extract.Config{MaxFileBytes: cfg.Extract.MaxFileBytes}, chain, logger)

	ctx := context.Background()

	if !*explain {
		res, err := extractor.Extract(ctx, doc)
		if err != nil {
			fatal(err)
		}
		print(map[string]any{
			"text": res.Text,
			"metadata": map[string]any{
				"extraction_method": res.Method,
				"confidence":        res.Confidence,
				"pages":             res.Pages,
				"file_size":         doc.Size(),
			},
		})
		return
	}

	analyzer := analysis.NewAnalyzer(client, cfg.LLM.Temperature, logger)
	verifier := analysis.NewVerifier(client, logger)
	controller := analysis.NewController(analyzer, verifier, cfg.Analysis.MaxRetries, logger)
	proc := pipeline.NewProcessor(extractor, controller, nil, logger)

	out, err := proc.Explain(ctx, doc, *role, *language)
	if err != nil {
		fatal(err)
	}
	print(map[string]any{
		"verified": out.Outcome.Verified,
		"attempts": out.Outcome.Attempts,
		"clauses":  out.Outcome.Explanations,
	})
}

func print(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "clarify:", err)
	os.Exit(1)
}
