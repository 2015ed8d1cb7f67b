package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	formvalid "github.com/goliatone/go-formvalid"
	"github.com/goliatone/go-formvalid/pkg/config"
	"github.com/goliatone/go-formvalid/pkg/engine"
	pkgopenapi "github.com/goliatone/go-formvalid/pkg/openapi"
	"github.com/goliatone/go-formvalid/pkg/report"
)

func main() {
	configPath := flag.String("config", "", "field configuration document (YAML/JSON)")
	openapiSource := flag.String("openapi", "", "OpenAPI document path or URL (alternative to -config)")
	operation := flag.String("operation", "", "operation ID when using -openapi")
	dataPath := flag.String("data", "", "form data file (JSON object)")
	format := flag.String("format", "text", "output format: text, json, html")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	ctx := context.Background()

	eng := formvalid.New()
	if err := configure(ctx, eng, *configPath, *openapiSource, *operation); err != nil {
		log.Fatalf("Failed to configure fields: %v", err)
	}

	form, err := loadFormData(*dataPath)
	if err != nil {
		log.Fatalf("Failed to load form data: %v", err)
	}

	result := eng.ValidateForm(form)

	rendered, err := render(result, *format)
	if err != nil {
		log.Fatalf("Failed to render result: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, rendered, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
	} else {
		fmt.Print(string(rendered))
	}

	if !result.Valid {
		os.Exit(1)
	}
}

func configure(ctx context.Context, eng *engine.Engine, configPath, openapiSource, operation string) error {
	switch {
	case configPath != "" && openapiSource != "":
		return fmt.Errorf("use either -config or -openapi, not both")
	case configPath != "":
		configs, err := config.Load(configPath)
		if err != nil {
			return err
		}
		return eng.ConfigureFields(configs)
	case openapiSource != "":
		if operation == "" {
			return fmt.Errorf("-operation is required with -openapi")
		}
		src, err := parseSource(openapiSource)
		if err != nil {
			return err
		}
		translator := formvalid.NewOpenAPITranslator(
			[]pkgopenapi.LoaderOption{pkgopenapi.WithHTTPFallback(30 * time.Second)},
			nil,
		)
		configs, err := translator.FieldConfigs(ctx, src, operation)
		if err != nil {
			return err
		}
		return eng.ConfigureFields(configs)
	default:
		return fmt.Errorf("either -config or -openapi is required")
	}
}

func loadFormData(path string) (map[string]any, error) {
	if path == "" {
		return nil, fmt.Errorf("-data is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var form map[string]any
	if err := json.Unmarshal(data, &form); err != nil {
		return nil, fmt.Errorf("parse form data: %w", err)
	}
	return form, nil
}

func render(result engine.FormResult, format string) ([]byte, error) {
	switch format {
	case "text":
		return []byte(report.Text(result)), nil
	case "json":
		return report.JSON(result)
	case "html":
		return report.HTML(result)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func parseSource(raw string) (pkgopenapi.Source, error) {
	path := strings.TrimSpace(raw)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return pkgopenapi.SourceFromURL(path)
	}
	return pkgopenapi.SourceFromFile(path), nil
}
