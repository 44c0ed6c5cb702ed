package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"api-testgen/internal/ai"
	"api-testgen/internal/cache"
	"api-testgen/internal/config"
	"api-testgen/internal/logger"
	"api-testgen/internal/orchestrator"
	"api-testgen/internal/parser"
	"api-testgen/internal/reporter"
	"api-testgen/internal/seed"

	_ "github.com/denisenkom/go-mssqldb" // for sqlserver seed sampling
	_ "github.com/go-sql-driver/mysql"   // for mysql seed sampling
	_ "github.com/lib/pq"                // for postgres seed sampling
)

func main() {
	specSource := flag.String("spec", "", "OpenAPI document: file path or base URL")
	configPath := flag.String("config", "", "Path to YAML configuration (optional)")
	outputDir := flag.String("out", "", "Output directory override")
	flag.Parse()

	if *specSource == "" {
		fmt.Fprintln(os.Stderr, "Usage: api-testgen -spec <file-or-url> [-config config.yaml] [-out dir]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}

	runLog, err := logger.NewLogger(cfg.Output.LogDir)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer runLog.Close()

	p := parser.New()
	if strings.HasPrefix(*specSource, "http://") || strings.HasPrefix(*specSource, "https://") {
		err = p.LoadURL(*specSource)
	} else {
		err = p.LoadFile(*specSource)
	}
	if err != nil {
		log.Fatalf("Failed to load API description: %v", err)
	}

	endpoints, err := p.Endpoints()
	if err != nil {
		log.Fatalf("Failed to extract endpoints: %v", err)
	}
	fmt.Printf("Found %d endpoints\n", len(endpoints))

	accel, err := ai.NewGenerator(cfg.AI)
	if err != nil {
		log.Fatalf("Failed to configure AI provider: %v", err)
	}

	seeds := seed.NewSource()
	if cfg.Seed.File != "" {
		if err := seed.LoadFile(seeds, cfg.Seed.File); err != nil {
			runLog.Warnf("seed file skipped: %v", err)
		}
	}
	if cfg.Seed.DB.Type != "" {
		sampler, err := seed.NewSampler(cfg.Seed.DB)
		if err != nil {
			runLog.Warnf("seed database skipped: %v", err)
		} else {
			if err := sampler.Populate(context.Background(), seeds); err != nil {
				runLog.Warnf("seed sampling incomplete: %v", err)
			}
			sampler.Close()
		}
	}
	if seeds.Len() > 0 {
		fmt.Printf("Loaded %d seed value(s)\n", seeds.Len())
	}

	caches := cache.NewService(cfg.Cache.TTL, cfg.Cache.EvictionInterval)
	defer caches.Shutdown()

	orch := orchestrator.New(cfg, caches, accel, seeds, runLog)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		fmt.Println("Shutting down; in-flight endpoints will finish")
		orch.Shutdown()
	}()

	result, err := orch.Generate(ctx, endpoints)
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	rep := reporter.NewReporter(cfg.Output.Dir, cfg.Output.Summary)
	path, err := rep.WriteResult(result)
	if err != nil {
		log.Fatalf("Failed to write result: %v", err)
	}
	fmt.Printf("Test suites written to %s\n", path)
}
