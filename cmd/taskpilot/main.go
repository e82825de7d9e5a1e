package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/opentalon/taskpilot/internal/config"
	"github.com/opentalon/taskpilot/internal/kvstore"
	"github.com/opentalon/taskpilot/internal/perf"
	"github.com/opentalon/taskpilot/internal/provider"
	"github.com/opentalon/taskpilot/internal/ratelimit"
	"github.com/opentalon/taskpilot/internal/router"
	"github.com/opentalon/taskpilot/internal/snapshot"
	"github.com/opentalon/taskpilot/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	recommend := flag.String("recommend", "", "print the static recommendation for a task type")
	stats := flag.Bool("stats", false, "print performance stats from the configured store")
	selectTask := flag.String("select", "", "run a full model selection for a task type")
	serve := flag.Bool("serve", false, "run until interrupted, keeping the snapshot schedule alive")
	models := flag.Bool("models", false, "print the built-in model catalog")
	accuracy := flag.String("accuracy", "", "requirement override: low, medium, high, critical")
	speed := flag.String("speed", "", "requirement override: slow, medium, fast, realtime")
	cost := flag.String("cost", "", "requirement override: high, medium, low, free")
	complexity := flag.String("complexity", "", "requirement override: simple, medium, complex, expert")
	volume := flag.String("volume", "", "requirement override: single, batch, bulk, streaming")
	batchSize := flag.Int("batch", 1, "batch size")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Get())
		os.Exit(0)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fail("loading config: %v", err)
		}
	}

	switch {
	case *recommend != "":
		tt, err := router.ParseTaskType(*recommend)
		if err != nil {
			fail("%v", err)
		}
		printJSON(router.Recommend(tt))

	case *models:
		printJSON(provider.BuiltinModels())

	case *serve:
		store, err := kvstore.Open(cfg.Storage)
		if err != nil {
			fail("opening store: %v", err)
		}
		defer store.Close()
		tracker := perf.NewTracker(store, perf.Options{
			MemoryCap:  cfg.History.MemoryCap,
			DurableCap: cfg.History.DurableCap,
		})
		tracker.Restore(context.Background())
		job, err := snapshot.StartIfEnabled(tracker, cfg.Snapshot)
		if err != nil {
			fail("%v", err)
		}
		if job != nil {
			defer job.Stop()
			log.Printf("taskpilot: snapshot compaction scheduled")
		}
		log.Printf("taskpilot: serving with %d history records, storage=%s",
			tracker.Stats().TotalTasks, cfg.Storage.Backend)
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Printf("taskpilot: shutting down")

	case *stats:
		store, err := kvstore.Open(cfg.Storage)
		if err != nil {
			fail("opening store: %v", err)
		}
		defer store.Close()
		tracker := perf.NewTracker(store, perf.Options{
			MemoryCap:  cfg.History.MemoryCap,
			DurableCap: cfg.History.DurableCap,
		})
		tracker.Restore(context.Background())
		printJSON(tracker.Stats())

	case *selectTask != "":
		tt, err := router.ParseTaskType(*selectTask)
		if err != nil {
			fail("%v", err)
		}
		store, err := kvstore.Open(cfg.Storage)
		if err != nil {
			fail("opening store: %v", err)
		}
		defer store.Close()
		tracker := perf.NewTracker(store, perf.Options{
			MemoryCap:  cfg.History.MemoryCap,
			DurableCap: cfg.History.DurableCap,
		})
		ctx := context.Background()
		tracker.Restore(ctx)
		budget, limit, err := ratelimit.Open(cfg.RateLimit)
		if err != nil {
			fail("%v", err)
		}
		r := router.New(registryFromConfig(cfg), tracker, budget, limit)
		sel, err := r.SelectOptimalModel(ctx, router.TaskContext{
			TaskType: tt,
			Requirements: router.Requirements{
				Accuracy:   router.Accuracy(*accuracy),
				Speed:      router.SpeedReq(*speed),
				Cost:       router.CostPref(*cost),
				Complexity: router.Complexity(*complexity),
				Volume:     router.Volume(*volume),
			},
			BatchSize: *batchSize,
		})
		if err != nil {
			fail("%v", err)
		}
		printJSON(sel)

	default:
		fmt.Println(version.Get())
		fmt.Printf("Config: storage=%s, rate_limit=%d/%s\n",
			cfg.Storage.Backend, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window.Std())
		reg := registryFromConfig(cfg)
		ids := reg.Providers()
		sort.Strings(ids)
		for _, id := range ids {
			line := fmt.Sprintf("  %s: available=%t", id, reg.Available(id))
			if ref, ok := reg.DefaultModel(id); ok {
				line += fmt.Sprintf(" default=%s", ref.Model())
			}
			fmt.Println(line)
		}
	}
}

func registryFromConfig(cfg *config.Config) *provider.Registry {
	settings := make([]provider.Settings, 0, len(cfg.Providers))
	for id, pc := range cfg.Providers {
		s := provider.Settings{
			ID:         id,
			Enabled:    pc.Enabled,
			Credential: pc.Credential,
			Default:    pc.Default,
		}
		for _, m := range pc.Models {
			s.Overrides = append(s.Overrides, provider.Override{
				ID:            m.ID,
				CostPer1K:     m.CostPer1K,
				BaseLatencyMS: m.BaseLatencyMS,
				MaxTokens:     m.MaxTokens,
				Description:   m.Description,
			})
		}
		settings = append(settings, s)
	}
	return provider.NewRegistry(settings...)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fail("%v", err)
	}
	fmt.Println(string(out))
}
