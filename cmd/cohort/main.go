package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/Comcast/cohort/core"
	"github.com/Comcast/cohort/geo"
	"github.com/Comcast/cohort/pop"
	"github.com/Comcast/cohort/rnd"
	"github.com/Comcast/cohort/store"
	"github.com/Comcast/cohort/tools"
)

func main() {
	var (
		popFile   = flag.String("p", "population.yaml", "population document")
		rulesFile = flag.String("r", "rules.txt", "rule file, one rule per line")
		days      = flag.Int("days", 100, "days to simulate")
		seed      = flag.Uint64("seed", 42, "random seed")
		workers   = flag.Int("workers", 0, "decision workers (0 = GOMAXPROCS)")
		outDir    = flag.String("o", ".", "directory for error.log, warning.log, health.tsv")
		dbFile    = flag.String("d", "", "optional run database filename")

		wsAddr    = flag.String("w", "", "optional WebSocket monitor address, e.g. :8123")
		broker    = flag.String("mqtt", "", "optional MQTT broker, e.g. tcp://localhost:1883")
		mqttTopic = flag.String("mqtt-topic", "cohort/days", "MQTT topic for daily snapshots")

		reportFile = flag.String("report", "", "write an HTML rule report and exit")
		dotCond    = flag.String("dot", "", "write a dot state graph for a condition and exit")
		expectFile = flag.String("expect", "", "run a YAML scenario file and exit")

		verbose = flag.Bool("v", false, "log lots of wonderful things")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(log, config{
		popFile:    *popFile,
		rulesFile:  *rulesFile,
		days:       *days,
		seed:       *seed,
		workers:    *workers,
		outDir:     *outDir,
		dbFile:     *dbFile,
		wsAddr:     *wsAddr,
		broker:     *broker,
		mqttTopic:  *mqttTopic,
		reportFile: *reportFile,
		dotCond:    *dotCond,
		expectFile: *expectFile,
	}); err != nil {
		log.Error("run failed", "error", err)
		os.Exit(1)
	}
}

type config struct {
	popFile, rulesFile string
	days               int
	seed               uint64
	workers            int
	outDir, dbFile     string
	wsAddr             string
	broker, mqttTopic  string
	reportFile         string
	dotCond            string
	expectFile         string
}

func run(log *slog.Logger, cfg config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.expectFile != "" {
		js, err := os.ReadFile(cfg.expectFile)
		if err != nil {
			return err
		}
		s, err := tools.ParseScenario(js)
		if err != nil {
			return err
		}
		if err := s.Run(); err != nil {
			return err
		}
		log.Info("scenario passed", "file", cfg.expectFile)
		return nil
	}

	data, err := os.ReadFile(cfg.popFile)
	if err != nil {
		return err
	}
	cat, world, cal, err := pop.Load(data, cfg.seed)
	if err != nil {
		return fmt.Errorf("loading %s: %v", cfg.popFile, err)
	}

	errF, err := os.Create(filepath.Join(cfg.outDir, "error.log"))
	if err != nil {
		return err
	}
	defer errF.Close()
	warnF, err := os.Create(filepath.Join(cfg.outDir, "warning.log"))
	if err != nil {
		return err
	}
	defer warnF.Close()
	healthF, err := os.Create(filepath.Join(cfg.outDir, "health.tsv"))
	if err != nil {
		return err
	}
	defer healthF.Close()
	sinks := core.NewSinks(errF, warnF, healthF)

	reg := core.NewRegistry(cat)
	rf, err := os.Open(cfg.rulesFile)
	if err != nil {
		return err
	}
	err = reg.AddRuleFile(rf)
	rf.Close()
	if err != nil {
		return err
	}
	if err := reg.PrepareRules(); err != nil {
		for _, e := range reg.Errors() {
			sinks.Error(e)
		}
		return fmt.Errorf("%d rules failed to compile, see error.log", len(reg.Errors()))
	}
	for _, w := range reg.Warnings() {
		sinks.Warning(w)
	}
	log.Info("rules compiled", "rules", len(reg.Compiled), "warnings", len(reg.Warnings()))

	if cfg.reportFile != "" {
		f, err := os.Create(cfg.reportFile)
		if err != nil {
			return err
		}
		defer f.Close()
		return tools.RuleReportHTML(cat, reg, f)
	}
	if cfg.dotCond != "" {
		return tools.Dot(cat, reg, cfg.dotCond, os.Stdout)
	}

	proj := geo.DefaultProjection
	if lat := world.MeanLat(); lat != 0 {
		proj = geo.NewProjection(lat)
	}

	en := core.NewEngine(core.Config{
		Catalog:    cat,
		Registry:   reg,
		World:      world,
		Calendar:   cal,
		Projection: proj,
		Sinks:      sinks,
		Logger:     log,
		Seed:       cfg.seed,
		Workers:    cfg.workers,
	})

	var monitor *Monitor
	if cfg.wsAddr != "" {
		monitor = NewMonitor(log)
		go func() {
			if err := monitor.ListenAndServe(ctx, cfg.wsAddr); err != nil {
				log.Error("monitor", "error", err)
			}
		}()
	}

	var pub *Publisher
	if cfg.broker != "" {
		pub, err = NewPublisher(cfg.broker, "cohort", cfg.mqttTopic)
		if err != nil {
			return err
		}
		defer pub.Close(100)
	}

	var runs *store.RunStore
	var runID string
	if cfg.dbFile != "" {
		runs, err = store.NewRunStore(cfg.dbFile)
		if err != nil {
			return err
		}
		if err := runs.Open(ctx); err != nil {
			return err
		}
		defer runs.Close(ctx)
		runID, err = runs.BeginRun(ctx, store.RunMeta{
			Started: time.Now().UTC(),
			Seed:    cfg.seed,
			Days:    cfg.days,
			People:  len(world.People()),
			Rules:   len(reg.Compiled),
		})
		if err != nil {
			return err
		}
		log.Info("run started", "id", runID)
	}

	src := rnd.New(cfg.seed ^ 0xc0b0)
	bar := progressbar.Default(int64(cfg.days), "simulating")

	en.Start(0)
	for day := 0; day < cfg.days; day++ {
		en.Tick(day)
		serveImports(en, world, cat, proj, src, day)

		dc := store.Snapshot(cat, world, day)
		if runs != nil {
			if err := runs.WriteDay(ctx, runID, dc); err != nil {
				return err
			}
		}
		if monitor != nil {
			monitor.Broadcast(dc)
		}
		if pub != nil {
			if err := pub.Publish(dc); err != nil {
				log.Warn("mqtt publish", "error", err)
			}
		}
		bar.Add(1)
	}
	log.Info("run finished", "days", cfg.days, "people", len(world.People()))
	return nil
}

// serveImports turns buffered import events into external exposures:
// eligible people are drawn without replacement and exposed on the
// same day.
func serveImports(en *core.Engine, world *pop.World, cat *core.Catalog,
	proj geo.Projection, src *rnd.Source, day int) {
	for _, ev := range world.DrainImports() {
		var candidates []core.PersonID
		if len(ev.Spec.List) > 0 {
			candidates = ev.Spec.List
		} else {
			candidates = world.People()
		}
		eligible := make([]core.PersonID, 0, len(candidates))
		for _, pid := range candidates {
			p := world.Person(pid)
			if p == nil {
				continue
			}
			if p.Age() < ev.Spec.MinAge || p.Age() > ev.Spec.MaxAge {
				continue
			}
			if ev.Spec.Radius > 0 {
				g := p.GroupOfType(0)
				if g == nil {
					continue
				}
				km := proj.Distance(ev.Spec.Lat, ev.Spec.Lon, g.Lat(), g.Lon())
				if km > ev.Spec.Radius {
					continue
				}
			}
			eligible = append(eligible, pid)
		}

		want := ev.Spec.Count + int(ev.Spec.PerCapita*float64(len(world.People())))
		if want > len(eligible) {
			want = len(eligible)
		}
		for _, i := range src.SampleWithoutReplacement(len(eligible), want) {
			en.Expose(eligible[i], ev.Cond, day, -1, true)
		}
	}
}
