package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/anim2c/internal/animation"
	"github.com/ivlev/anim2c/internal/config"
	"github.com/ivlev/anim2c/internal/output"
	"github.com/ivlev/anim2c/internal/sheet"
	"github.com/ivlev/anim2c/internal/system"
)

// Result describes what happened to one input sheet.
type Result struct {
	Input    string
	Model    *animation.Model
	Files    []string
	Duration time.Duration
	Err      error
}

type Project struct {
	Config   *config.Config
	Builder  *animation.Builder
	Emitters []output.Emitter
}

func NewProject(cfg *config.Config, emitters []output.Emitter) *Project {
	return &Project{
		Config:   cfg,
		Builder:  animation.NewBuilder(cfg.Geometry),
		Emitters: emitters,
	}
}

// Inputs resolves the sheets to process: the configured files and
// directories, or the newest description in InputDir when none are given.
func (p *Project) Inputs() ([]string, error) {
	if len(p.Config.Inputs) > 0 {
		paths, err := system.ExpandInputs(p.Config.Inputs)
		if err != nil {
			return nil, err
		}
		if len(paths) == 0 {
			return nil, fmt.Errorf("no sheet descriptions in %v", p.Config.Inputs)
		}
		return paths, nil
	}

	latest, err := system.FindLatestSheet(p.Config.InputDir)
	if err != nil {
		return nil, err
	}
	fmt.Printf("[*] Автоматически выбран последний файл: %s\n", filepath.Base(latest))
	return []string{latest}, nil
}

// Run processes every input with at most Config.Workers sheets in flight.
// A failing sheet does not stop the others; all failures are returned
// joined after the run. Results keep the input order.
func (p *Project) Run(ctx context.Context) ([]Result, error) {
	startTime := time.Now()

	inputs, err := p.Inputs()
	if err != nil {
		return nil, err
	}

	fmt.Println("--- [PROJECT: ANIMATION EXPORT] ---")
	fmt.Printf("[*] Листов: %d | Тайл: %dx%d | Форматы: %v | Потоков: %d\n",
		len(inputs), p.Config.Geometry.TileWidth, p.Config.Geometry.TileHeight,
		p.Config.Formats, p.Config.Workers)
	fmt.Println("-----------------------------------")

	results := make([]Result, len(inputs))
	var done atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.Config.Workers, 1))

	for i, in := range inputs {
		g.Go(func() error {
			res := p.RunOne(gctx, in)
			results[i] = res
			if res.Err != nil {
				log.Printf("[!] %s: %v", filepath.Base(in), res.Err)
				return nil
			}
			fmt.Printf("[>] Ready: %d/%d (%s)\n", done.Add(1), len(inputs), res.Model.Name)
			return nil
		})
	}
	g.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Input, r.Err))
		}
	}

	if p.Config.ShowStats {
		p.report(results, time.Since(startTime))
	}

	return results, errors.Join(errs...)
}

// RunOne loads, builds and emits a single sheet. Nothing is emitted unless
// every tag of the sheet builds.
func (p *Project) RunOne(ctx context.Context, path string) Result {
	start := time.Now()
	res := Result{Input: path}

	finish := func(err error) Result {
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	if err := ctx.Err(); err != nil {
		return finish(err)
	}

	s, err := sheet.Load(path)
	if err != nil {
		return finish(err)
	}

	if p.Config.ProbeImages {
		if _, err := s.ProbeImage(); err != nil {
			log.Printf("[!] %s: %v", filepath.Base(path), err)
		}
	}

	m, err := p.Builder.Build(s)
	if err != nil {
		return finish(err)
	}
	res.Model = m

	for _, e := range p.Emitters {
		files, err := e.Emit(ctx, m)
		res.Files = append(res.Files, files...)
		if err != nil {
			return finish(fmt.Errorf("emit %s: %w", e.Format(), err))
		}
	}

	return finish(nil)
}

func (p *Project) report(results []Result, total time.Duration) {
	var ok, failed, anims, files int
	var busy time.Duration
	for _, r := range results {
		busy += r.Duration
		if r.Err != nil {
			failed++
			continue
		}
		ok++
		anims += len(r.Model.Animations)
		files += len(r.Files)
	}

	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.3fs\n"+
			"Sheet Time (sum): %.3fs\n"+
			"Sheets: %d ok, %d failed\n"+
			"Animations: %d | Files: %d\n",
		p.Config.BuildVersion, total.Seconds(), busy.Seconds(), ok, failed, anims, files,
	)

	if st, err := system.ProcessStats(); err == nil {
		report += fmt.Sprintf("RSS: %.1f MiB | CPU: %.3fs | Threads: %d\n",
			float64(st.RSSBytes)/(1<<20), st.CPUSeconds, st.Threads)
	} else {
		log.Printf("[!] process stats: %v", err)
	}
	report += "----------------------------\n"
	fmt.Print(report)

	logEntry := fmt.Sprintf("[%s] Build: %s | Sheets: %d | Failed: %d | Total: %.3fs\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion, len(results), failed, total.Seconds(),
	)

	f, err := os.OpenFile(filepath.Join(p.Config.OutputDir, "benchmark.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Printf("[!] Не удалось записать benchmark.log: %v\n", err)
		return
	}
	f.WriteString(logEntry)
	f.Close()
}
