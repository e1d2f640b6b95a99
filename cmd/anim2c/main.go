package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/ivlev/anim2c/internal/config"
	"github.com/ivlev/anim2c/internal/engine"
	"github.com/ivlev/anim2c/internal/output"
	"github.com/ivlev/anim2c/internal/system"
	"github.com/ivlev/anim2c/internal/watch"
)

// Set with -ldflags "-X main.buildVersion=..."
var buildVersion = "dev"

// listFlag collects a repeatable, comma-separated flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

func main() {
	configPtr := flag.String("config", "", "YAML-файл конфигурации (флаги имеют приоритет)")
	var inputs, formats listFlag
	flag.Var(&inputs, "input", "JSON листа Aseprite или папка (можно повторять; по умолчанию: самый свежий файл в input/sheets/)")
	flag.Var(&formats, "format", "Форматы вывода: c, yaml, res")
	outputPtr := flag.String("output", "", "Папка для результатов")
	tileWPtr := flag.Int("tile-width", 0, "Ширина тайла в пикселях")
	tileHPtr := flag.Int("tile-height", 0, "Высота тайла в пикселях")
	perRowPtr := flag.Int("tiles-per-row", -1, "Тайлов в ряду кадров (0 - лист в одну строку)")
	workersPtr := flag.Int("workers", 0, "Потоки")
	resPtr := flag.String("res", "", "Файл ресурсов для формата res")
	probePtr := flag.Bool("probe", false, "Проверять размер изображения листа")
	watchPtr := flag.Bool("watch", false, "Следить за изменениями и пересобирать")
	statsPtr := flag.Bool("stats", false, "Показать отчет о производительности")

	flag.Parse()

	cfg, err := config.Load(*configPtr)
	if err != nil {
		log.Fatalf("[-] Ошибка конфигурации: %v", err)
	}

	// Флаги поверх файла конфигурации
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if len(inputs) > 0 {
		cfg.Inputs = inputs
	}
	if len(formats) > 0 {
		cfg.Formats = formats
	}
	if *outputPtr != "" {
		cfg.OutputDir = *outputPtr
	}
	if *tileWPtr > 0 {
		cfg.Geometry.TileWidth = *tileWPtr
	}
	if *tileHPtr > 0 {
		cfg.Geometry.TileHeight = *tileHPtr
	}
	if *perRowPtr >= 0 {
		cfg.Geometry.TilesPerRow = *perRowPtr
	}
	if *workersPtr > 0 {
		cfg.Workers = *workersPtr
	}
	if *resPtr != "" {
		cfg.ResourceFile = *resPtr
	}
	if set["probe"] {
		cfg.ProbeImages = *probePtr
	}
	if set["watch"] {
		cfg.Watch = *watchPtr
	}
	if set["stats"] {
		cfg.ShowStats = *statsPtr
	}
	cfg.BuildVersion = buildVersion

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] %v", err)
	}

	if len(cfg.Inputs) == 0 {
		os.MkdirAll(cfg.InputDir, 0755)
	}

	emitters, err := output.NewEmitters(cfg)
	if err != nil {
		log.Fatalf("[-] Ошибка инициализации вывода: %v", err)
	}
	defer output.CloseAll(emitters)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	project := engine.NewProject(cfg, emitters)
	results, err := project.Run(ctx)

	if !cfg.Watch {
		if err != nil {
			output.CloseAll(emitters)
			log.Fatalf("[-] Ошибка проекта: %v", err)
		}
		for _, r := range results {
			fmt.Printf("[+++] Успех! %s -> %s\n", filepath.Base(r.Input), strings.Join(r.Files, ", "))
		}
		return
	}

	if err != nil {
		log.Printf("[!] %v", err)
	}
	if err := watchAndRebuild(ctx, project); err != nil {
		output.CloseAll(emitters)
		log.Fatalf("[-] Ошибка наблюдения: %v", err)
	}
}

// watchAndRebuild re-runs a sheet whenever its description changes, until
// ctx is canceled.
func watchAndRebuild(ctx context.Context, project *engine.Project) error {
	dirs, err := watchDirs(project.Config)
	if err != nil {
		return err
	}

	wanted, err := inputFilter(project.Config)
	if err != nil {
		return err
	}

	w, err := watch.New(dirs...)
	if err != nil {
		return err
	}
	defer w.Close()

	fmt.Printf("[*] Наблюдение за: %s (Ctrl+C для выхода)\n", strings.Join(dirs, ", "))

	for {
		select {
		case <-ctx.Done():
			fmt.Println("[*] Остановлено")
			return nil
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !wanted(path) {
				continue
			}
			res := project.RunOne(ctx, path)
			if res.Err != nil {
				if errors.Is(res.Err, context.Canceled) {
					return nil
				}
				log.Printf("[!] %s: %v", filepath.Base(path), res.Err)
				continue
			}
			fmt.Printf("[+++] Пересобрано: %s -> %s\n", filepath.Base(path), strings.Join(res.Files, ", "))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("[!] Ошибка наблюдения: %v", err)
		}
	}
}

// watchDirs lists the directories holding the configured inputs.
func watchDirs(cfg *config.Config) ([]string, error) {
	if len(cfg.Inputs) == 0 {
		return []string{cfg.InputDir}, nil
	}

	seen := map[string]bool{}
	var dirs []string
	for _, in := range cfg.Inputs {
		dir := in
		if system.IsSheetFile(in) {
			dir = filepath.Dir(in)
		}
		fi, err := os.Stat(dir)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", dir)
		}
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}

// inputFilter accepts sheets named directly in the inputs and any sheet
// inside an input directory. Without inputs everything in InputDir is wanted.
func inputFilter(cfg *config.Config) (func(string) bool, error) {
	if len(cfg.Inputs) == 0 {
		return func(string) bool { return true }, nil
	}

	files := map[string]bool{}
	dirs := map[string]bool{}
	for _, in := range cfg.Inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			return nil, err
		}
		if fi, err := os.Stat(abs); err == nil && fi.IsDir() {
			dirs[abs] = true
		} else {
			files[abs] = true
		}
	}

	return func(path string) bool {
		abs, err := filepath.Abs(path)
		if err != nil {
			return false
		}
		return files[abs] || dirs[filepath.Dir(abs)]
	}, nil
}
