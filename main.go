package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"fit-calories/internal/activity"
	"fit-calories/internal/analysis"
	"fit-calories/internal/config"
	"fit-calories/internal/keytel"
	"fit-calories/internal/service"
	"fit-calories/internal/tui"
)

func main() {
	flag.Usage = printUsage
	flag.Parse()

	if err := run(flag.Args()); err != nil {
		log.Fatal(err)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: fit-calories [command] [flags]

Commands:
  tui      Interactive terminal UI (default)
  batch    Estimate calories for every activity file in a directory
  solve    Solve the Keytel formula for one unknown
  zones    Print Karvonen heart rate zones
  rename   Rename activity files to date_sport_duration.fit

Run 'fit-calories <command> -h' for command flags.
`)
}

func run(args []string) error {
	command := "tui"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	switch command {
	case "tui":
		return runTUI(args)
	case "batch":
		return runBatch(args)
	case "solve":
		return runSolve(args)
	case "zones":
		return runZones(args)
	case "rename":
		return runRename(args)
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// loadConfig reads path, or the default location when empty. A missing
// default config is created from the example and defaults are used.
func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}

	if errors.Is(err, config.ErrNoConfig) && path == "" {
		if err := config.CreateExample(); err != nil {
			return nil, fmt.Errorf("creating example config: %w", err)
		}
		configDir, _ := config.GetConfigDir()
		fmt.Fprintf(os.Stderr, "No config file found. Created one with defaults at:\n  %s/config.json\n\n", configDir)
		return config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func runTUI(args []string) error {
	fs := flag.NewFlagSet("tui", flag.ExitOnError)
	configPath := fs.String("config", "", "config file (default ~/.fit-calories/config.json)")
	dir := fs.String("dir", "", "activity files directory (overrides config)")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *dir != "" {
		cfg.Files.Dir = *dir
	}

	profile, err := cfg.AthleteProfile()
	if err != nil {
		return err
	}

	reader := activity.NewFITReader()
	batchSvc := service.NewBatchService(reader, profile)
	// Log lines would corrupt the alt screen; failures are shown in the report
	batchSvc.Logf = nil

	app := tui.NewApp(cfg, profile, reader, batchSvc)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

func runBatch(args []string) error {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	configPath := fs.String("config", "", "config file (default ~/.fit-calories/config.json)")
	dir := fs.String("dir", "", "activity files directory (overrides config)")
	pattern := fs.String("pattern", "", "file name glob (overrides config)")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *dir != "" {
		cfg.Files.Dir = *dir
	}
	if *pattern != "" {
		cfg.Files.Pattern = *pattern
	}

	profile, err := cfg.AthleteProfile()
	if err != nil {
		return err
	}

	paths := fs.Args()
	if len(paths) == 0 {
		paths, err = service.Discover(cfg.Files.Dir, cfg.Files.Pattern)
		if err != nil {
			return fmt.Errorf("discovering files: %w", err)
		}
	}
	if len(paths) == 0 {
		fmt.Printf("No files matching %q found in %s\n", cfg.Files.Pattern, cfg.Files.Dir)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Printf("Processing %d files for %s, %.1f kg, %.0f years", len(paths), profile.Gender, profile.WeightKg, profile.AgeYears)
	report := service.NewBatchService(activity.NewFITReader(), profile).Run(ctx, paths)
	fmt.Print(report.Text())
	return nil
}

// optionalFloat is a float flag that records whether it was set
type optionalFloat struct {
	value *float64
}

func (f *optionalFloat) String() string {
	if f.value == nil {
		return ""
	}
	return strconv.FormatFloat(*f.value, 'f', -1, 64)
}

func (f *optionalFloat) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	f.value = &v
	return nil
}

func runSolve(args []string) error {
	fs := flag.NewFlagSet("solve", flag.ExitOnError)
	gender := fs.String("gender", "male", "male or female")
	var hr, weight, age, kcal optionalFloat
	fs.Var(&hr, "hr", "heart rate (bpm)")
	fs.Var(&weight, "weight", "weight (kg)")
	fs.Var(&age, "age", "age (years)")
	fs.Var(&kcal, "kcal", "energy expenditure (kcal/min)")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: fit-calories solve -gender g [three of -hr -weight -age -kcal]")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	g, err := keytel.ParseGender(*gender)
	if err != nil {
		return err
	}

	req, err := keytel.NewSolveRequest(g, hr.value, weight.value, age.value, kcal.value)
	if err != nil {
		return err
	}

	m, err := keytel.Solve(req)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %.4f %s\n", m.Variable, m.Value, m.Variable.Unit())
	return nil
}

func runZones(args []string) error {
	fs := flag.NewFlagSet("zones", flag.ExitOnError)
	configPath := fs.String("config", "", "config file (default ~/.fit-calories/config.json)")
	age := fs.Int("age", 0, "age in years (default from config)")
	resting := fs.Int("resting", 0, "resting heart rate (default from config)")
	maxHR := fs.Int("max", -1, "max heart rate, 0 to estimate from age (default from config)")
	intensities := fs.String("intensities", "", "comma separated intensities, e.g. 0.5,0.6,0.7")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	a := int(cfg.Profile.AgeYears)
	if *age != 0 {
		a = *age
	}
	r := cfg.Zones.RestingHR
	if *resting != 0 {
		r = *resting
	}
	mx := cfg.Zones.MaxHR
	if *maxHR >= 0 {
		mx = *maxHR
	}
	levels := cfg.Zones.Intensities
	if *intensities != "" {
		levels, err = parseIntensities(*intensities)
		if err != nil {
			return err
		}
	}

	zones, err := analysis.KarvonenZones(a, r, levels, mx)
	if err != nil {
		return err
	}

	hz := analysis.NewHRZones(float64(a), float64(r), float64(mx))
	fmt.Printf("Max HR %.0f, resting HR %d, reserve %.0f\n", hz.MaxHR, r, hz.Reserve())
	for i, z := range zones {
		fmt.Printf("Z%d  %-9s  %3d-%3d bpm\n", i+1, z.Label, z.LowerHR, z.UpperHR)
	}
	return nil
}

func parseIntensities(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: intensity %q is not a number", keytel.ErrValidation, part)
		}
		out = append(out, v)
	}
	return out, nil
}

func runRename(args []string) error {
	fs := flag.NewFlagSet("rename", flag.ExitOnError)
	configPath := fs.String("config", "", "config file (default ~/.fit-calories/config.json)")
	dir := fs.String("dir", "", "rename every matching file in this directory")
	fs.Parse(args)

	paths := fs.Args()
	if len(paths) == 0 {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			return err
		}
		if *dir == "" {
			*dir = cfg.Files.Dir
		}
		paths, err = service.Discover(*dir, cfg.Files.Pattern)
		if err != nil {
			return fmt.Errorf("discovering files: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var renamed, failed int
	for _, res := range service.RenameAll(ctx, activity.NewFITReader(), paths) {
		switch {
		case res.Err != nil:
			failed++
			log.Printf("skipped %v (%s)", res.Err, res.Category)
		case res.Changed():
			renamed++
			fmt.Printf("%s -> %s\n", res.OldPath, res.NewPath)
		}
	}
	fmt.Printf("Renamed %d of %d files, %d skipped\n", renamed, len(paths), failed)
	return nil
}
