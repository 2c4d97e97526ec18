package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/claude/ironcoach/internal/models"
	"github.com/claude/ironcoach/internal/preview"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "IronCoach server URL (e.g. https://ironcoach.tail1234.ts.net)")
	inputPath := flag.String("inputs", "", "path to JSON file with program inputs")
	cacheDir := flag.String("cache-dir", defaultCacheDir(), "directory for the constants snapshot cache")
	validate := flag.Bool("validate", false, "compare local calculations against the server before trusting them")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("ironcoach-preview", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *inputPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: ironcoach-preview -inputs movements.json [-server <URL>] [-validate]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *validate && *serverURL == "" {
		fmt.Fprintf(os.Stderr, "Error: -validate requires -server\n")
		os.Exit(1)
	}

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Error("reading inputs failed", "path", *inputPath, "error", err)
		os.Exit(1)
	}
	var inputs models.ProgramInputs
	if err := json.Unmarshal(data, &inputs); err != nil {
		log.Error("parsing inputs failed", "error", err)
		os.Exit(1)
	}

	var client *preview.Client
	if *serverURL != "" {
		client = preview.NewClient(strings.TrimRight(*serverURL, "/"))
	}
	cache, err := preview.OpenCache(*cacheDir)
	if err != nil {
		log.Warn("snapshot cache unavailable", "error", err)
	} else {
		defer cache.Close()
	}

	mirror := preview.NewMirror(client, cache, log)
	ctx := context.Background()

	if *validate {
		result, err := mirror.Validate(ctx, inputs)
		if err != nil {
			log.Error("validation failed", "error", err)
			os.Exit(1)
		}
		printValidation(result)
		if !result.Clean() {
			os.Exit(2)
		}
		printProgram(result.Authoritative)
		return
	}

	program, err := mirror.Generate(ctx, inputs)
	if err != nil {
		log.Error("preview failed", "error", err)
		os.Exit(1)
	}
	if strings.HasSuffix(program.AlgorithmVersion, preview.FallbackVersionSuffix) {
		log.Warn("computed from compiled-in fallback tables; validate against the server before saving",
			"version", program.AlgorithmVersion)
	}
	printProgram(program)
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ironcoach"
	}
	return filepath.Join(home, ".ironcoach")
}

func printValidation(result *preview.ValidationResult) {
	if len(result.Discrepancies) == 0 {
		fmt.Printf("Validation OK: local %s matches authoritative %s\n",
			result.LocalVersion, result.AuthoritativeVersion)
		return
	}
	fmt.Printf("Validation found %d discrepancies (local %s, authoritative %s):\n",
		len(result.Discrepancies), result.LocalVersion, result.AuthoritativeVersion)
	for _, d := range result.Discrepancies {
		fmt.Printf("  %s\n", d)
	}
	fmt.Println("The authoritative values win; review before saving.")
}

func printProgram(p *models.ProgramPreview) {
	fmt.Printf("Algorithm version: %s\n\n", p.AlgorithmVersion)

	for _, m := range p.InputData.Movements {
		calc := p.CalculatedData[m.Name]
		fmt.Printf("%s: 1RM %g lbs, %d reps @ 80%% (%d lbs), target %g lbs\n",
			m.Name, m.OneRepMax, m.MaxRepsAt80Percent, calc.EightyPercentLbs, m.TargetWeight)
		fmt.Printf("  weekly jump %d%% (%d lbs), ramp-up start %d%% (%d lbs)\n",
			calc.WeeklyJumpPercent, calc.WeeklyJumpLbs, calc.RampUpPercent, calc.RampUpBaseLbs)
	}

	for _, week := range p.Weeks {
		fmt.Printf("\nWeek %d — %s\n", week.WeekNumber, week.Name)
		for _, day := range week.Days {
			fmt.Printf("  %s", day.Name)
			if day.SuggestedDayOfWeek != "" {
				fmt.Printf(" (%s)", day.SuggestedDayOfWeek)
			}
			fmt.Println()
			for _, ex := range day.Exercises {
				if ex.WeightLbs != nil {
					fmt.Printf("    %-20s %dx%d @ %d lbs", ex.ExerciseName, ex.Sets, ex.Reps, *ex.WeightLbs)
					if ex.Percentage1RM != nil {
						fmt.Printf(" (%d%%)", *ex.Percentage1RM)
					}
					fmt.Println()
				} else {
					fmt.Printf("    %-20s %dx%d  %s\n", ex.ExerciseName, ex.Sets, ex.Reps, ex.Notes)
				}
			}
		}
	}
}
