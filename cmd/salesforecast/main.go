// Command salesforecast reads a sales CSV, aggregates revenue per day and writes a
// daily revenue forecast with confidence bounds.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/profile"
	salesforecaster "github.com/salesforecaster/go-salesforecaster"
	"github.com/salesforecaster/go-salesforecaster/dataset"
)

const (
	exitSuccess = 0
	exitError   = 1
	exitConfig  = 4
)

var errNoForecast = errors.New("no forecast was produced")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseConfig(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitSuccess
	}
	if err != nil {
		fmt.Fprintf(stderr, "salesforecast: %v\n", err)
		return exitConfig
	}

	level := slog.LevelInfo
	if cfg.Quiet {
		level = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if cfg.Profile != "" {
		defer startProfile(cfg).Stop()
	}

	if err := forecast(cfg, logger, stdin, stdout, stderr); err != nil {
		logger.Error("forecast failed", "error", err)
		return exitError
	}
	return exitSuccess
}

func startProfile(cfg *Config) interface{ Stop() } {
	mode := profile.CPUProfile
	if cfg.Profile == profileMem {
		mode = profile.MemProfile
	}
	return profile.Start(mode, profile.ProfilePath(cfg.ProfileDir), profile.Quiet)
}

func forecast(cfg *Config, logger *slog.Logger, stdin io.Reader, stdout, stderr io.Writer) error {
	frame, err := readFrame(cfg.Input, stdin)
	if err != nil {
		return err
	}
	logger.Info("loaded sales", "input", cfg.Input, "rows", frame.Len())

	opt := salesforecaster.NewDefaultOptions()
	opt.DateColumn = cfg.DateColumn
	opt.ValueColumn = cfg.ValueColumn
	opt.Logger = logger
	s, err := salesforecaster.New(frame, opt)
	if err != nil {
		return err
	}

	p := newProgress(stderr, cfg.Quiet)
	p.UpdateSuffix(fmt.Sprintf(" fitting %s model", cfg.Method))
	p.Start()
	start := time.Now()
	res := s.GenerateForecast(cfg.Periods, cfg.Method)
	p.Stop()
	if res == nil {
		return errNoForecast
	}
	logger.Info("generated forecast",
		"method", res.Method,
		"periods", res.Len(),
		"id", res.ID.String(),
		"elapsed", time.Since(start),
	)

	if err := writeResult(cfg, res, stdout); err != nil {
		return err
	}
	if cfg.Summary {
		if err := s.WriteSummary(stderr, res); err != nil {
			return fmt.Errorf("unable to write summary, %w", err)
		}
	}
	if cfg.Plot != "" {
		if err := writePlot(cfg.Plot, s, res); err != nil {
			return err
		}
		logger.Info("rendered plot", "file", cfg.Plot)
	}
	return nil
}

func readFrame(input string, stdin io.Reader) (*dataset.Frame, error) {
	r := stdin
	if input != "" && input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return nil, fmt.Errorf("unable to open input, %w", err)
		}
		defer f.Close()
		r = f
	}
	frame, err := dataset.LoadCSV(r, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to load sales csv, %w", err)
	}
	return frame, nil
}

func writeResult(cfg *Config, res *salesforecaster.Result, stdout io.Writer) error {
	if cfg.Output == "" {
		return encodeResult(cfg.Format, res, stdout)
	}

	f, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("unable to create output, %w", err)
	}
	if err := encodeResult(cfg.Format, res, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encodeResult(format string, res *salesforecaster.Result, w io.Writer) error {
	if format == formatJSON {
		return res.WriteJSON(w)
	}
	return res.WriteCSV(w)
}

func writePlot(path string, s *salesforecaster.SalesForecaster, res *salesforecaster.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create plot file, %w", err)
	}
	if err := s.PlotForecast(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
