package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	salesforecaster "github.com/salesforecaster/go-salesforecaster"
)

// EnvPrefix is prepended to every environment override, e.g. SALESFORECAST_PERIODS
const EnvPrefix = "SALESFORECAST_"

const (
	formatCSV  = "csv"
	formatJSON = "json"

	profileCPU = "cpu"
	profileMem = "mem"

	defaultPeriods = 30
)

var (
	ErrInvalidFormat  = errors.New("format must be csv or json")
	ErrInvalidProfile = errors.New("profile must be cpu or mem")
	ErrInvalidPeriods = errors.New("periods must be at least 1")
	ErrInvalidEnv     = errors.New("invalid environment override")
)

// Config is the resolved command line configuration. Flags take priority over
// SALESFORECAST_* environment variables, which take priority over defaults.
type Config struct {
	Input       string
	DateColumn  string
	ValueColumn string
	Periods     int
	Method      salesforecaster.Method
	Format      string
	Output      string
	Plot        string
	Profile     string
	ProfileDir  string
	Summary     bool
	Quiet       bool
}

type envOverride struct {
	envKey string
	flag   string
	apply  func(*rawConfig, string) error
}

// rawConfig holds flag values before validation
type rawConfig struct {
	input       string
	dateColumn  string
	valueColumn string
	periods     int
	method      string
	format      string
	output      string
	plot        string
	profile     string
	profileDir  string
	summary     bool
	quiet       bool
}

func setString(field func(*rawConfig) *string) func(*rawConfig, string) error {
	return func(c *rawConfig, v string) error {
		*field(c) = v
		return nil
	}
}

func setBool(field func(*rawConfig) *bool) func(*rawConfig, string) error {
	return func(c *rawConfig, v string) error {
		parsed, err := parseBoolEnv(v)
		if err != nil {
			return err
		}
		*field(c) = parsed
		return nil
	}
}

var envOverrides = []envOverride{
	{"INPUT", "input", setString(func(c *rawConfig) *string { return &c.input })},
	{"DATE_COL", "date-col", setString(func(c *rawConfig) *string { return &c.dateColumn })},
	{"VALUE_COL", "value-col", setString(func(c *rawConfig) *string { return &c.valueColumn })},
	{"PERIODS", "periods", func(c *rawConfig, v string) error {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("got %q, expected an integer", v)
		}
		c.periods = parsed
		return nil
	}},
	{"METHOD", "method", setString(func(c *rawConfig) *string { return &c.method })},
	{"FORMAT", "format", setString(func(c *rawConfig) *string { return &c.format })},
	{"OUTPUT", "output", setString(func(c *rawConfig) *string { return &c.output })},
	{"PLOT", "plot", setString(func(c *rawConfig) *string { return &c.plot })},
	{"PROFILE", "profile", setString(func(c *rawConfig) *string { return &c.profile })},
	{"PROFILE_DIR", "profile-dir", setString(func(c *rawConfig) *string { return &c.profileDir })},
	{"SUMMARY", "summary", setBool(func(c *rawConfig) *bool { return &c.summary })},
	{"QUIET", "quiet", setBool(func(c *rawConfig) *bool { return &c.quiet })},
}

// parseConfig reads flags from args, then fills every unset flag from the
// environment. A .env file in the working directory is loaded first if present.
func parseConfig(args []string, stderr io.Writer) (*Config, error) {
	var raw rawConfig

	fs := flag.NewFlagSet("salesforecast", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&raw.input, "input", "-", "sales CSV to read, - for stdin")
	fs.StringVar(&raw.dateColumn, "date-col", salesforecaster.DefaultDateColumn, "name of the date column")
	fs.StringVar(&raw.valueColumn, "value-col", salesforecaster.DefaultValueColumn, "name of the revenue column")
	fs.IntVar(&raw.periods, "periods", defaultPeriods, "number of days to forecast")
	fs.StringVar(&raw.method, "method", salesforecaster.MethodSeasonal.String(), "seasonal-decomposition or autoregressive")
	fs.StringVar(&raw.format, "format", formatCSV, "output format, csv or json")
	fs.StringVar(&raw.output, "output", "", "file to write the forecast to, stdout if empty")
	fs.StringVar(&raw.plot, "plot", "", "html file to render the forecast chart to")
	fs.StringVar(&raw.profile, "profile", "", "enable cpu or mem profiling")
	fs.StringVar(&raw.profileDir, "profile-dir", ".", "directory for profile output")
	fs.BoolVar(&raw.summary, "summary", false, "print the fitted model summary to stderr")
	fs.BoolVar(&raw.quiet, "quiet", false, "disable the progress spinner and info logs")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	_ = godotenv.Load(".env")
	if err := applyEnvOverrides(&raw, fs); err != nil {
		return nil, err
	}
	return raw.validate()
}

// applyEnvOverrides fills every flag not set on the command line from its environment
// variable. A value that cannot be parsed is an error, as it would be for the flag.
func applyEnvOverrides(raw *rawConfig, fs *flag.FlagSet) error {
	for _, o := range envOverrides {
		if isFlagSet(fs, o.flag) {
			continue
		}
		v := os.Getenv(EnvPrefix + o.envKey)
		if v == "" {
			continue
		}
		if err := o.apply(raw, v); err != nil {
			return fmt.Errorf("%w %s%s, %v", ErrInvalidEnv, EnvPrefix, o.envKey, err)
		}
	}
	return nil
}

func (r *rawConfig) validate() (*Config, error) {
	method, err := salesforecaster.ParseMethod(r.method)
	if err != nil {
		return nil, err
	}
	if r.periods < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidPeriods, r.periods)
	}

	format := strings.ToLower(strings.TrimSpace(r.format))
	if format != formatCSV && format != formatJSON {
		return nil, fmt.Errorf("%w, got %q", ErrInvalidFormat, r.format)
	}

	prof := strings.ToLower(strings.TrimSpace(r.profile))
	if prof != "" && prof != profileCPU && prof != profileMem {
		return nil, fmt.Errorf("%w, got %q", ErrInvalidProfile, r.profile)
	}

	return &Config{
		Input:       r.input,
		DateColumn:  r.dateColumn,
		ValueColumn: r.valueColumn,
		Periods:     r.periods,
		Method:      method,
		Format:      format,
		Output:      r.output,
		Plot:        r.plot,
		Profile:     prof,
		ProfileDir:  r.profileDir,
		Summary:     r.summary,
		Quiet:       r.quiet,
	}, nil
}

func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// parseBoolEnv accepts true/1/yes and false/0/no
func parseBoolEnv(val string) (bool, error) {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("got %q, expected true or false", val)
}
