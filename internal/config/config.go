// Load envs from .env
// Load YAML config
// Override with env vars
// Provide default values, validate

package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"go-linkedin-jobs/internal/scraper"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

// Output formats understood by the export package.
const (
	FormatCSV  = "csv"
	FormatTSV  = "tsv"
	FormatJSON = "json"
)

type Timeouts struct {
	Run        time.Duration `yaml:"run"`
	Navigation time.Duration `yaml:"navigation"`
	Element    time.Duration `yaml:"element"`
	Results    time.Duration `yaml:"results"`
	Settle     time.Duration `yaml:"settle"`
	Poll       time.Duration `yaml:"poll"`
}

// Selectors describe the guest LinkedIn jobs pages. Override them in YAML when the site layout changes.
type Selectors struct {
	JobsNav       scraper.Selector `yaml:"jobs_nav"`
	KeywordsInput scraper.Selector `yaml:"keywords_input"`
	LocationInput scraper.Selector `yaml:"location_input"`
	ResultsList   scraper.Selector `yaml:"results_list"`
	ResultItem    scraper.Selector `yaml:"result_item"`
	Title         scraper.Selector `yaml:"title"`
	Subtitle      scraper.Selector `yaml:"subtitle"`
	Location      scraper.Selector `yaml:"location"`
	DatePosted    scraper.Selector `yaml:"date_posted"`
	SeeMore       scraper.Selector `yaml:"see_more"`
	EndOfResults  scraper.Selector `yaml:"end_of_results"`
}

type Config struct {
	//Browser
	DriverPath  string `yaml:"driver_path" env:"PLAYWRIGHT_DRIVER_PATH"`
	BrowserPath string `yaml:"browser_path" env:"LINKEDIN_BROWSER_PATH"`
	Headless    bool   `yaml:"headless"`
	CookiesPath string `yaml:"cookies_path"`
	LandingURL  string `yaml:"landing_url"`
	//Search criteria
	JobTitle    string `yaml:"job_title" env:"LINKEDIN_JOB_TITLE"`
	JobLocation string `yaml:"job_location" env:"LINKEDIN_JOB_LOCATION"`
	//Paths
	OutputDir    string `yaml:"output_dir"`
	OutputFormat string `yaml:"output_format"`
	DebugDir     string `yaml:"debug_dir"`
	SnapshotPath string `yaml:"snapshot_path"`
	//Pagination
	MaxScrollIterations int           `yaml:"max_scroll_iterations"`
	ClickInterval       time.Duration `yaml:"click_interval"`
	Timeouts            Timeouts      `yaml:"timeouts"`
	//Reporting
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`

	Selectors Selectors `yaml:"selectors"`
}

func DefaultSelectors() Selectors {
	return Selectors{
		JobsNav:       scraper.Selector{CSS: `li a[data-tracking-control-name="guest_homepage-basic_guest_nav_menu_jobs"]`},
		KeywordsInput: scraper.Selector{CSS: `section input#job-search-bar-keywords`},
		LocationInput: scraper.Selector{CSS: `section input#job-search-bar-location`},
		ResultsList:   scraper.Selector{CSS: `ul.jobs-search__results-list`},
		ResultItem:    scraper.Selector{CSS: `ul.jobs-search__results-list > li`},
		Title:         scraper.Selector{CSS: `div.base-search-card__info h3.base-search-card__title`},
		Subtitle:      scraper.Selector{CSS: `h4.base-search-card__subtitle`},
		Location:      scraper.Selector{CSS: `div.base-search-card__metadata span.job-search-card__location`},
		DatePosted:    scraper.Selector{CSS: `div.base-search-card__metadata time`},
		SeeMore:       scraper.Selector{CSS: `button[aria-label="See more jobs"]`},
		EndOfResults:  scraper.Selector{CSS: `p`, Text: "viewed all jobs for this search"},
	}
}

func Default() *Config {
	return &Config{
		Headless:            true,
		LandingURL:          "https://www.linkedin.com/",
		OutputDir:           ".",
		OutputFormat:        FormatCSV,
		DebugDir:            "logs/screenshots",
		MaxScrollIterations: 200,
		ClickInterval:       time.Second,
		Timeouts: Timeouts{
			Run:        10 * time.Minute,
			Navigation: 30 * time.Second,
			Element:    15 * time.Second,
			Results:    30 * time.Second,
			Settle:     5 * time.Second,
			Poll:       250 * time.Millisecond,
		},
		Selectors: DefaultSelectors(),
	}
}

// Load builds a Config from defaults, the YAML file at path (optional) and the environment.
// It does not validate; call Validate once flags have been applied.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		case len(strings.TrimSpace(string(data))) > 0:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	//Override with env vars
	if v := os.Getenv("PLAYWRIGHT_DRIVER_PATH"); v != "" {
		cfg.DriverPath = v
	}
	if v := os.Getenv("LINKEDIN_BROWSER_PATH"); v != "" {
		cfg.BrowserPath = v
	}
	if v := os.Getenv("LINKEDIN_JOB_TITLE"); v != "" {
		cfg.JobTitle = v
	}
	if v := os.Getenv("LINKEDIN_JOB_LOCATION"); v != "" {
		cfg.JobLocation = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.TelegramToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = id
	}

	return cfg, nil
}

// ValidationError lists every problem found by Validate.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid config: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// Validate checks the fields needed for a browser scrape.
func (c *Config) Validate() error {
	res := &ValidationError{}

	if strings.TrimSpace(c.JobTitle) == "" {
		res.add("job_title is required")
	}
	if strings.TrimSpace(c.LandingURL) == "" {
		res.add("landing_url is required")
	}
	if err := c.ValidateOutput(); err != nil {
		res.add("%v", err)
	}
	if c.MaxScrollIterations <= 0 {
		res.add("max_scroll_iterations must be positive")
	}
	if c.ClickInterval < 0 {
		res.add("click_interval must not be negative")
	}

	for name, d := range map[string]time.Duration{
		"run":        c.Timeouts.Run,
		"navigation": c.Timeouts.Navigation,
		"element":    c.Timeouts.Element,
		"results":    c.Timeouts.Results,
		"settle":     c.Timeouts.Settle,
		"poll":       c.Timeouts.Poll,
	} {
		if d <= 0 {
			res.add("timeouts.%s must be positive", name)
		}
	}

	if (c.TelegramToken == "") != (c.TelegramChatID == 0) {
		res.add("telegram_token and telegram_chat_id must be set together")
	}

	res.Problems = append(res.Problems, c.Selectors.problems()...)

	if len(res.Problems) == 0 {
		return nil
	}
	sort.Strings(res.Problems)
	return res
}

// ValidateOutput checks only what the offline extract command needs.
func (c *Config) ValidateOutput() error {
	switch c.OutputFormat {
	case FormatCSV, FormatTSV, FormatJSON:
		return nil
	default:
		return fmt.Errorf("unknown output_format %q", c.OutputFormat)
	}
}

// NotifyEnabled reports whether Telegram credentials are configured.
func (c *Config) NotifyEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func (s Selectors) problems() []string {
	var out []string
	named := map[string]scraper.Selector{
		"jobs_nav":       s.JobsNav,
		"keywords_input": s.KeywordsInput,
		"location_input": s.LocationInput,
		"results_list":   s.ResultsList,
		"result_item":    s.ResultItem,
		"title":          s.Title,
		"subtitle":       s.Subtitle,
		"location":       s.Location,
		"date_posted":    s.DatePosted,
		"see_more":       s.SeeMore,
		"end_of_results": s.EndOfResults,
	}
	for name, sel := range named {
		if strings.TrimSpace(sel.CSS) == "" {
			out = append(out, fmt.Sprintf("selectors.%s.css is required", name))
		}
	}
	return out
}
