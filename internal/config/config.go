package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/searchroute/internal/errors"
	"github.com/vango-dev/searchroute/pkg/category"
	"github.com/vango-dev/searchroute/pkg/history"
	"github.com/vango-dev/searchroute/pkg/routepath"
	"github.com/vango-dev/searchroute/pkg/routestate"
	"github.com/vango-dev/searchroute/pkg/routing"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "searchroute.json"

	// YAMLConfigFileName is the name of the YAML configuration file.
	YAMLConfigFileName = "searchroute.yaml"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultShutdownTimeout is how long the server waits for requests on shutdown.
	DefaultShutdownTimeout = "10s"

	// DefaultMetricsNamespace prefixes every metric name.
	DefaultMetricsNamespace = "searchroute"
)

// Config represents the complete configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Server contains HTTP server configuration.
	Server ServerConfig `json:"server" yaml:"server"`

	// Routing contains URL routing configuration.
	Routing RoutingConfig `json:"routing" yaml:"routing"`

	// History contains history writer configuration for live sessions.
	History HistoryConfig `json:"history" yaml:"history"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty" yaml:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// CanonicalRedirect redirects search URLs that spell out default
	// values to their short form.
	CanonicalRedirect bool `json:"canonicalRedirect,omitempty" yaml:"canonicalRedirect,omitempty"`

	// ShutdownTimeout is the graceful shutdown window (e.g., "10s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty" yaml:"shutdownTimeout,omitempty"`

	// TrustedProxies lists proxy IPs or CIDRs whose forwarded headers
	// are believed.
	TrustedProxies []string `json:"trustedProxies,omitempty" yaml:"trustedProxies,omitempty"`
}

// RoutingConfig contains search URL settings.
type RoutingConfig struct {
	// Anchor is the path segment that marks the search page.
	Anchor string `json:"anchor,omitempty" yaml:"anchor,omitempty"`

	// WindowTitle is appended to every page title.
	WindowTitle string `json:"windowTitle,omitempty" yaml:"windowTitle,omitempty"`

	// Categories maps short URL aliases to category names.
	Categories map[string]string `json:"categories,omitempty" yaml:"categories,omitempty"`

	// HitsPerPage is the accepted set of page sizes.
	HitsPerPage routestate.Choice `json:"hitsPerPage" yaml:"hitsPerPage"`

	// SortBy is the accepted set of sort indices.
	SortBy routestate.Choice `json:"sortBy" yaml:"sortBy"`

	// Ratings is the accepted set of rating refinements.
	Ratings routestate.Choice `json:"ratings" yaml:"ratings"`
}

// HistoryConfig contains history writer settings.
type HistoryConfig struct {
	// Mode is "push" or "replace".
	Mode string `json:"mode,omitempty" yaml:"mode,omitempty"`

	// WriteDelay debounces history writes (e.g., "400ms").
	WriteDelay string `json:"writeDelay,omitempty" yaml:"writeDelay,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes /metrics and records request metrics.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled creates a span per request.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// TracerName is the name of the tracer.
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Routing: RoutingConfig{
			Anchor: routepath.DefaultAnchor,
		},
		History: HistoryConfig{
			Mode:       history.ModePush.String(),
			WriteDelay: history.DefaultWriteDelay.String(),
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultMetricsNamespace,
		},
		Tracing: TracingConfig{
			Enabled:    true,
			TracerName: "searchroute",
		},
	}
	c.applyDefaults()
	return c
}

// Load reads configuration from the specified directory.
// It looks for searchroute.json, then searchroute.yaml.
func Load(dir string) (*Config, error) {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName, "searchroute.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E121").
		WithDetail("No " + ConfigFileName + " or " + YAMLConfigFileName + " found in " + dir).
		WithSuggestion("Create one or run without --config to use the defaults")
}

// LoadFile reads configuration from the specified file path. Files ending
// in .yaml or .yml are read as YAML, everything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E121").
				WithDetail("No configuration file at " + path)
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	// Decoding merges into maps; start from none so the file's aliases
	// replace the built-in ones.
	cfg.Routing.Categories = nil

	if isYAML(path) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("E120").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that the file is valid YAML")
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("E120").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that the file is valid JSON")
		}
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path, as YAML or JSON
// depending on the extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		// Add newline at end of file
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E120").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	// Server
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	// Routing
	if c.Routing.Anchor == "" {
		c.Routing.Anchor = routepath.DefaultAnchor
	}
	if c.Routing.Categories == nil {
		c.Routing.Categories = make(map[string]string, len(category.DefaultAliases))
		for k, v := range category.DefaultAliases {
			c.Routing.Categories[k] = v
		}
	}
	if len(c.Routing.HitsPerPage.Accepted) == 0 {
		c.Routing.HitsPerPage = cloneChoice(routestate.HitsPerPageChoice)
	}
	if len(c.Routing.SortBy.Accepted) == 0 {
		c.Routing.SortBy = cloneChoice(routestate.SortByChoice)
	}
	if len(c.Routing.Ratings.Accepted) == 0 {
		c.Routing.Ratings = cloneChoice(routestate.RatingChoice)
	}

	// History
	if c.History.Mode == "" {
		c.History.Mode = history.ModePush.String()
	}
	if c.History.WriteDelay == "" {
		c.History.WriteDelay = history.DefaultWriteDelay.String()
	}

	// Observability
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = "searchroute"
	}
}

func cloneChoice(c routestate.Choice) routestate.Choice {
	return routestate.Choice{
		Accepted: append([]string(nil), c.Accepted...),
		Default:  c.Default,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E122").
			WithDetail("Port must be between 0 and 65535, got " + strconv.Itoa(c.Server.Port))
	}
	if _, err := category.NewCodec(c.Routing.Categories); err != nil {
		return errors.New("E123").Wrap(err).
			WithDetail(err.Error())
	}
	for name, choice := range map[string]routestate.Choice{
		"hitsPerPage": c.Routing.HitsPerPage,
		"sortBy":      c.Routing.SortBy,
		"ratings":     c.Routing.Ratings,
	} {
		if !choice.Valid() {
			return errors.New("E124").
				WithDetail("routing." + name + ": default " + strconv.Quote(choice.Default) + " is not in the accepted list")
		}
	}
	for name, value := range map[string]string{
		"server.shutdownTimeout": c.Server.ShutdownTimeout,
		"history.writeDelay":     c.History.WriteDelay,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return errors.New("E125").Wrap(err).
				WithDetail(name + ": " + err.Error())
		}
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// URL returns the base URL of the server.
func (c *Config) URL() string {
	return "http://" + c.Addr()
}

// ShutdownTimeout returns the parsed shutdown window. Invalid values give
// the default.
func (c *Config) ShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, DefaultShutdownTimeout)
}

// WriteDelay returns the parsed history write delay.
func (c *Config) WriteDelay() time.Duration {
	return parseDuration(c.History.WriteDelay, history.DefaultWriteDelay.String())
}

// HistoryOptions returns the options for a session history.
func (c *Config) HistoryOptions() []history.Option {
	return []history.Option{
		history.WithMode(history.ParseMode(c.History.Mode)),
		history.WriteDelay(c.WriteDelay()),
	}
}

// Router builds the URL router described by the routing section.
func (c *Config) Router() (*routing.Router, error) {
	codec, err := category.NewCodec(c.Routing.Categories)
	if err != nil {
		return nil, errors.New("E123").Wrap(err).WithDetail(err.Error())
	}
	return routing.New(
		routing.WithAnchor(c.Routing.Anchor),
		routing.WithCategories(codec),
		routing.WithFallbacks(routestate.FallbacksFor(c.Routing.HitsPerPage, c.Routing.SortBy, c.Routing.Ratings)),
		routing.WithWindowTitle(c.Routing.WindowTitle),
	), nil
}

func parseDuration(s, fallback string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName, "searchroute.yml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing a config file, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E121").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}
