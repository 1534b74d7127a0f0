package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/matzehuels/stackmotion/pkg/blocks"
	"github.com/matzehuels/stackmotion/pkg/claim"
	"github.com/matzehuels/stackmotion/pkg/errors"
	"github.com/matzehuels/stackmotion/pkg/pipeline"
	"github.com/matzehuels/stackmotion/pkg/render"
	"github.com/matzehuels/stackmotion/pkg/trajectory"
)

const (
	rendererRaster  = "raster"  // in-process fogleman/gg renderer
	rendererCommand = "command" // external program per frame

	claimNone  = "none"  // single worker
	claimFile  = "file"  // O_EXCL claim files under the output root
	claimRedis = "redis" // SET NX claims shared across hosts
)

// Config is the full configuration of a generate run. It is read from a
// TOML file and then overridden by explicitly set flags.
type Config struct {
	Run     pipeline.Options `toml:"run"`
	Model   modelConfig      `toml:"model"`
	Render  renderConfig     `toml:"render"`
	Claim   claimConfig      `toml:"claim"`
	Metrics metricsConfig    `toml:"metrics"`
}

type modelConfig struct {
	Objects   int       `toml:"objects"`
	GridSize  int       `toml:"grid_size"`
	Spacing   float64   `toml:"spacing"`
	MaxStack  int       `toml:"max_stack"`
	StackProb float64   `toml:"stack_prob"`
	Jitter    float64   `toml:"jitter"`
	Shapes    []string  `toml:"shapes"`
	Materials []string  `toml:"materials"`
	Sizes     []float64 `toml:"sizes"`
	Seed      uint64    `toml:"seed"`
}

type renderConfig struct {
	Backend string   `toml:"backend"`
	Command []string `toml:"command"`
	Width   int      `toml:"width"`
	Height  int      `toml:"height"`
	Scale   float64  `toml:"scale"`
}

type claimConfig struct {
	Backend       string   `toml:"backend"`
	TTL           duration `toml:"ttl"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	RedisPrefix   string   `toml:"redis_prefix"`
}

type metricsConfig struct {
	Addr string `toml:"addr"`
}

// duration decodes TOML strings such as "90m".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// defaultConfig returns the configuration used when no file or flag says
// otherwise.
func defaultConfig() Config {
	m := blocks.DefaultConfig()
	cam := render.DefaultCamera()
	return Config{
		Run: pipeline.Options{
			Count:       pipeline.DefaultCount,
			Frames:      pipeline.DefaultFrames,
			Actions:     pipeline.Ptr(pipeline.DefaultActions),
			OutputDir:   pipeline.DefaultOutputDir,
			MaxAttempts: pipeline.DefaultMaxAttempts,
		},
		Model: modelConfig{
			Objects:   m.Objects,
			GridSize:  m.GridSize,
			Spacing:   m.Spacing,
			MaxStack:  m.MaxStack,
			StackProb: m.StackProb,
			Jitter:    m.Jitter,
			Shapes:    m.Shapes,
			Materials: m.Materials,
			Sizes:     m.Sizes,
			Seed:      m.Seed,
		},
		Render: renderConfig{
			Backend: rendererRaster,
			Width:   cam.Width,
			Height:  cam.Height,
			Scale:   cam.Scale,
		},
		Claim: claimConfig{
			Backend:     claimNone,
			TTL:         duration{claim.DefaultTTL},
			RedisAddr:   "localhost:6379",
			RedisPrefix: appName + ":",
		},
	}
}

// loadConfig reads path over the defaults. An empty path falls back to the
// user config file if one exists. Unknown keys are rejected so typos do not
// silently fall back to defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		if _, err := os.Stat(p); err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeConfiguration, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeConfiguration, "unknown config key %q in %s", undecoded[0].String(), path)
	}
	return cfg, nil
}

// configPath returns the user config file using XDG standard
// (~/.config/stackmotion/config.toml).
func configPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// validate checks the parts of the configuration the run options do not
// cover.
func (c *Config) validate() error {
	if err := c.Run.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if err := c.Model.blocks().Validate(); err != nil {
		return err
	}
	switch c.Render.Backend {
	case rendererRaster:
		if err := c.Render.camera().Validate(); err != nil {
			return err
		}
	case rendererCommand:
		if len(c.Render.Command) == 0 {
			return errors.New(errors.ErrCodeConfiguration, "render.command is required for the command renderer")
		}
	default:
		return errors.New(errors.ErrCodeConfiguration, "invalid renderer: %q (must be one of: raster, command)", c.Render.Backend)
	}
	switch c.Claim.Backend {
	case claimNone, claimFile, claimRedis:
	default:
		return errors.New(errors.ErrCodeConfiguration, "invalid claim backend: %q (must be one of: none, file, redis)", c.Claim.Backend)
	}
	if c.Claim.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeConfiguration, "claim ttl must be >= 0")
	}
	return nil
}

func (m modelConfig) blocks() blocks.Config {
	return blocks.Config{
		Objects:   m.Objects,
		GridSize:  m.GridSize,
		Spacing:   m.Spacing,
		MaxStack:  m.MaxStack,
		StackProb: m.StackProb,
		Jitter:    m.Jitter,
		Shapes:    m.Shapes,
		Materials: m.Materials,
		Sizes:     m.Sizes,
		Seed:      m.Seed,
	}
}

func (r renderConfig) camera() render.Camera {
	cam := render.DefaultCamera()
	cam.Width = r.Width
	cam.Height = r.Height
	cam.Scale = r.Scale
	return cam
}

// =============================================================================
// Flags
// =============================================================================

// runFlags holds flag values; only flags the user set override the config.
type runFlags struct {
	configPath string
	cfg        Config

	// Optional run fields bind here; the override copies them into pointers.
	actions   int
	threshold float64
}

// addRunFlags registers the generate flags, defaulting to defaultConfig.
func addRunFlags(fs *pflag.FlagSet, f *runFlags) {
	f.cfg = defaultConfig()
	c := &f.cfg

	fs.StringVarP(&f.configPath, "config", "c", "", "TOML config file (default ~/.config/stackmotion/config.toml if present)")

	fs.IntVar(&c.Run.StartIndex, "start", c.Run.StartIndex, "first transition index")
	fs.IntVarP(&c.Run.Count, "count", "n", c.Run.Count, "number of transitions")
	fs.IntVarP(&c.Run.Frames, "frames", "f", c.Run.Frames, "frames per transition")
	fs.IntVar(&f.actions, "actions", pipeline.DefaultActions, "random actions from pre to goal (0 keeps goal = pre)")
	fs.StringVarP(&c.Run.OutputDir, "output", "o", c.Run.OutputDir, "output root directory")
	fs.StringVar(&c.Run.Prefix, "prefix", "", "artifact file prefix (default CLEVR)")
	fs.Float64Var(&f.threshold, "threshold", trajectory.DefaultActiveThreshold, "minimum distance for an object to move")
	fs.IntVar(&c.Run.MaxAttempts, "max-attempts", c.Run.MaxAttempts, "synthesis attempts before a transition fails")
	fs.BoolVar(&c.Run.NoJitter, "no-jitter", false, "render exact trajectory states")

	fs.IntVar(&c.Model.Objects, "objects", c.Model.Objects, "objects per scene")
	fs.Uint64Var(&c.Model.Seed, "seed", c.Model.Seed, "random seed for scene sampling")

	fs.StringVar(&c.Render.Backend, "renderer", c.Render.Backend, "renderer: raster or command")
	fs.StringSliceVar(&c.Render.Command, "render-cmd", nil, "command renderer argv (comma-separated)")
	fs.IntVar(&c.Render.Width, "width", c.Render.Width, "image width in pixels")
	fs.IntVar(&c.Render.Height, "height", c.Render.Height, "image height in pixels")

	fs.StringVar(&c.Claim.Backend, "claim", c.Claim.Backend, "claim backend: none, file or redis")
	fs.DurationVar(&c.Claim.TTL.Duration, "claim-ttl", c.Claim.TTL.Duration, "age after which a claim is considered stale")
	fs.StringVar(&c.Claim.RedisAddr, "redis-addr", c.Claim.RedisAddr, "redis address for --claim redis")

	fs.StringVar(&c.Metrics.Addr, "metrics-addr", "", "serve Prometheus metrics on this address")
}

// resolve loads the config file and applies every flag the user set.
func (f *runFlags) resolve(fs *pflag.FlagSet) (Config, error) {
	cfg, err := loadConfig(f.configPath)
	if err != nil {
		return cfg, err
	}
	src := &f.cfg
	overrides := map[string]func(){
		"start":        func() { cfg.Run.StartIndex = src.Run.StartIndex },
		"count":        func() { cfg.Run.Count = src.Run.Count },
		"frames":       func() { cfg.Run.Frames = src.Run.Frames },
		"actions":      func() { cfg.Run.Actions = pipeline.Ptr(f.actions) },
		"output":       func() { cfg.Run.OutputDir = src.Run.OutputDir },
		"prefix":       func() { cfg.Run.Prefix = src.Run.Prefix },
		"threshold":    func() { cfg.Run.ActiveThreshold = pipeline.Ptr(f.threshold) },
		"max-attempts": func() { cfg.Run.MaxAttempts = src.Run.MaxAttempts },
		"no-jitter":    func() { cfg.Run.NoJitter = src.Run.NoJitter },
		"objects":      func() { cfg.Model.Objects = src.Model.Objects },
		"seed":         func() { cfg.Model.Seed = src.Model.Seed },
		"renderer":     func() { cfg.Render.Backend = src.Render.Backend },
		"render-cmd":   func() { cfg.Render.Command = src.Render.Command },
		"width":        func() { cfg.Render.Width = src.Render.Width },
		"height":       func() { cfg.Render.Height = src.Render.Height },
		"claim":        func() { cfg.Claim.Backend = src.Claim.Backend },
		"claim-ttl":    func() { cfg.Claim.TTL = src.Claim.TTL },
		"redis-addr":   func() { cfg.Claim.RedisAddr = src.Claim.RedisAddr },
		"metrics-addr": func() { cfg.Metrics.Addr = src.Metrics.Addr },
	}
	fs.Visit(func(fl *pflag.Flag) {
		if apply, ok := overrides[fl.Name]; ok {
			apply()
		}
	})
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
