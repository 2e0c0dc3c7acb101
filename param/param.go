package param

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/readahead"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	db "mmbench/debug"
)

const (
	CONFIG_ENV = "MMBENCH_CONFIG"
	ENV_PREFIX = "MMBENCH_"

	// Use the platform's worker count.
	DEFAULT_THREADS = -1

	PARTITION_CONTIGUOUS = "contiguous"
	PARTITION_STRIDED    = "strided"
)

var defaults = `
size: 1024
threads: -1
budget: 1s
poll_interval: 1
partition: contiguous
seed: 0
low: 0
high: 9
print: false
perf:
  cpu_util_sample_hz: 50
`

type Config struct {
	// Matrix dimension N.
	Size int `yaml:"size" mapstructure:"size"`
	// Worker count; -1 selects the platform default.
	Threads int `yaml:"threads" mapstructure:"threads"`
	// Time budget for the multiply phase; negative means unlimited.
	Budget time.Duration `yaml:"budget" mapstructure:"budget"`
	// Innermost iterations between clock reads.
	PollInterval int `yaml:"poll_interval" mapstructure:"poll_interval"`
	// How rows are dealt to workers.
	Partition string `yaml:"partition" mapstructure:"partition"`
	Seed      uint64 `yaml:"seed" mapstructure:"seed"`
	// Range of the random operand values.
	Low  int `yaml:"low" mapstructure:"low"`
	High int `yaml:"high" mapstructure:"high"`
	// Print the result matrix after the run.
	Print bool `yaml:"print" mapstructure:"print"`
	Perf  struct {
		CPU_UTIL_SAMPLE_HZ int `yaml:"cpu_util_sample_hz" mapstructure:"cpu_util_sample_hz"`
	} `yaml:"perf" mapstructure:"perf"`
}

func (cfg Config) String() string {
	return fmt.Sprintf("&{ Size:%v Threads:%v Budget:%v PollInterval:%v Partition:%v Seed:%v Low:%v High:%v Print:%v }",
		cfg.Size, cfg.Threads, cfg.Budget, cfg.PollInterval, cfg.Partition, cfg.Seed, cfg.Low, cfg.High, cfg.Print)
}

func (cfg Config) Validate() error {
	if cfg.Size < 0 {
		return fmt.Errorf("bad size %d", cfg.Size)
	}
	if cfg.Threads != DEFAULT_THREADS && cfg.Threads < 1 {
		return fmt.Errorf("bad thread count %d", cfg.Threads)
	}
	if cfg.PollInterval < 1 {
		return fmt.Errorf("bad poll interval %d", cfg.PollInterval)
	}
	if cfg.Partition != PARTITION_CONTIGUOUS && cfg.Partition != PARTITION_STRIDED {
		return fmt.Errorf("unknown partition %q", cfg.Partition)
	}
	if cfg.Low > cfg.High {
		return fmt.Errorf("bad value range [%d, %d]", cfg.Low, cfg.High)
	}
	return nil
}

func Default() Config {
	cfg, err := ReadConfig(defaults)
	if err != nil {
		db.DFatalf("Yaml decode defaults err %v", err)
	}
	return cfg
}

func ReadConfig(params string) (Config, error) {
	return decode(strings.NewReader(params), Config{})
}

// decode overlays the YAML document in rd onto base.
func decode(rd io.Reader, base Config) (Config, error) {
	cfg := base
	d := yaml.NewDecoder(rd)
	if err := d.Decode(&cfg); err != nil && err != io.EOF {
		return base, err
	}
	return cfg, nil
}

func ReadConfigFile(base Config, pn string) (Config, error) {
	f, err := os.Open(pn)
	if err != nil {
		return base, err
	}
	defer f.Close()
	rd := readahead.NewReader(f)
	defer rd.Close()
	return decode(rd, base)
}

// ApplyEnv overrides fields of base with MMBENCH_<FIELD> variables from
// env, e.g. MMBENCH_BUDGET=250ms or MMBENCH_POLL_INTERVAL=64.
func ApplyEnv(base Config, env []string) (Config, error) {
	m := make(map[string]interface{})
	for _, kv := range env {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(k, ENV_PREFIX) || k == CONFIG_ENV {
			continue
		}
		m[strings.ToLower(strings.TrimPrefix(k, ENV_PREFIX))] = v
	}
	if len(m) == 0 {
		return base, nil
	}
	cfg := base
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return base, err
	}
	if err := d.Decode(m); err != nil {
		return base, err
	}
	return cfg, nil
}

// Load builds the process configuration: defaults, then the file named
// by MMBENCH_CONFIG, then MMBENCH_* variables.
func Load() (Config, error) {
	cfg := Default()
	if pn := os.Getenv(CONFIG_ENV); pn != "" {
		var err error
		if cfg, err = ReadConfigFile(cfg, pn); err != nil {
			return cfg, fmt.Errorf("config %v: %v", pn, err)
		}
	}
	cfg, err := ApplyEnv(cfg, os.Environ())
	if err != nil {
		return cfg, fmt.Errorf("env: %v", err)
	}
	db.DPrintf(db.PARAM, "Loaded config %v", cfg)
	return cfg, nil
}
