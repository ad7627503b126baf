package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. Nested sections
// improve readability and map naturally to flags.
type FileConfig struct {
	URL string `yaml:"url" json:"url"`

	Out struct {
		Dir  string `yaml:"dir" json:"dir"`
		Base string `yaml:"base" json:"base"`
	} `yaml:"out" json:"out"`

	Pages  []int `yaml:"pages" json:"pages"`
	Static bool  `yaml:"static" json:"static"`

	Browser struct {
		Headless   *bool    `yaml:"headless" json:"headless"`
		UserAgent  string   `yaml:"ua" json:"ua"`
		Executable string   `yaml:"executable" json:"executable"`
		Navigate   duration `yaml:"navigate" json:"navigate"`
		Timeout    duration `yaml:"timeout" json:"timeout"`
		Settle     duration `yaml:"settle" json:"settle"`
	} `yaml:"browser" json:"browser"`

	Consent struct {
		Selectors []string `yaml:"selectors" json:"selectors"`
		Probe     duration `yaml:"probe" json:"probe"`
	} `yaml:"consent" json:"consent"`

	Report struct {
		Manifest string `yaml:"manifest" json:"manifest"`
		PDF      string `yaml:"pdf" json:"pdf"`
	} `yaml:"report" json:"report"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// duration accepts "10s"-style strings (and raw nanosecond numbers) in both
// YAML and JSON, which stock time.Duration does not.
type duration time.Duration

func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		v, perr := time.ParseDuration(s)
		if perr != nil {
			return fmt.Errorf("invalid duration %q: %w", s, perr)
		}
		*d = duration(v)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration: %s", value.Value)
	}
	*d = duration(n)
	return nil
}

func (d *duration) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = duration(v)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*d = duration(n)
	return nil
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// Merge overlays file values onto cfg wherever cfg still carries its zero
// value or its flag default, so only flags the user actually set win over
// the file.
func (fc FileConfig) Merge(cfg *Config) {
	if cfg.BaseURL == "" && fc.URL != "" {
		cfg.BaseURL = fc.URL
	}
	if cfg.OutDir == "" && fc.Out.Dir != "" {
		cfg.OutDir = fc.Out.Dir
	}
	if cfg.BaseName == "" && fc.Out.Base != "" {
		cfg.BaseName = fc.Out.Base
	}
	if len(cfg.Pages) == 0 && len(fc.Pages) > 0 {
		cfg.Pages = append([]int{}, fc.Pages...)
	}
	if !cfg.Static && fc.Static {
		cfg.Static = true
	}
	if fc.Browser.Headless != nil {
		cfg.Headless = *fc.Browser.Headless
	}
	if (cfg.UserAgent == "" || cfg.UserAgent == DefaultUserAgent) && fc.Browser.UserAgent != "" {
		cfg.UserAgent = fc.Browser.UserAgent
	}
	if cfg.BrowserExecutable == "" && fc.Browser.Executable != "" {
		cfg.BrowserExecutable = fc.Browser.Executable
	}
	if (cfg.NavigateTimeout == 0 || cfg.NavigateTimeout == DefaultNavigateTimeout) && fc.Browser.Navigate > 0 {
		cfg.NavigateTimeout = time.Duration(fc.Browser.Navigate)
	}
	if (cfg.TableTimeout == 0 || cfg.TableTimeout == DefaultTableTimeout) && fc.Browser.Timeout > 0 {
		cfg.TableTimeout = time.Duration(fc.Browser.Timeout)
	}
	if (cfg.SettleDelay == 0 || cfg.SettleDelay == DefaultSettleDelay) && fc.Browser.Settle > 0 {
		cfg.SettleDelay = time.Duration(fc.Browser.Settle)
	}
	if len(cfg.ConsentSelectors) == 0 && len(fc.Consent.Selectors) > 0 {
		cfg.ConsentSelectors = append([]string{}, fc.Consent.Selectors...)
	}
	if (cfg.ConsentProbe == 0 || cfg.ConsentProbe == DefaultConsentProbe) && fc.Consent.Probe > 0 {
		cfg.ConsentProbe = time.Duration(fc.Consent.Probe)
	}
	if cfg.ManifestPath == "" && fc.Report.Manifest != "" {
		cfg.ManifestPath = fc.Report.Manifest
	}
	if cfg.PDFPath == "" && fc.Report.PDF != "" {
		cfg.PDFPath = fc.Report.PDF
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}
