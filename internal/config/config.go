// internal/config/config.go
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Hub struct {
		URL   string `yaml:"url,omitempty"`
		Token string `yaml:"token,omitempty"`
	} `yaml:"hub"`
	Inference struct {
		URL string `yaml:"url,omitempty"`
		// Model IDs that bypass automatic provider selection.
		PinnedProviders map[string]string `yaml:"pinned_providers,omitempty"`
	} `yaml:"inference"`
	// Provider error-message fragments that mean the account ran out of
	// inference credits. Matching is substring based and will silently
	// break if the provider rewords these.
	CreditErrorMarkers []string `yaml:"credit_error_markers,omitempty"`
	// Fallback models per task shown before a token is verified.
	DefaultModels map[string][]string `yaml:"default_models,omitempty"`
	Export        struct {
		Dir string `yaml:"dir,omitempty"`
	} `yaml:"export"`
}

func Load() (*Config, error) {
	path := ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		// Return defaults if no config file
		return defaultConfig(), nil
	}

	// Expand environment variables in config
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	// Apply defaults for unset values
	applyDefaults(&cfg)

	return &cfg, nil
}

func defaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Hub.URL == "" {
		cfg.Hub.URL = "https://huggingface.co"
	}
	if cfg.Hub.Token == "" {
		cfg.Hub.Token = os.Getenv("HF_TOKEN")
	}
	if cfg.Inference.URL == "" {
		cfg.Inference.URL = "https://router.huggingface.co"
	}
	if cfg.Inference.PinnedProviders == nil {
		cfg.Inference.PinnedProviders = map[string]string{
			"facebook/mms-tts-eng": "hf-inference",
		}
	}
	if len(cfg.CreditErrorMarkers) == 0 {
		cfg.CreditErrorMarkers = []string{
			"Subscribe to PRO",
			"exceeded your monthly included credits",
		}
	}
	if cfg.DefaultModels == nil {
		cfg.DefaultModels = map[string][]string{
			"text-generation": {
				"meta-llama/Llama-3.2-3B-Instruct",
				"Qwen/Qwen2.5-7B-Instruct",
			},
			"text-to-image": {
				"black-forest-labs/FLUX.1-schnell",
				"stabilityai/stable-diffusion-xl-base-1.0",
			},
			"text-classification": {
				"distilbert/distilbert-base-uncased-finetuned-sst-2-english",
			},
			"summarization": {
				"facebook/bart-large-cnn",
			},
			"image-classification": {
				"google/vit-base-patch16-224",
			},
			"text-to-speech": {
				"facebook/mms-tts-eng",
			},
		}
	}
	if cfg.Export.Dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Export.Dir = filepath.Join(home, "hubchat")
		} else {
			cfg.Export.Dir = "."
		}
	}
}

func ConfigPath() string {
	configDir, _ := os.UserConfigDir()
	if configDir == "" {
		configDir = os.ExpandEnv("$HOME/.config")
	}
	return filepath.Join(configDir, "hubchat", "config.yaml")
}
