package conf

import (
	"fmt"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
)

// envConfig 列出允许通过环境变量覆盖的配置项。
type envConfig struct {
	Bind  string `env:"DOCSITE_BIND"`
	Title string `env:"DOCSITE_TITLE"`
}

// applyEnv 将非空的环境变量值合并覆盖到 cfg。
func applyEnv(cfg *AppConfig) error {
	var e envConfig
	if err := env.Parse(&e); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	overrides := AppConfig{
		Server: ServerConfig{Bind: e.Bind},
		Site:   SiteConfig{Title: e.Title},
	}
	if err := mergo.Merge(cfg, overrides, mergo.WithOverride); err != nil {
		return fmt.Errorf("merge env: %w", err)
	}
	return nil
}
