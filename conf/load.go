package conf

import (
	"errors"
	"fmt"
	"os"

	provider "docsite/conf/provider"

	"gopkg.in/yaml.v3"
)

const DefaultBind = ":8080"

var ErrNoContent = errors.New("no config content from provider")

// Load 读取并解析单个 YAML 配置文件。
func Load(path string) (AppConfig, error) {
	var cfg AppConfig

	if path == "" {
		return cfg, errors.New("config path is empty")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := decode(b, &cfg); err != nil {
		return cfg, err
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)

	return cfg, Validate(cfg)
}

// Validate 对运行时必需的字段进行最小校验。
func Validate(c AppConfig) error {
	if c.Server.Bind == "" {
		return errors.New("server.bind can't be empty")
	}
	return nil
}

// LoadFromProvider 按顺序把 Provider 的所有文档解析到同一份配置上，
// 后面的文档只覆盖它自己设置的键。
func LoadFromProvider(p provider.Provider) (AppConfig, error) {
	var cfg AppConfig
	contents, err := p.Open()
	if err != nil {
		return cfg, err
	}
	if len(contents) == 0 {
		return cfg, ErrNoContent
	}
	for _, c := range contents {
		if err := decode([]byte(c.Payload), &cfg); err != nil {
			return cfg, fmt.Errorf("%s/%s: %w", c.Group, c.ID, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// decode 把 b 解析到 cfg 之上；之前文档的扩展键保留，除非 b 重新设置。
// 非字符串键（如 404:）统一转为字符串，保证可 JSON 序列化。
func decode(b []byte, cfg *AppConfig) error {
	prev := cfg.Extra
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if cfg.Extra != nil {
		cfg.Extra = cloneValue(cfg.Extra).(map[string]any)
	}
	if len(prev) == 0 {
		return nil
	}
	merged := make(map[string]any, len(prev)+len(cfg.Extra))
	for k, v := range prev {
		merged[k] = v
	}
	for k, v := range cfg.Extra {
		merged[k] = v
	}
	cfg.Extra = merged
	return nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Bind == "" {
		cfg.Server.Bind = DefaultBind
	}
}
