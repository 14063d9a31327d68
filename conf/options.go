package conf

import (
	"fmt"
	"strings"
)

// AppConfig 是站点运行时在启动时只读取一次的配置。
// 未识别的顶层键保存在 Extra 中，新版本运行时写的文档也能加载。
type AppConfig struct {
	StrictMode bool          `yaml:"strictMode" json:"strictMode"`
	Server     ServerConfig  `yaml:"server" json:"server"`
	Site       SiteConfig    `yaml:"site" json:"site"`
	Content    ContentConfig `yaml:"content" json:"content"`

	Extra map[string]any `yaml:",inline" json:"extra,omitempty"`
}

type ServerConfig struct {
	Bind string `yaml:"bind" json:"bind"`
}

type SiteConfig struct {
	Title string `yaml:"title" json:"title"`
}

// ContentConfig 由内容处理器的变换填充。
type ContentConfig struct {
	Mount          string   `yaml:"mount" json:"mount"`
	Dir            string   `yaml:"dir" json:"dir"`
	PageExtensions []string `yaml:"pageExtensions" json:"pageExtensions"`
}

// Transform 把一个 AppConfig 映射为另一个；实现不得原地修改参数中的切片或 map。
type Transform func(AppConfig) AppConfig

// Clone 返回 c 的深拷贝。
func (c AppConfig) Clone() AppConfig {
	out := c
	if c.Content.PageExtensions != nil {
		out.Content.PageExtensions = append([]string(nil), c.Content.PageExtensions...)
	}
	if c.Extra != nil {
		out.Extra = cloneValue(c.Extra).(map[string]any)
	}
	return out
}

// cloneValue 深拷贝 YAML 解码得到的值；map[any]any 会转为 map[string]any。
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = cloneValue(e)
		}
		return m
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = cloneValue(e)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = cloneValue(e)
		}
		return s
	default:
		return v
	}
}

// Lookup 按点号路径读取扩展键，例如 "i18n.defaultLocale"。
func (c AppConfig) Lookup(path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	var node any = c.Extra
	for _, p := range strings.Split(path, ".") {
		mm, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		node, ok = mm[p]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

// LookupString 同 Lookup，但仅返回字符串值。
func (c AppConfig) LookupString(path string) string {
	v, ok := c.Lookup(path)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
