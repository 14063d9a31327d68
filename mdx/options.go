// Package mdx 是内容处理器：把挂载选项转换为 conf.Transform，
// 将 markdown/MDX 页面接入站点配置。
package mdx

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const DefaultContentDir = "content"

var DefaultExtensions = []string{"md", "mdx"}

// Options 描述内容在路由空间中的挂载位置。
type Options struct {
	// Path 为 URL 挂载点，站点根目录为 "/"。
	Path string
	// ContentDir 页面源文件目录，为空时沿用基础配置。
	ContentDir string
	// Extensions 页面文件扩展名，不带点。
	Extensions []string
}

// DefaultOptions 将内容挂载到站点根目录，使用默认扩展名。
func DefaultOptions() Options {
	return Options{Path: "/", Extensions: append([]string(nil), DefaultExtensions...)}
}

var (
	extensionRe = regexp.MustCompile(`^[a-z0-9]+$`)
	// 只允许 URL 非保留字符；":" 与 "*" 会被路由当作通配符
	segmentRe = regexp.MustCompile(`^[A-Za-z0-9._~-]+$`)
)

func (o Options) validate() error {
	if err := validation.Validate(o.Path, validation.Required, validation.By(mountPath)); err != nil {
		return &ConfigurationError{Field: "path", Value: o.Path, Err: err}
	}
	for _, ext := range o.Extensions {
		if err := validation.Validate(normalizeExt(ext), validation.Required, validation.Match(extensionRe)); err != nil {
			return &ConfigurationError{Field: "extensions", Value: ext, Err: err}
		}
	}
	return nil
}

func mountPath(value any) error {
	s, _ := value.(string)
	if s == "/" {
		return nil
	}
	if !strings.HasPrefix(s, "/") {
		return errors.New("must start with /")
	}
	if strings.HasSuffix(s, "/") {
		return errors.New("must not end with /")
	}
	for _, seg := range strings.Split(s[1:], "/") {
		switch seg {
		case "":
			return errors.New("must not contain empty segments")
		case ".", "..":
			return errors.New("must not contain dot segments")
		}
		if err := validation.Validate(seg, validation.Match(segmentRe).Error("segment contains reserved characters")); err != nil {
			return err
		}
	}
	return nil
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
