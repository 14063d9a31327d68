// Package site 提供由 conf.AppConfig 描述的文档内容。
// 配置只在 New 中读取一次，之后不再重新加载。
package site

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"docsite/conf"
	"docsite/logger"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const (
	HealthPath = "/_site/health"
	ConfigPath = "/_site/config"

	htmlContentType = "text/html; charset=utf-8"
	jsonContentType = "application/json; charset=utf-8"
)

var ErrNoMount = errors.New("site: content mount is not configured")

// Site 从 cfg.Content.Dir 渲染挂载在 cfg.Content.Mount 之下的页面。
type Site struct {
	cfg      conf.AppConfig
	log      *logger.Logger
	renderer *renderer
	cfgJSON  []byte

	mu    sync.RWMutex
	cache map[string]*page
	gen   uint64 // 每次 invalidate 递增

	// afterRead 仅供测试：在读取源文件之后、写入缓存之前调用
	afterRead func()
}

func New(cfg conf.AppConfig, log *logger.Logger) (*Site, error) {
	if cfg.Content.Mount == "" {
		return nil, ErrNoMount
	}
	if cfg.Content.Dir == "" {
		return nil, errors.New("site: content dir is not configured")
	}
	b, err := sonic.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	return &Site{
		cfg:      cfg,
		log:      log.Child("site"),
		renderer: newRenderer(cfg.StrictMode, cfg.LookupString("i18n.defaultLocale")),
		cfgJSON:  b,
		cache:    make(map[string]*page),
	}, nil
}

// Register 在 h 上注册内容路由与服务路由。
func (s *Site) Register(h *server.Hertz) {
	h.GET(HealthPath, func(ctx context.Context, c *app.RequestContext) {
		c.JSON(consts.StatusOK, map[string]string{"status": "ok"})
	})
	h.GET(ConfigPath, func(ctx context.Context, c *app.RequestContext) {
		c.Data(consts.StatusOK, jsonContentType, s.cfgJSON)
	})

	mount := s.cfg.Content.Mount
	if mount == "/" {
		h.GET("/*filepath", s.servePage)
		return
	}
	h.GET(mount, s.servePage)
	h.GET(mount+"/*filepath", s.servePage)
}

func (s *Site) servePage(ctx context.Context, c *app.RequestContext) {
	rel := c.Param("filepath")
	if hasDotDot(rel) {
		c.String(consts.StatusNotFound, "not found")
		return
	}

	p, err := s.page(strings.Trim(path.Clean("/"+rel), "/"))
	switch {
	case errors.Is(err, os.ErrNotExist):
		c.String(consts.StatusNotFound, "not found")
	case err != nil:
		s.log.Error().Err(err).Str("path", string(c.Path())).Msg("render failed")
		c.String(consts.StatusInternalServerError, "render failed: %v", err)
	case p.Draft:
		c.String(consts.StatusNotFound, "not found")
	default:
		c.Data(consts.StatusOK, htmlContentType, p.HTML)
	}
}

// page 在内容目录中解析 rel 并渲染，优先使用缓存。
// 渲染期间缓存被作废时，结果不写入缓存。
func (s *Site) page(rel string) (*page, error) {
	file, ext, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	p, ok := s.cache[file]
	gen := s.gen
	s.mu.RUnlock()
	if ok {
		return p, nil
	}

	src, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	if s.afterRead != nil {
		s.afterRead()
	}
	p, err = s.renderer.render(src, ext, s.cfg.Site.Title)
	if err != nil {
		return nil, err
	}
	if s.cfg.StrictMode && ext != "html" && p.Title == "" {
		s.log.Warn().Str("file", file).Msg("page has no title")
	}

	s.mu.Lock()
	if s.gen == gen {
		s.cache[file] = p
	}
	s.mu.Unlock()
	return p, nil
}

// resolve 依次尝试 <rel>.<ext> 与 <rel>/index.<ext>，扩展名按配置顺序。
func (s *Site) resolve(rel string) (string, string, error) {
	base := filepath.Join(s.cfg.Content.Dir, filepath.FromSlash(rel))
	var candidates []string
	if rel == "" {
		candidates = []string{filepath.Join(base, "index")}
	} else {
		candidates = []string{base, filepath.Join(base, "index")}
	}
	for _, cand := range candidates {
		for _, ext := range s.cfg.Content.PageExtensions {
			file := cand + "." + ext
			if st, err := os.Stat(file); err == nil && !st.IsDir() {
				return file, ext, nil
			}
		}
	}
	return "", "", os.ErrNotExist
}

func (s *Site) invalidate() {
	s.mu.Lock()
	s.cache = make(map[string]*page)
	s.gen++
	s.mu.Unlock()
}

func (s *Site) cached() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}

func hasDotDot(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}
