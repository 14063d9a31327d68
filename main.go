package main

import (
	"context"
	"flag"
	"strings"
	"time"

	"docsite/loader"
	"docsite/logger"
	"docsite/mdx"
	"docsite/site"

	"github.com/cloudwego/hertz/pkg/app/server"
)

// main 启动时组装一次站点配置，然后按配置提供内容；任何配置错误都会终止启动。
func main() {
	source := flag.String("source", "file", "config source: file|dir|etcd|nacos")
	cfgPath := flag.String("config", "./docsite.yaml", "config file or directory (for file/dir source)")
	etcdEndpoints := flag.String("etcd-endpoints", "", "comma-separated etcd endpoints (for etcd source)")
	etcdKey := flag.String("etcd-key", "", "etcd key holding YAML config (for etcd source)")
	etcdPrefix := flag.Bool("etcd-prefix", false, "treat etcd-key as a prefix and layer every key below it")
	etcdUser := flag.String("etcd-user", "", "etcd username (optional)")
	etcdPass := flag.String("etcd-pass", "", "etcd password (optional)")
	nacosServers := flag.String("nacos-servers", "", "comma-separated nacos server addrs host:port (for nacos source)")
	nacosNS := flag.String("nacos-namespace", "", "nacos namespace id (optional)")
	nacosGroup := flag.String("nacos-group", "DEFAULT_GROUP", "nacos group")
	nacosDataIDs := flag.String("nacos-dataid", "", "comma-separated nacos dataIds holding YAML config, layered in order")
	mount := flag.String("mount", "/", "URL path the content is mounted at")
	contentDir := flag.String("content", "", "content directory (overrides content.dir)")
	extensions := flag.String("extensions", "", "comma-separated page extensions (default md,mdx)")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	log := logger.New("docsite")
	if err := logger.SetLevel(*level); err != nil {
		log.Fatal().Err(err).Str("level", *level).Msg("bad log level")
	}

	opts := mdx.DefaultOptions()
	opts.Path = *mount
	opts.ContentDir = *contentDir
	if exts := nonEmpty(strings.Split(*extensions, ",")); len(exts) > 0 {
		opts.Extensions = exts
	}

	var l *loader.Loader
	switch *source {
	case "file":
		l = loader.NewFile(*cfgPath, opts)
	case "dir":
		l = loader.NewDir(*cfgPath, opts)
	case "etcd":
		eps := nonEmpty(strings.Split(strings.TrimSpace(*etcdEndpoints), ","))
		l = loader.NewEtcd(eps, *etcdKey, *etcdPrefix, *etcdUser, *etcdPass, opts)
	case "nacos":
		eps := nonEmpty(strings.Split(strings.TrimSpace(*nacosServers), ","))
		ids := nonEmpty(strings.Split(*nacosDataIDs, ","))
		l = loader.NewNacos(eps, *nacosNS, *nacosGroup, ids, opts)
	default:
		log.Fatal().Str("source", *source).Msg("unknown source")
	}

	cfg, err := l.Load()
	if err != nil {
		log.Fatal().Err(err).Str("source", *source).Msg("failed to assemble config")
	}
	log.Info().
		Bool("strictMode", cfg.StrictMode).
		Str("mount", cfg.Content.Mount).
		Str("dir", cfg.Content.Dir).
		Strs("pageExtensions", cfg.Content.PageExtensions).
		Msg("config assembled")

	s, err := site.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create site")
	}

	if err := l.Watch(func(src string) {
		log.Warn().Str("source", src).Msg("configuration changed; restart to apply")
	}); err != nil {
		log.Error().Err(err).Msg("start config watch failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Watch(ctx); err != nil {
		log.Error().Err(err).Str("dir", cfg.Content.Dir).Msg("start content watch failed")
	}

	h := server.New(
		server.WithHostPorts(cfg.Server.Bind),
		server.WithDisableDefaultDate(true),
		server.WithDisablePrintRoute(true),
		server.WithExitWaitTime(1*time.Second),
	)
	// 关闭时释放配置源连接
	h.OnShutdown = append(h.OnShutdown, func(context.Context) {
		if err := l.Close(); err != nil {
			log.Warn().Err(err).Str("source", *source).Msg("close config source failed")
		}
	})
	s.Register(h)
	h.Spin()
}

// nonEmpty 去掉空白项。
func nonEmpty(items []string) []string {
	var out []string
	for _, it := range items {
		s := strings.TrimSpace(it)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
