// Package loader 负责启动流程：读取基础配置、构建内容变换并组装运行时使用的配置。
package loader

import (
	"io"
	"sync"

	"docsite/assemble"
	conf "docsite/conf"
	provider "docsite/conf/provider"
	"docsite/mdx"
)

// Loader 每个进程至多组装一次配置；之后的源变更只通知，不应用。
type Loader struct {
	p    provider.Provider
	opts mdx.Options

	once sync.Once
	cfg  conf.AppConfig
	err  error
}

func New(p provider.Provider, opts mdx.Options) *Loader {
	return &Loader{p: p, opts: opts}
}

// Load 返回组装好的配置。只有第一次调用真正执行，之后返回相同的结果和错误。
func (l *Loader) Load() (conf.AppConfig, error) {
	l.once.Do(func() {
		base, err := conf.LoadFromProvider(l.p)
		if err != nil {
			l.err = err
			return
		}
		t, err := assemble.Build(l.opts)
		if err != nil {
			l.err = err
			return
		}
		l.cfg = assemble.Assemble(t, base)
	})
	return l.cfg, l.err
}

// Watch 在配置源变化时以 provider 类型调用 onChange；需要重启才能生效。
func (l *Loader) Watch(onChange func(source string)) error {
	source := sourceName(l.p)
	return l.p.Watch(func() error {
		onChange(source)
		return nil
	})
}

// Close 释放 provider 持有的连接（如 etcd 客户端）；provider 未实现 io.Closer 时为空操作。
func (l *Loader) Close() error {
	if c, ok := l.p.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func sourceName(p provider.Provider) string {
	switch p.(type) {
	case *provider.FileProvider:
		return "file"
	case *provider.DirProvider:
		return "dir"
	case *provider.EtcdProvider:
		return "etcd"
	case *provider.NacosProvider:
		return "nacos"
	default:
		return "custom"
	}
}

func NewFile(path string, opts mdx.Options) *Loader {
	return New(provider.NewFile(path), opts)
}

func NewDir(dir string, opts mdx.Options) *Loader {
	return New(provider.NewDir(dir), opts)
}

func NewEtcd(endpoints []string, key string, prefix bool, user, pass string, opts mdx.Options) *Loader {
	p := provider.NewEtcd(endpoints, key, user, pass)
	p.Prefix = prefix
	return New(p, opts)
}

func NewNacos(serverAddrs []string, namespaceID, group string, dataIDs []string, opts mdx.Options) *Loader {
	return New(provider.NewNacos(serverAddrs, namespaceID, group, dataIDs...), opts)
}
