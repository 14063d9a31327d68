// Package assemble 生成最终站点配置：把内容处理器的变换应用到基础配置上。
package assemble

import (
	"docsite/conf"
	"docsite/mdx"
)

// Build 向内容处理器请求 opts 对应的变换。
// 选项原样传递；处理器返回的错误不做包装。
func Build(opts mdx.Options) (conf.Transform, error) {
	return mdx.New(opts)
}

// Assemble 将 t 应用于 base 的深拷贝；t 为 nil 时原样返回拷贝。
func Assemble(t conf.Transform, base conf.AppConfig) conf.AppConfig {
	cfg := base.Clone()
	if t == nil {
		return cfg
	}
	return t(cfg)
}
