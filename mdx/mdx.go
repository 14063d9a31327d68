package mdx

import "docsite/conf"

// New 校验 opts 并返回把内容挂载进 AppConfig 的变换。
// 变换只修改 Content 部分。
func New(opts Options) (conf.Transform, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	exts := DefaultExtensions
	if len(opts.Extensions) > 0 {
		exts = make([]string, 0, len(opts.Extensions))
		for _, e := range opts.Extensions {
			exts = append(exts, normalizeExt(e))
		}
	}
	mount := opts.Path
	dir := opts.ContentDir

	return func(c conf.AppConfig) conf.AppConfig {
		c.Content.Mount = mount
		switch {
		case dir != "":
			c.Content.Dir = dir
		case c.Content.Dir == "":
			c.Content.Dir = DefaultContentDir
		}
		c.Content.PageExtensions = appendUnique(c.Content.PageExtensions, exts)
		return c
	}, nil
}

// appendUnique 返回新切片：base 在前，随后是 add 中尚未出现的元素。
func appendUnique(base, add []string) []string {
	out := make([]string, 0, len(base)+len(add))
	seen := make(map[string]struct{}, len(base)+len(add))
	for _, list := range [][]string{base, add} {
		for _, e := range list {
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			out = append(out, e)
		}
	}
	return out
}
