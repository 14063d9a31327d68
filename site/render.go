package site

import (
	"bufio"
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

type page struct {
	Title string
	Draft bool
	HTML  []byte
}

type frontMatter struct {
	Title  string         `yaml:"title"`
	Draft  bool           `yaml:"draft"`
	Custom map[string]any `yaml:",inline"`
}

type metaTag struct {
	Name    string
	Content string
}

var layout = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html{{with .Lang}} lang="{{.}}"{{end}}>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{- range .Meta}}
<meta name="{{.Name}}" content="{{.Content}}">
{{- end}}
</head>
<body>
<main>
{{.Body}}
</main>
</body>
</html>
`))

type renderer struct {
	strict bool
	lang   string
	md     goldmark.Markdown
}

// newRenderer 构建 goldmark 引擎。严格模式下页面中的原始 HTML 不输出。
func newRenderer(strict bool, lang string) *renderer {
	ropts := []goldmark.Option{
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	if !strict {
		ropts = append(ropts, goldmark.WithRendererOptions(html.WithUnsafe()))
	}
	return &renderer{strict: strict, lang: lang, md: goldmark.New(ropts...)}
}

func (r *renderer) render(src []byte, ext, siteTitle string) (*page, error) {
	if ext == "html" {
		return &page{HTML: src}, nil
	}

	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(src), &fm)
	if err != nil {
		if r.strict {
			return nil, fmt.Errorf("front matter: %w", err)
		}
		fm, body = frontMatter{}, src
	}
	if ext == "mdx" {
		body = stripModuleLines(body)
	}

	var out bytes.Buffer
	if err := r.md.Convert(body, &out); err != nil {
		return nil, fmt.Errorf("markdown: %w", err)
	}

	title := fm.Title
	switch {
	case title == "":
		title = siteTitle
	case siteTitle != "":
		title = title + " | " + siteTitle
	}

	var doc bytes.Buffer
	err = layout.Execute(&doc, struct {
		Lang  string
		Title string
		Meta  []metaTag
		Body  template.HTML
	}{r.lang, title, metaTags(fm.Custom), template.HTML(out.String())})
	if err != nil {
		return nil, err
	}
	return &page{Title: fm.Title, Draft: fm.Draft, HTML: doc.Bytes()}, nil
}

// metaTags 把 front matter 中的标量键（如 description）转为 <meta> 标签，按名称排序。
func metaTags(custom map[string]any) []metaTag {
	var tags []metaTag
	for k, v := range custom {
		switch v.(type) {
		case string, bool, int, int64, float64:
			tags = append(tags, metaTag{Name: k, Content: fmt.Sprint(v)})
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags
}

// stripModuleLines 删除顶层的 MDX import/export 语句（含跨行语句），
// 代码块内的内容原样保留。
func stripModuleLines(src []byte) []byte {
	var out bytes.Buffer
	sc := bufio.NewScanner(bytes.NewReader(src))
	sc.Buffer(make([]byte, 0, 64*1024), len(src)+1)
	fence := ""
	depth := 0 // 跨行语句尚未闭合的括号层数
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if depth > 0 {
			depth += bracketDelta(line)
			continue
		}
		if fence == "" {
			if m := fenceMarker(trimmed); m != "" {
				fence = m
			} else if strings.HasPrefix(line, "import ") || strings.HasPrefix(line, "export ") {
				depth = max(bracketDelta(line), 0)
				continue
			}
		} else if closesFence(trimmed, fence) {
			fence = ""
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	return out.Bytes()
}

// fenceMarker 返回开启代码块的 ``` 或 ~~~ 标记（至少三个字符），否则为空。
func fenceMarker(trimmed string) string {
	if trimmed == "" || (trimmed[0] != '`' && trimmed[0] != '~') {
		return ""
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == trimmed[0] {
		n++
	}
	if n < 3 {
		return ""
	}
	return trimmed[:n]
}

// closesFence 判断该行是否关闭 fence：同种字符、长度不小于开启标记、之后无内容。
func closesFence(trimmed, fence string) bool {
	m := fenceMarker(trimmed)
	return m != "" && m[0] == fence[0] && len(m) >= len(fence) && len(m) == len(trimmed)
}

func bracketDelta(line string) int {
	d := 0
	for _, r := range line {
		switch r {
		case '{', '(', '[':
			d++
		case '}', ')', ']':
			d--
		}
	}
	return d
}
