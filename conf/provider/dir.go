package provider

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// DirProvider 读取 Dir 下所有 *.yaml / *.yml 文件，按相对路径的字典序叠加，
// 因此 "10-base.yaml" 先于 "20-local.yaml" 生效。
type DirProvider struct {
	Dir string
}

func NewDir(dir string) *DirProvider {
	return &DirProvider{Dir: dir}
}

func (p *DirProvider) Open() ([]Content, error) {
	var paths []string
	err := filepath.WalkDir(p.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isYAML(d.Name()) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	out := make([]Content, 0, len(paths))
	for _, path := range paths {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		rel, _ := filepath.Rel(p.Dir, path)
		out = append(out, Content{ID: filepath.ToSlash(rel), Group: "dir", Payload: string(b)})
	}
	return out, nil
}

// Watch 只监听 Dir 本身，不监听子目录。
func (p *DirProvider) Watch(onChange func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(p.Dir); err != nil {
		_ = watcher.Close()
		return err
	}
	yamlOnly := func(ev fsnotify.Event) bool { return isYAML(ev.Name) }
	go watchLoop(watcher, yamlOnly, onChange, nil)
	return nil
}

func isYAML(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}
