package provider

import (
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 200 * time.Millisecond

// FileProvider 读取单个本地 YAML 文件。
type FileProvider struct {
	Path string
}

func NewFile(path string) *FileProvider {
	return &FileProvider{Path: path}
}

func (p *FileProvider) Open() ([]Content, error) {
	b, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, err
	}
	return []Content{{ID: p.Path, Group: "file", Payload: string(b)}}, nil
}

func (p *FileProvider) Watch(onChange func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(p.Path); err != nil {
		_ = watcher.Close()
		return err
	}
	go watchLoop(watcher, nil, onChange, func(ev fsnotify.Event) {
		// 以重命名方式保存的编辑器会使旧 inode 上的监听失效，需重新添加
		if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
			time.Sleep(debounce)
			_ = watcher.Add(p.Path)
		}
	})
	return nil
}

// watchLoop 将 match 接受的事件（match 为 nil 时全部接受）转发给 onChange，
// 间隔小于 debounce 的事件合并为一次；after 对每个事件都会执行。
func watchLoop(w *fsnotify.Watcher, match func(fsnotify.Event) bool, onChange func() error, after func(fsnotify.Event)) {
	defer w.Close()
	var last time.Time
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 && (match == nil || match(ev)) {
				if time.Since(last) > debounce {
					_ = onChange()
					last = time.Now()
				}
			}
			if after != nil {
				after(ev)
			}
		case _, ok := <-w.Errors:
			if !ok {
				return
			}
		}
	}
}
