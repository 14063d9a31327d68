package provider

// Content 表示一份配置文档，例如一个 YAML 文件或一个 etcd 值。
type Content struct {
	ID      string
	Group   string
	Payload string
}

// Provider 是配置源。Open 按叠加顺序返回文档；配置源变化时 Watch 调用 onChange。
type Provider interface {
	Open() ([]Content, error)
	Watch(onChange func() error) error
}
