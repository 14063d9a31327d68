package provider

import (
	"context"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// EtcdProvider 从 etcd 读取配置。设置 Prefix 时，Key 下的每个键按键名顺序作为独立文档返回。
type EtcdProvider struct {
	Endpoints   []string
	Key         string
	Prefix      bool
	Username    string
	Password    string
	DialTimeout time.Duration

	cli *clientv3.Client
}

func NewEtcd(endpoints []string, key string, username, password string) *EtcdProvider {
	return &EtcdProvider{Endpoints: endpoints, Key: key, Username: username, Password: password, DialTimeout: 5 * time.Second}
}

func (p *EtcdProvider) ensureClient() error {
	if p.cli != nil {
		return nil
	}
	cfg := clientv3.Config{Endpoints: p.Endpoints, DialTimeout: p.DialTimeout}
	if p.Username != "" || p.Password != "" {
		cfg.Username = p.Username
		cfg.Password = p.Password
	}
	cli, err := clientv3.New(cfg)
	if err != nil {
		return err
	}
	p.cli = cli
	return nil
}

func (p *EtcdProvider) opOptions() []clientv3.OpOption {
	if !p.Prefix {
		return nil
	}
	return []clientv3.OpOption{clientv3.WithPrefix(), clientv3.WithSort(clientv3.SortByKey, clientv3.SortAscend)}
}

func (p *EtcdProvider) Open() ([]Content, error) {
	if err := p.ensureClient(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	resp, err := p.cli.Get(ctx, p.Key, p.opOptions()...)
	if err != nil {
		return nil, err
	}
	out := make([]Content, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		out = append(out, Content{ID: string(kv.Key), Group: "etcd", Payload: string(kv.Value)})
	}
	return out, nil
}

func (p *EtcdProvider) Watch(onChange func() error) error {
	if err := p.ensureClient(); err != nil {
		return err
	}
	wch := p.cli.Watch(context.Background(), p.Key, p.opOptions()...)
	go func() {
		for range wch {
			_ = onChange()
		}
	}()
	return nil
}

// Close 释放已创建的 etcd 客户端。
func (p *EtcdProvider) Close() error {
	if p.cli == nil {
		return nil
	}
	err := p.cli.Close()
	p.cli = nil
	return err
}
