package provider

import (
	"errors"
	"strconv"
	"strings"

	"github.com/nacos-group/nacos-sdk-go/v2/clients"
	"github.com/nacos-group/nacos-sdk-go/v2/clients/config_client"
	"github.com/nacos-group/nacos-sdk-go/v2/common/constant"
	"github.com/nacos-group/nacos-sdk-go/v2/vo"
)

// NacosProvider 从 Nacos 配置分组读取一个或多个 dataId，按给定顺序叠加。
type NacosProvider struct {
	ServerAddrs []string // host:port
	NamespaceID string
	Group       string
	DataIDs     []string

	timeoutMs uint64
	cli       config_client.IConfigClient
}

func NewNacos(serverAddrs []string, namespaceID, group string, dataIDs ...string) *NacosProvider {
	return &NacosProvider{ServerAddrs: serverAddrs, NamespaceID: namespaceID, Group: group, DataIDs: dataIDs, timeoutMs: 3000}
}

func (p *NacosProvider) ensureClient() error {
	if p.cli != nil {
		return nil
	}
	if len(p.DataIDs) == 0 {
		return errors.New("nacos: no data id configured")
	}
	var sc []constant.ServerConfig
	for _, addr := range p.ServerAddrs {
		host, port := splitHostPort(addr)
		sc = append(sc, *constant.NewServerConfig(host, port))
	}
	cc := constant.ClientConfig{
		NamespaceId:         p.NamespaceID,
		TimeoutMs:           p.timeoutMs,
		NotLoadCacheAtStart: true,
	}
	c, err := clients.NewConfigClient(vo.NacosClientParam{ClientConfig: &cc, ServerConfigs: sc})
	if err != nil {
		return err
	}
	p.cli = c
	return nil
}

func (p *NacosProvider) Open() ([]Content, error) {
	if err := p.ensureClient(); err != nil {
		return nil, err
	}
	out := make([]Content, 0, len(p.DataIDs))
	for _, id := range p.DataIDs {
		content, err := p.cli.GetConfig(vo.ConfigParam{DataId: id, Group: p.Group})
		if err != nil {
			return nil, err
		}
		if content == "" {
			continue
		}
		out = append(out, Content{ID: id, Group: p.Group, Payload: content})
	}
	return out, nil
}

func (p *NacosProvider) Watch(onChange func() error) error {
	if err := p.ensureClient(); err != nil {
		return err
	}
	for _, id := range p.DataIDs {
		err := p.cli.ListenConfig(vo.ConfigParam{
			DataId: id,
			Group:  p.Group,
			OnChange: func(namespace, group, dataId, data string) {
				_ = onChange()
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// splitHostPort 将 "host:port" 解析为主机名和端口号。
func splitHostPort(addr string) (string, uint64) {
	s := strings.TrimSpace(addr)
	if s == "" {
		return "", 0
	}
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return s, 0
	}
	p, _ := strconv.ParseUint(parts[1], 10, 64)
	return parts[0], p
}
