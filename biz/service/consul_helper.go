package service

import (
	"context"
	"fmt"

	"cex-spot/util"

	"github.com/hashicorp/consul/api"
)

// ConsulHelper 封装 Consul 注册与发现
// 节点以 engine 服务名注册，tags 为当前承载的全部标的

type ConsulHelper struct {
	client *api.Client
}

const consulServiceName = "cex-spot-engine"

// NewConsulHelperWithAddrs 依次尝试多个 Consul 地址，取第一个可用的
func NewConsulHelperWithAddrs(addrs []string) (*ConsulHelper, error) {
	var lastErr error
	for _, addr := range addrs {
		cfg := api.DefaultConfig()
		cfg.Address = addr
		cli, err := api.NewClient(cfg)
		if err == nil {
			_, errPing := cli.Agent().Self()
			if errPing == nil {
				return &ConsulHelper{client: cli}, nil
			}
			lastErr = errPing
		} else {
			lastErr = err
		}
	}
	return nil, fmt.Errorf("all consul addresses failed: %v", lastErr)
}

// RegisterEngine 把本节点注册到 Consul，tags 填当前库里全部标的
func (c *ConsulHelper) RegisterEngine(ctx context.Context, nodeID string, port int) error {
	instruments, err := ListInstruments(ctx)
	if err != nil {
		return err
	}
	tags := make([]string, 0, len(instruments))
	for _, ins := range instruments {
		tags = append(tags, ins.Ticker)
	}
	reg := &api.AgentServiceRegistration{
		ID:      nodeID,
		Name:    consulServiceName,
		Address: util.GetLocalIP(),
		Port:    port,
		Tags:    tags,
		Check: &api.AgentServiceCheck{
			TCP:      fmt.Sprintf("127.0.0.1:%d", port),
			Interval: "10s",
			Timeout:  "2s",
		},
	}
	return c.client.Agent().ServiceRegister(reg)
}

// DeregisterEngine 退出前注销
func (c *ConsulHelper) DeregisterEngine(nodeID string) error {
	return c.client.Agent().ServiceDeregister(nodeID)
}

// DiscoverEngine 查询承载指定标的的节点
func (c *ConsulHelper) DiscoverEngine(ticker string) ([]*api.AgentService, error) {
	services, err := c.client.Agent().Services()
	if err != nil {
		return nil, err
	}
	var result []*api.AgentService
	for _, svc := range services {
		if svc.Service != consulServiceName {
			continue
		}
		for _, tag := range svc.Tags {
			if tag == ticker {
				result = append(result, svc)
				break
			}
		}
	}
	return result, nil
}
