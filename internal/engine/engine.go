// Package engine 命令回显解析引擎：缓存查找、解析器链定位例程、调用例程
package engine

import (
	"errors"
	"strings"

	"github.com/sshcollectorpro/cliparser/addone/parser"
	"github.com/sshcollectorpro/cliparser/internal/codec"
	"github.com/sshcollectorpro/cliparser/internal/util"
	"github.com/sshcollectorpro/cliparser/pkg/logger"
)

// DefaultPlatform 未指定平台时使用
const DefaultPlatform = "nxos"

// Resolver 按命令与平台定位解析例程
type Resolver interface {
	Resolve(command, platform string) (parser.Routine, error)
}

// ResolverFunc 函数形式的 Resolver
type ResolverFunc func(command, platform string) (parser.Routine, error)

func (f ResolverFunc) Resolve(command, platform string) (parser.Routine, error) {
	return f(command, platform)
}

// Chain 依次询问各解析器，第一个成功者胜出
// 全部返回 ErrRepositoryNotFound 时整体为 ErrRepositoryNotFound，否则为 ErrDefinitionNotFound；
// 其他错误立即返回
type Chain []Resolver

func (c Chain) Resolve(command, platform string) (parser.Routine, error) {
	repoMissing := true
	for _, r := range c {
		rt, err := r.Resolve(command, platform)
		switch {
		case err == nil:
			return rt, nil
		case errors.Is(err, parser.ErrRepositoryNotFound):
			continue
		case errors.Is(err, parser.ErrDefinitionNotFound):
			repoMissing = false
			continue
		default:
			return nil, err
		}
	}
	if repoMissing {
		return nil, parser.NewResolveError(parser.ErrRepositoryNotFound, command, platform, "no routines for platform")
	}
	return nil, parser.NewResolveError(parser.ErrDefinitionNotFound, command, platform, "no routine matches command")
}

// Options 引擎选项
type Options struct {
	DefaultPlatform string
	// NormalizeEncoding 解析前规范化回显：非 UTF-8 转码，去除控制序列与分页提示
	NormalizeEncoding bool
	// DebugOutputLines debug 日志中记录的回显首尾行数
	DebugOutputLines int
}

// Engine 解析引擎，缓存在引擎生命周期内有效
type Engine struct {
	opts     Options
	resolver Resolver
	cache    *Cache
}

// New 创建引擎，resolvers 按顺序组成解析器链
func New(opts Options, resolvers ...Resolver) *Engine {
	if strings.TrimSpace(opts.DefaultPlatform) == "" {
		opts.DefaultPlatform = DefaultPlatform
	}
	opts.DefaultPlatform = parser.NormalizePlatform(opts.DefaultPlatform)
	return &Engine{
		opts:     opts,
		resolver: Chain(resolvers),
		cache:    NewCache(),
	}
}

// DefaultPlatform 引擎默认平台
func (e *Engine) DefaultPlatform() string { return e.opts.DefaultPlatform }

// Cache 例程缓存
func (e *Engine) Cache() *Cache { return e.cache }

// Key 规范化缓存键，空平台替换为默认平台
func (e *Engine) Key(command, platform string) Key {
	if strings.TrimSpace(platform) == "" {
		platform = e.opts.DefaultPlatform
	}
	return NewKey(command, platform)
}

// Lookup 定位例程：先查缓存，未命中时询问解析器链并缓存结果
func (e *Engine) Lookup(command, platform string) (parser.Routine, error) {
	k := e.Key(command, platform)
	if k.Command == "" {
		return nil, parser.NewResolveError(parser.ErrDefinitionNotFound, command, k.Platform, "empty command")
	}
	rt, hit, err := e.cache.GetOrResolve(k, func() (parser.Routine, error) {
		return e.resolver.Resolve(k.Command, k.Platform)
	})
	if err != nil {
		logger.Warnf("Resolve routine failed: command=%q platform=%s err=%v", k.Command, k.Platform, err)
		return nil, err
	}
	if hit {
		logger.Debugf("Routine cache hit: command=%q platform=%s routine=%s", k.Command, k.Platform, rt.Name())
	} else {
		logger.Debugf("Routine resolved: command=%q platform=%s routine=%s", k.Command, k.Platform, rt.Name())
	}
	return rt, nil
}

// Parse 解析回显，返回例程的原始结果
func (e *Engine) Parse(command, output, platform string) (interface{}, error) {
	_, res, err := e.Execute(command, output, platform)
	return res, err
}

// Execute 解析回显，同时返回处理该命令的例程
func (e *Engine) Execute(command, output, platform string) (parser.Routine, interface{}, error) {
	rt, err := e.Lookup(command, platform)
	if err != nil {
		return nil, nil, err
	}
	if e.opts.NormalizeEncoding {
		output = util.NormalizeOutput(output)
	}
	logger.DebugCommandOutput(command, output, e.opts.DebugOutputLines)
	res, err := rt.Run(output)
	if err != nil {
		return rt, nil, err
	}
	return rt, res, nil
}

// Resolve 解析回显并编码为 JSON
func (e *Engine) Resolve(command, output, platform string) ([]byte, error) {
	res, err := e.Parse(command, output, platform)
	if err != nil {
		return nil, err
	}
	return codec.MarshalJSON(res)
}
