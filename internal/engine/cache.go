package engine

import (
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/sshcollectorpro/cliparser/addone/parser"
	"github.com/sshcollectorpro/cliparser/internal/matcher"
	"golang.org/x/sync/singleflight"
)

// Key 缓存键：命令折叠空白，平台小写
type Key struct {
	Command  string `json:"command"`
	Platform string `json:"platform"`
}

// NewKey 构造规范化的缓存键
func NewKey(command, platform string) Key {
	return Key{Command: matcher.Normalize(command), Platform: parser.NormalizePlatform(platform)}
}

func (k Key) String() string { return k.Platform + "\x00" + k.Command }

// Stats 缓存统计
type Stats struct {
	Entries int    `json:"entries"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
}

// Cache 已实例化例程的缓存，条目不淘汰，仅 Clear 清空
// generation 每次 Clear 递增，清空前发起的解析结果不再写入
type Cache struct {
	mu         sync.RWMutex
	routines   map[Key]parser.Routine
	generation uint64
	group    singleflight.Group
	hits     atomic.Uint64
	misses   atomic.Uint64
}

// NewCache 创建缓存
func NewCache() *Cache {
	return &Cache{routines: make(map[Key]parser.Routine)}
}

// Get 读取缓存
func (c *Cache) Get(k Key) (parser.Routine, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rt, ok := c.routines[k]
	return rt, ok
}

// GetOrResolve 命中时直接返回；未命中时调用 resolve 并写入缓存
// 同一个键的并发未命中只会调用一次 resolve；失败不缓存
func (c *Cache) GetOrResolve(k Key, resolve func() (parser.Routine, error)) (parser.Routine, bool, error) {
	if rt, ok := c.Get(k); ok {
		c.hits.Add(1)
		return rt, true, nil
	}

	c.mu.RLock()
	gen := c.generation
	c.mu.RUnlock()

	v, err, _ := c.group.Do(strconv.FormatUint(gen, 10)+"\x00"+k.String(), func() (interface{}, error) {
		if rt, ok := c.Get(k); ok {
			return rt, nil
		}
		c.misses.Add(1)
		rt, err := resolve()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.generation == gen {
			c.routines[k] = rt
		}
		c.mu.Unlock()
		return rt, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(parser.Routine), false, nil
}

// Keys 当前缓存的键（按平台、命令排序）
func (c *Cache) Keys() []Key {
	c.mu.RLock()
	out := make([]Key, 0, len(c.routines))
	for k := range c.routines {
		out = append(out, k)
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Platform != out[j].Platform {
			return out[i].Platform < out[j].Platform
		}
		return out[i].Command < out[j].Command
	})
	return out
}

// Clear 清空缓存并返回清除的条目数
func (c *Cache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.routines)
	c.routines = make(map[Key]parser.Routine)
	c.generation++
	return n
}

// Stats 返回统计信息
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	n := len(c.routines)
	c.mu.RUnlock()
	return Stats{Entries: n, Hits: c.hits.Load(), Misses: c.misses.Load()}
}
