package parser

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sshcollectorpro/cliparser/internal/matcher"
)

type entry struct {
	routine  Routine
	patterns matcher.Set
}

// Registry 按平台注册的解析例程
type Registry struct {
	mu        sync.RWMutex
	platforms map[string][]entry
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{platforms: make(map[string][]entry)}
}

// Default 进程级注册表，平台包在 init() 中注册
var Default = NewRegistry()

// Register 在默认注册表中注册例程，冲突时 panic（仅用于 init）
func Register(platform string, rt Routine) {
	if err := Default.Register(platform, rt); err != nil {
		panic(err)
	}
}

// NormalizePlatform 平台名统一小写、去空白
func NormalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

// Register 注册例程
// 同一平台内两个例程的模板若可能匹配同一命令且具体程度相同，则拒绝注册
func (r *Registry) Register(platform string, rt Routine) error {
	platform = NormalizePlatform(platform)
	if platform == "" {
		return fmt.Errorf("register routine: empty platform")
	}
	if rt == nil || strings.TrimSpace(rt.Name()) == "" {
		return fmt.Errorf("register routine on %s: routine has no name", platform)
	}
	set := matcher.NewSet(rt.Patterns()...)
	if len(set) == 0 {
		return fmt.Errorf("register routine %s on %s: no command patterns", rt.Name(), platform)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.platforms[platform] {
		if e.routine.Name() == rt.Name() {
			return NewResolveError(ErrDuplicateRoutine, "", platform, "routine %s already registered", rt.Name())
		}
		for _, p := range set {
			for _, q := range e.patterns {
				if matcher.Overlaps(p, q) && p.Literals() == q.Literals() {
					return NewResolveError(ErrAmbiguousPattern, p.String(), platform,
						"%s conflicts with %q of %s", rt.Name(), q.String(), e.routine.Name())
				}
			}
		}
	}
	r.platforms[platform] = append(r.platforms[platform], entry{routine: rt, patterns: set})
	return nil
}

// Platforms 已注册的平台（排序）
func (r *Registry) Platforms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.platforms))
	for p := range r.platforms {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Routines 平台下的例程（注册顺序）
func (r *Registry) Routines(platform string) []Routine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := r.platforms[NormalizePlatform(platform)]
	out := make([]Routine, len(entries))
	for i, e := range entries {
		out[i] = e.routine
	}
	return out
}

// Candidates 平台候选例程，平台未注册任何例程时返回 ErrRepositoryNotFound
func (r *Registry) Candidates(platform string) ([]Routine, error) {
	rs := r.Routines(platform)
	if len(rs) == 0 {
		return nil, NewResolveError(ErrRepositoryNotFound, "", platform, "no registered routines")
	}
	return rs, nil
}

// Resolve 定位匹配命令的例程：取字面 token 最多的模板
func (r *Registry) Resolve(command, platform string) (Routine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := r.platforms[NormalizePlatform(platform)]
	if len(entries) == 0 {
		return nil, NewResolveError(ErrRepositoryNotFound, command, platform, "no registered routines")
	}

	var (
		best  Routine
		score = -1
		tie   Routine
	)
	for _, e := range entries {
		_, s, ok := e.patterns.Best(command)
		if !ok {
			continue
		}
		switch {
		case s > score:
			best, score, tie = e.routine, s, nil
		case s == score:
			tie = e.routine
		}
	}
	if best == nil {
		return nil, NewResolveError(ErrDefinitionNotFound, command, platform, "no registered routine matches")
	}
	if tie != nil {
		return nil, NewResolveError(ErrAmbiguousPattern, command, platform, "%s and %s both match", best.Name(), tie.Name())
	}
	return best, nil
}
