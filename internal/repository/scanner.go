package repository

import (
	"path"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/sshcollectorpro/cliparser/addone/parser"
)

// 默认的定义文件名前缀与命令动词
var (
	DefaultPrefixes = []string{"show_", "display_", "ping"}
	DefaultVerbs    = []string{"show", "display", "ping"}
)

const definitionExt = ".go"

// Artifact 单个定义源文件的句柄，文本按需读取
type Artifact struct {
	Platform string `json:"platform"`
	Name     string `json:"name"`
	Path     string `json:"path"`

	fs afero.Fs
}

// Text 读取定义源文件全文
func (a Artifact) Text() (string, error) {
	if a.fs == nil {
		return "", parser.NewResolveError(parser.ErrRepositoryNotFound, "", a.Platform, "artifact %s has no filesystem", a.Name)
	}
	b, err := afero.ReadFile(a.fs, a.Path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Options 定义仓库选项
type Options struct {
	Root     string
	Prefixes []string
	Verbs    []string
}

// Repository 源码形式的解析定义仓库：<root>/<platform>/<prefix>*.go
type Repository struct {
	fs       afero.Fs
	root     string
	prefixes []string
	verbs    []string
	runtime  *Runtime
}

// New 创建定义仓库，fs 为空时使用操作系统文件系统
func New(fs afero.Fs, opts Options) *Repository {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	prefixes := opts.Prefixes
	if len(prefixes) == 0 {
		prefixes = DefaultPrefixes
	}
	verbs := opts.Verbs
	if len(verbs) == 0 {
		verbs = DefaultVerbs
	}
	return &Repository{
		fs:       fs,
		root:     opts.Root,
		prefixes: append([]string(nil), prefixes...),
		verbs:    append([]string(nil), verbs...),
		runtime:  NewRuntime(),
	}
}

// Root 仓库根目录
func (r *Repository) Root() string { return r.root }

// Platforms 仓库中存在的平台目录（排序）
func (r *Repository) Platforms() ([]string, error) {
	infos, err := afero.ReadDir(r.fs, r.root)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, fi := range infos {
		if fi.IsDir() {
			out = append(out, fi.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// Scan 按命名约定列出平台下的候选定义文件，不读取内容
// 目录不存在或没有候选文件时返回 ErrRepositoryNotFound
func (r *Repository) Scan(platform string) ([]Artifact, error) {
	platform = parser.NormalizePlatform(platform)
	dir := path.Join(r.root, platform)
	if platform == "" {
		return nil, parser.NewResolveError(parser.ErrRepositoryNotFound, "", platform, "empty platform")
	}
	infos, err := afero.ReadDir(r.fs, dir)
	if err != nil {
		return nil, parser.NewResolveError(parser.ErrRepositoryNotFound, "", platform, "read %s: %v", dir, err)
	}

	var out []Artifact
	for _, fi := range infos {
		if fi.IsDir() || !r.isCandidate(fi.Name()) {
			continue
		}
		out = append(out, Artifact{
			Platform: platform,
			Name:     fi.Name(),
			Path:     path.Join(dir, fi.Name()),
			fs:       r.fs,
		})
	}
	if len(out) == 0 {
		return nil, parser.NewResolveError(parser.ErrRepositoryNotFound, "", platform, "no definition files under %s", dir)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *Repository) isCandidate(name string) bool {
	if !strings.HasSuffix(name, definitionExt) || strings.HasSuffix(name, "_test"+definitionExt) {
		return false
	}
	for _, p := range r.prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}
