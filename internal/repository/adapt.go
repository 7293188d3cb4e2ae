package repository

import (
	"regexp"
	"strings"

	"github.com/sshcollectorpro/cliparser/addone/parser"
)

// Adapted 去除框架依赖后可独立运行的定义
type Adapted struct {
	Name     string
	Patterns []string
	Source   string
	Artifact Artifact
}

var (
	// 在线采集分支：未提供回显时从设备执行命令
	liveFetchRe = regexp.MustCompile(`(?s)var\s+out\s+string\s*\n\s*if\s+output\s*==\s*""\s*\{\s*\n.*?\n\s*\}\s*else\s*\{\s*\n\s*out\s*=\s*output\s*\n\s*\}`)
	// 共享库限定的表格解析调用
	qualifiedTabularRe = regexp.MustCompile(`\bparsergen\.FillTabular\b`)
)

// Adapt 将定义改写为独立例程：
// 去掉 Schema 嵌入，在线采集分支替换为 out := output，parsergen.FillTabular 改为 FillTabular
func Adapt(def *Definition) (*Adapted, error) {
	if def == nil {
		return nil, parser.NewResolveError(parser.ErrAdaptation, "", "", "nil definition")
	}
	platform := def.Artifact.Platform

	introRe := regexp.MustCompile(`type\s+` + regexp.QuoteMeta(def.Name) + `\s+struct\s*\{\s*` + regexp.QuoteMeta(def.Schema) + `\s*\}`)
	if def.Schema == "" || !introRe.MatchString(def.Source) {
		return nil, parser.NewResolveError(parser.ErrAdaptation, strings.Join(def.Patterns, "|"), platform,
			"%s: schema clause not found", def.Name)
	}
	src := introRe.ReplaceAllLiteralString(def.Source, "type "+def.Name+" struct{}")

	if !liveFetchRe.MatchString(src) {
		return nil, parser.NewResolveError(parser.ErrAdaptation, strings.Join(def.Patterns, "|"), platform,
			"%s: live-fetch branch not found", def.Name)
	}
	src = liveFetchRe.ReplaceAllLiteralString(src, "out := output")
	src = qualifiedTabularRe.ReplaceAllLiteralString(src, "FillTabular")

	return &Adapted{
		Name:     def.Name,
		Patterns: append([]string(nil), def.Patterns...),
		Source:   src,
		Artifact: def.Artifact,
	}, nil
}
