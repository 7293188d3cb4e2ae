package repository

import (
	"github.com/sshcollectorpro/cliparser/addone/parser"
	"github.com/sshcollectorpro/cliparser/pkg/logger"
)

// Locate 在平台的全部候选文件中定位匹配命令的定义
// 多个不同定义同等具体地匹配同一命令时返回 ErrAmbiguousPattern
func (r *Repository) Locate(command, platform string) (*Definition, error) {
	artifacts, err := r.Scan(platform)
	if err != nil {
		return nil, err
	}
	qualified, err := r.FindAll(command, artifacts)
	if err != nil {
		return nil, err
	}

	var (
		best  *Definition
		score = -1
		tie   *Definition
	)
	for _, a := range qualified {
		defs, err := r.extractAll(command, a)
		if err != nil {
			return nil, err
		}
		for _, d := range defs {
			s := d.Specificity(command)
			switch {
			case s > score:
				best, score, tie = d, s, nil
			case s == score:
				tie = d
			}
		}
	}
	if best == nil {
		return nil, parser.NewResolveError(parser.ErrDefinitionNotFound, command, platform, "no source definition matches")
	}
	if tie != nil {
		return nil, parser.NewResolveError(parser.ErrAmbiguousPattern, command, platform,
			"%s (%s) and %s (%s) both match", best.Name, best.Artifact.Name, tie.Name, tie.Artifact.Name)
	}
	return best, nil
}

// Resolve 定位、适配并实例化命令对应的例程
func (r *Repository) Resolve(command, platform string) (parser.Routine, error) {
	def, err := r.Locate(command, platform)
	if err != nil {
		return nil, err
	}
	adapted, err := Adapt(def)
	if err != nil {
		return nil, err
	}
	rt, err := r.runtime.Instantiate(adapted)
	if err != nil {
		return nil, err
	}
	logger.Debugf("source definition %s loaded from %s for %q", def.Name, def.Artifact.Path, command)
	return rt, nil
}
