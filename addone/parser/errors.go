package parser

import (
	"errors"
	"fmt"
)

var (
	ErrRepositoryNotFound = errors.New("parser repository not found")
	ErrDefinitionNotFound = errors.New("parser definition not found")
	ErrAdaptation         = errors.New("parser definition adaptation failed")
	ErrAmbiguousPattern   = errors.New("ambiguous command pattern")
	ErrDuplicateRoutine   = errors.New("duplicate parser routine")
)

// ResolveError 解析例程定位失败，Kind 为上面的哨兵错误之一
type ResolveError struct {
	Kind     error
	Command  string
	Platform string
	Msg      string
}

func (e *ResolveError) Error() string {
	if e == nil {
		return ""
	}
	s := fmt.Sprintf("%s: command=%q platform=%q", e.Kind.Error(), e.Command, e.Platform)
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}

func (e *ResolveError) Unwrap() error { return e.Kind }

// NewResolveError 构造定位错误
func NewResolveError(kind error, command, platform, format string, args ...interface{}) error {
	return &ResolveError{Kind: kind, Command: command, Platform: platform, Msg: fmt.Sprintf(format, args...)}
}
