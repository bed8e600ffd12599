package mlist

import (
	"errors"
	"fmt"
)

var (
	// ErrUndefinedFamily 表示 (风格, 族) 解析不到字体，或字体设计尺寸为零。
	ErrUndefinedFamily = errors.New("undefined font family")
	// ErrInconsistent 表示内部一致性被破坏，合法输入不应触发。
	ErrInconsistent = errors.New("internal inconsistency")
)

// TypesetError 标识出错的 noad 与操作，可用 errors.Is 判断具体原因。
type TypesetError struct {
	Noad *Noad
	Op   string
	Err  error
}

func (e *TypesetError) Error() string {
	return fmt.Sprintf("mlist: %s: %v", e.Op, e.Err)
}

func (e *TypesetError) Unwrap() error { return e.Err }

func typesetErr(n *Noad, op string, err error, format string, args ...any) error {
	return &TypesetError{Noad: n, Op: op, Err: fmt.Errorf("%w: "+format, append([]any{err}, args...)...)}
}
