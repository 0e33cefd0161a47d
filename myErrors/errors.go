package myErrors

import (
	"errors"
	"fmt"
)

// ErrCacheMiss 表示在缓存层未找到对应的键值
var ErrCacheMiss = errors.New("cache: key not found (miss)")

// 论坛核心的错误分类。上层统一使用 errors.Is 判断，不依赖错误文案。
var (
	// ErrValidation 调用方输入不合法，重试无意义。
	ErrValidation = errors.New("forum: validation failed")
	// ErrNotFound 目标帖子或回复不存在。
	ErrNotFound = errors.New("forum: record not found")
	// ErrStore 存储层临时故障，调用方可以退避后重试。
	ErrStore = errors.New("forum: store unavailable")
	// ErrConflict 预留给乐观锁等并发冲突场景；计数器走原子自增，目前不会产生。
	ErrConflict = errors.New("forum: conflicting update")
)

// ValidationError 描述具体哪个字段校验失败。
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("参数校验失败 [%s]: %s", e.Field, e.Reason)
}

// Is 让 errors.Is(err, ErrValidation) 成立。
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError 构造字段级校验错误。
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// StoreError 包装底层数据库 / 缓存返回的 I/O 错误，并记录失败的操作名。
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("存储操作失败 (%s): %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is 让 errors.Is(err, ErrStore) 成立。
func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

// NewStoreError 包装存储错误。err 为 nil 时返回 nil；已经分类过的错误原样返回，避免重复包装。
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsClassified(err) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// IsClassified 判断错误是否已经落入论坛的错误分类。
func IsClassified(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrStore) ||
		errors.Is(err, ErrConflict)
}
