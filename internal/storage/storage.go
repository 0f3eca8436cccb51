package storage

import "errors"

// 各存储实现共享的哨兵错误；存储接口本身见 domain.Store。
var (
	// ErrContactNotFound 联系人未找到错误
	ErrContactNotFound = errors.New("contact not found")
	// ErrTagNotFound 标签未找到错误
	ErrTagNotFound = errors.New("tag not found")
	// ErrTagExists 标签已存在错误
	ErrTagExists = errors.New("tag already exists")
	// ErrTemplateNotFound 模板未找到错误
	ErrTemplateNotFound = errors.New("template not found")
	// ErrBroadcastNotFound 广播未找到错误
	ErrBroadcastNotFound = errors.New("broadcast not found")
)
