package domain

import (
	"errors"
	"net/mail"
	"strings"
)

// 验证相关的错误定义
var (
	ErrNameRequired    = errors.New("name is required")
	ErrEmailRequired   = errors.New("email is required")
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrEmailTooLong    = errors.New("email address too long")
	ErrSubjectRequired = errors.New("subject is required")
	ErrContentRequired = errors.New("content is required")
	ErrInvalidTagType  = errors.New("invalid tag type")
)

// 验证常量
const (
	// RFC 5322 邮箱地址最大长度
	MaxEmailLength = 254
)

// ValidateEmail 验证邮箱地址格式。
func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" || len(email) > MaxEmailLength {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// mail.ParseAddress 接受 "Name <addr>" 形式，这里只接受裸地址
	return addr.Address == email
}

// Validate 校验联系人必填字段（姓名、邮箱非空且邮箱格式合法）。
func (c *Contact) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(c.Email) == "" {
		return ErrEmailRequired
	}
	if !ValidateEmail(c.Email) {
		return ErrInvalidEmail
	}
	return nil
}

// Validate 校验模板创建时的必填字段。
func (t *EmailTemplate) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(t.Subject) == "" {
		return ErrSubjectRequired
	}
	if strings.TrimSpace(t.Content) == "" {
		return ErrContentRequired
	}
	return nil
}
