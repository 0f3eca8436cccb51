package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chattflow/backend/internal/domain"
	"chattflow/backend/internal/storage/memory"
)

func TestTemplateServiceCreate(t *testing.T) {
	store := memory.NewStore()
	svc := NewTemplateService(store)

	t.Run("HTML为空时由正文推导", func(t *testing.T) {
		template, err := svc.Create(CreateTemplateInput{
			Name:    "welcome",
			Subject: "Hi {{businessName}}",
			Content: "Hello",
		})
		require.NoError(t, err)
		assert.Equal(t, "<p>Hello</p>", template.HTML)
	})

	t.Run("提供的HTML原样保留", func(t *testing.T) {
		template, err := svc.Create(CreateTemplateInput{
			Name:    "styled",
			Subject: "Hi",
			Content: "Hello",
			HTML:    "<h1>Hello</h1>",
		})
		require.NoError(t, err)
		assert.Equal(t, "<h1>Hello</h1>", template.HTML)
	})

	t.Run("缺少必填字段", func(t *testing.T) {
		_, err := svc.Create(CreateTemplateInput{Name: "x", Subject: " ", Content: "y"})
		assert.ErrorIs(t, err, domain.ErrSubjectRequired)
	})
}

func TestTemplateServiceUpdate(t *testing.T) {
	store := memory.NewStore()
	svc := NewTemplateService(store)

	template, err := svc.Create(CreateTemplateInput{Name: "t", Subject: "Old", Content: "Hello"})
	require.NoError(t, err)

	updated, err := svc.Update(template.ID, UpdateTemplateInput{Subject: "New"})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Subject)
	assert.Equal(t, "t", updated.Name) // 未提供的字段保持原样
}
