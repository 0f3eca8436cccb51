package mailer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"chattflow/backend/internal/domain"
)

func TestRender(t *testing.T) {
	data := PersonalizationData{
		Name:    "Acme",
		Email:   "a@x.com",
		Website: "https://acme.example",
		Country: "DE",
	}

	t.Run("四个占位符全部替换", func(t *testing.T) {
		in := "Hi {{businessName}} ({{email}}), visit {{website}} from {{country}}"
		out := Render(in, data)

		assert.Equal(t, "Hi Acme (a@x.com), visit https://acme.example from DE", out)
		for _, token := range []string{"{{businessName}}", "{{email}}", "{{website}}", "{{country}}"} {
			assert.NotContains(t, out, token)
		}
	})

	t.Run("全局替换而非首个", func(t *testing.T) {
		out := Render("{{businessName}} and {{businessName}}", data)
		assert.Equal(t, "Acme and Acme", out)
	})

	t.Run("未知占位符原样保留", func(t *testing.T) {
		out := Render("Hello {{firstName}}, hi {{businessName}}", data)
		assert.Equal(t, "Hello {{firstName}}, hi Acme", out)
	})

	t.Run("空模板为空操作", func(t *testing.T) {
		assert.Equal(t, "", Render("", data))
	})

	t.Run("大小写敏感", func(t *testing.T) {
		out := Render("{{BusinessName}}", data)
		assert.Equal(t, "{{BusinessName}}", out)
	})

	t.Run("缺失的可选字段替换为空串", func(t *testing.T) {
		c := &domain.Contact{Name: "Widget", Email: "w@x.com"}
		out := Render("{{businessName}}|{{website}}|{{country}}", PersonalizationFromContact(c))
		assert.Equal(t, "Widget||", out)
	})

	t.Run("替换值不做HTML转义", func(t *testing.T) {
		evil := PersonalizationData{Name: "<b>Acme</b>"}
		out := Render("{{businessName}}", evil)
		assert.Equal(t, "<b>Acme</b>", out)
	})
}

func TestTextToHTML(t *testing.T) {
	t.Run("单行", func(t *testing.T) {
		assert.Equal(t, "<p>Hello</p>", TextToHTML("Hello"))
	})

	t.Run("多行含空行", func(t *testing.T) {
		out := TextToHTML("line1\n\nline2")
		assert.Equal(t, "<p>line1</p><p>&nbsp;</p><p>line2</p>", out)
	})

	t.Run("去除回车符", func(t *testing.T) {
		out := TextToHTML("line1\r\nline2")
		assert.Equal(t, "<p>line1</p><p>line2</p>", out)
	})
}

func TestWrapHTML(t *testing.T) {
	t.Run("未包裹时包一层", func(t *testing.T) {
		out := WrapHTML("<p>Hello</p>")
		assert.True(t, strings.HasPrefix(out, `<div style="font-family:`))
		assert.True(t, strings.HasSuffix(out, "</div>"))
		assert.Contains(t, out, "<p>Hello</p>")
	})

	t.Run("幂等：二次包裹无变化", func(t *testing.T) {
		once := WrapHTML("<p>Hello</p>")
		twice := WrapHTML(once)
		assert.Equal(t, once, twice)
	})

	t.Run("任何位置出现标记子串都视为已包裹", func(t *testing.T) {
		in := `<span data-x='<div style="font-family:'>content</span>`
		assert.Equal(t, in, WrapHTML(in))
	})
}
