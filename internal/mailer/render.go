// Package mailer 实现个性化渲染与外部邮件网关客户端。
package mailer

import (
	"strings"

	"chattflow/backend/internal/domain"
)

// HTML 包裹容器的识别标记：包含该子串即视为已包裹，不做结构化解析。
const wrapMarker = `<div style="font-family:`

const (
	wrapPrefix = `<div style="font-family: Arial, sans-serif; padding: 10px; line-height: 1.6;">`
	wrapSuffix = `</div>`
)

// PersonalizationData 渲染占位符时使用的联系人字段
type PersonalizationData struct {
	Name    string // {{businessName}}
	Email   string // {{email}}
	Website string // {{website}}
	Country string // {{country}}
}

// PersonalizationFromContact 从联系人提取渲染数据，空的可选字段替换为空串。
func PersonalizationFromContact(c *domain.Contact) PersonalizationData {
	return PersonalizationData{
		Name:    c.Name,
		Email:   c.Email,
		Website: c.Website,
		Country: c.Country,
	}
}

// Render 对模板串做字面量的全局占位符替换。
//
// 仅识别四个固定占位符：{{businessName}}、{{email}}、{{website}}、{{country}}；
// 其余 {{...}} 原样保留。大小写敏感，替换值不做 HTML 转义。
// 空串输入原样返回。
func Render(template string, data PersonalizationData) string {
	if template == "" {
		return template
	}

	result := template
	result = strings.ReplaceAll(result, "{{businessName}}", data.Name)
	result = strings.ReplaceAll(result, "{{email}}", data.Email)
	result = strings.ReplaceAll(result, "{{website}}", data.Website)
	result = strings.ReplaceAll(result, "{{country}}", data.Country)
	return result
}

// TextToHTML 将纯文本正文转换为逐行段落的 HTML。
//
// 去除 \r，按 \n 分行，每行包进 <p>，空行用 &nbsp; 占位。
func TextToHTML(text string) string {
	text = strings.ReplaceAll(text, "\r", "")
	lines := strings.Split(text, "\n")

	var b strings.Builder
	for _, line := range lines {
		if line == "" {
			line = "&nbsp;"
		}
		b.WriteString("<p>")
		b.WriteString(line)
		b.WriteString("</p>")
	}
	return b.String()
}

// WrapHTML 将 HTML 正文包进默认样式容器。
//
// 通过子串判断是否已包裹（幂等），不做结构化 HTML 检查：
// 正文任何位置出现标记子串都会被视为已包裹。
func WrapHTML(html string) string {
	if strings.Contains(html, wrapMarker) {
		return html
	}
	return wrapPrefix + html + wrapSuffix
}
