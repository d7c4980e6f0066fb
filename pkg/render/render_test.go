package render_test

import (
	"bytes"
	"testing"

	"github.com/m-mizutani/aiphone/pkg/parser"
	"github.com/m-mizutani/aiphone/pkg/render"
	"github.com/m-mizutani/gt"
)

func TestHTMLEscapesModelText(t *testing.T) {
	raw := "===通讯录\n<b>坏人</b>|||1|||朋友|||<script>alert(1)</script>\n" +
		"===微信聊天\n张三|||在吗|||刚刚|||1\n对话：other|||<img src=x onerror=alert(1)>|||10:00\n对话：self|||在|||10:01\n" +
		"===浏览器历史\n链接|||javascript:alert(1)|||昨天|||摘要\n"
	content := parser.Parse(raw, "c1", `小雨"><script>`)

	buf := &bytes.Buffer{}
	gt.NoError(t, render.HTML(buf, content))
	out := buf.String()

	gt.S(t, out).NotContains("<script>")
	gt.S(t, out).NotContains("<img")
	gt.S(t, out).NotContains("<b>坏人")
	gt.S(t, out).NotContains(`href="javascript:`)
	gt.S(t, out).Contains("&lt;b&gt;坏人&lt;/b&gt;")
	gt.S(t, out).Contains(`class="msg self"`)
	gt.S(t, out).Contains("1条未读")
}

func TestHTMLNil(t *testing.T) {
	gt.Error(t, render.HTML(&bytes.Buffer{}, nil))
}
