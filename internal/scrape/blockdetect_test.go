package scrape

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectBlock(t *testing.T) {
	ok := &http.Response{StatusCode: 200, Header: http.Header{}}

	tests := []struct {
		name string
		resp *http.Response
		body string
		want BlockType
	}{
		{"nil response", nil, "", BlockNone},
		{"cloudflare 403 header", &http.Response{StatusCode: 403, Header: http.Header{"Cf-Ray": {"abc123"}}}, "", BlockCloudflare},
		{"cloudflare 503 server", &http.Response{StatusCode: 503, Header: http.Header{"Server": {"Cloudflare"}}}, "", BlockCloudflare},
		{"challenge body", ok, "<html>Checking your browser before accessing</html>", BlockCloudflare},
		{"captcha", ok, "<html><body>Please complete the reCAPTCHA to continue</body></html>", BlockCaptcha},
		{"noscript shell", ok, "<html><noscript>Enable JavaScript to continue</noscript></html>", BlockJSShell},
		{"meta refresh", ok, `<html><meta http-equiv="refresh" content="0;url=/app"></html>`, BlockJSShell},
		{"spa mount point", ok, `<html><body><div id="root"></div><script src="/main.js"></script></body></html>`, BlockJSShell},
		{"clean page", ok, "<html><body>Welcome to Acme Corp. We build great products.</body></html>", BlockNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocked, bt := DetectBlock(tt.resp, []byte(tt.body))
			assert.Equal(t, tt.want != BlockNone, blocked)
			assert.Equal(t, tt.want, bt)
		})
	}
}

func TestDetectBlock_LargeServerRenderedApp(t *testing.T) {
	resp := &http.Response{StatusCode: 200, Header: http.Header{}}
	body := `<html><body><div id="root"></div>` + strings.Repeat("<p>Real server-rendered content.</p>", 400) + `</body></html>`

	blocked, _ := DetectBlock(resp, []byte(body))
	assert.False(t, blocked)
}
