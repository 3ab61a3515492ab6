package goquery_test

import (
	"context"
	"testing"

	"github.com/mpawlak/a11y"
	"github.com/mpawlak/a11y/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanHTML(t *testing.T, htmlContent string) *a11y.ScanReport {
	t.Helper()
	e := goquery.NewEngine()
	report, err := e.Scan(context.Background(), &a11y.RenderedPage{
		URL:  "https://example.com/",
		HTML: htmlContent,
	})
	require.NoError(t, err)
	return report
}

func findViolation(report *a11y.ScanReport, ruleID string) *a11y.RawViolation {
	for i := range report.Violations {
		if report.Violations[i].RuleID == ruleID {
			return &report.Violations[i]
		}
	}
	return nil
}

func TestEngine_Scan_ImageAlt(t *testing.T) {
	t.Parallel()

	t.Run("flags images without alt attribute", func(t *testing.T) {
		t.Parallel()

		report := scanHTML(t, `<!DOCTYPE html>
<html lang="en"><head><title>T</title></head>
<body><img src="hero.png"><img src="logo.png" alt="Company logo"></body></html>`)

		v := findViolation(report, "image-alt")
		require.NotNil(t, v)
		assert.Equal(t, "critical", v.Impact)
		require.Len(t, v.Nodes, 1)
		assert.Contains(t, v.Nodes[0].HTML, "hero.png")
		assert.Contains(t, v.HelpURL, "dequeuniversity.com")
	})

	t.Run("empty alt marks a decorative image and passes", func(t *testing.T) {
		t.Parallel()

		report := scanHTML(t, `<!DOCTYPE html>
<html lang="en"><head><title>T</title></head>
<body><img src="divider.png" alt=""></body></html>`)

		assert.Nil(t, findViolation(report, "image-alt"))
	})

	t.Run("inapplicable without images", func(t *testing.T) {
		t.Parallel()

		report := scanHTML(t, `<!DOCTYPE html>
<html lang="en"><head><title>T</title></head><body><p>text</p></body></html>`)

		assert.Nil(t, findViolation(report, "image-alt"))
		assert.Contains(t, report.Inapplicable, "image-alt")
	})
}

func TestEngine_Scan_DocumentStructure(t *testing.T) {
	t.Parallel()

	t.Run("flags missing title and lang", func(t *testing.T) {
		t.Parallel()

		report := scanHTML(t, `<!DOCTYPE html>
<html><head></head><body><p>text</p></body></html>`)

		title := findViolation(report, "document-title")
		require.NotNil(t, title)
		assert.Equal(t, "serious", title.Impact)

		lang := findViolation(report, "html-has-lang")
		require.NotNil(t, lang)
		assert.Equal(t, "serious", lang.Impact)
	})

	t.Run("passes with title and lang present", func(t *testing.T) {
		t.Parallel()

		report := scanHTML(t, `<!DOCTYPE html>
<html lang="en"><head><title>Home</title></head><body><p>text</p></body></html>`)

		assert.Nil(t, findViolation(report, "document-title"))
		assert.Nil(t, findViolation(report, "html-has-lang"))
	})
}

func TestEngine_Scan_FormsAndNames(t *testing.T) {
	t.Parallel()

	t.Run("flags unlabeled inputs", func(t *testing.T) {
		t.Parallel()

		report := scanHTML(t, `<!DOCTYPE html>
<html lang="en"><head><title>T</title></head>
<body>
<form>
  <input type="text" name="email">
  <input type="text" id="name"><label for="name">Name</label>
  <label>Phone <input type="text" name="phone"></label>
  <input type="text" aria-label="Search">
  <input type="hidden" name="csrf">
</form>
</body></html>`)

		v := findViolation(report, "label")
		require.NotNil(t, v)
		require.Len(t, v.Nodes, 1)
		assert.Contains(t, v.Nodes[0].HTML, "email")
	})

	t.Run("flags empty buttons and links", func(t *testing.T) {
		t.Parallel()

		report := scanHTML(t, `<!DOCTYPE html>
<html lang="en"><head><title>T</title></head>
<body>
<button></button>
<button>Save</button>
<button aria-label="Close"></button>
<a href="/about"></a>
<a href="/docs">Docs</a>
<a href="/home"><img src="logo.png" alt="Home"></a>
</body></html>`)

		button := findViolation(report, "button-name")
		require.NotNil(t, button)
		assert.Len(t, button.Nodes, 1)

		link := findViolation(report, "link-name")
		require.NotNil(t, link)
		assert.Len(t, link.Nodes, 1)
	})

	t.Run("flags untitled iframes", func(t *testing.T) {
		t.Parallel()

		report := scanHTML(t, `<!DOCTYPE html>
<html lang="en"><head><title>T</title></head>
<body>
<iframe src="https://example.com/embed"></iframe>
<iframe src="https://example.com/video" title="Product video"></iframe>
</body></html>`)

		v := findViolation(report, "frame-title")
		require.NotNil(t, v)
		assert.Len(t, v.Nodes, 1)
	})
}

func TestEngine_Scan_HeadingsAndFocus(t *testing.T) {
	t.Parallel()

	t.Run("flags skipped heading levels", func(t *testing.T) {
		t.Parallel()

		report := scanHTML(t, `<!DOCTYPE html>
<html lang="en"><head><title>T</title></head>
<body><h1>Title</h1><h3>Skipped</h3><h4>Fine</h4></body></html>`)

		v := findViolation(report, "heading-order")
		require.NotNil(t, v)
		assert.Equal(t, "moderate", v.Impact)
		require.Len(t, v.Nodes, 1)
		assert.Contains(t, v.Nodes[0].HTML, "Skipped")
	})

	t.Run("flags empty headings as minor", func(t *testing.T) {
		t.Parallel()

		report := scanHTML(t, `<!DOCTYPE html>
<html lang="en"><head><title>T</title></head>
<body><h1>Title</h1><h2></h2></body></html>`)

		v := findViolation(report, "empty-heading")
		require.NotNil(t, v)
		assert.Equal(t, "minor", v.Impact)
	})

	t.Run("flags positive tabindex", func(t *testing.T) {
		t.Parallel()

		report := scanHTML(t, `<!DOCTYPE html>
<html lang="en"><head><title>T</title></head>
<body><div tabindex="3">jump</div><div tabindex="0">fine</div><div tabindex="-1">fine</div></body></html>`)

		v := findViolation(report, "tabindex")
		require.NotNil(t, v)
		assert.Len(t, v.Nodes, 1)
	})

	t.Run("flags disabled zooming", func(t *testing.T) {
		t.Parallel()

		report := scanHTML(t, `<!DOCTYPE html>
<html lang="en"><head><title>T</title>
<meta name="viewport" content="width=device-width, user-scalable=no"></head>
<body><p>text</p></body></html>`)

		v := findViolation(report, "meta-viewport")
		require.NotNil(t, v)
		assert.Equal(t, "critical", v.Impact)
	})
}

func TestEngine_Scan_Probes(t *testing.T) {
	t.Parallel()

	t.Run("keyboard probe reports focus order and unfocusable click targets", func(t *testing.T) {
		t.Parallel()

		report := scanHTML(t, `<!DOCTYPE html>
<html lang="en"><head><title>T</title></head>
<body>
<div tabindex="5">jump</div>
<div onclick="open()">menu</div>
<div onclick="close()" tabindex="0">fine</div>
</body></html>`)

		kinds := make(map[string]int)
		for _, issue := range report.KeyboardIssues {
			kinds[issue.Kind]++
		}
		assert.Equal(t, 1, kinds["positive-tabindex"])
		assert.Equal(t, 1, kinds["click-target-not-focusable"])
	})

	t.Run("screen reader probe reports hidden focusables and unknown roles", func(t *testing.T) {
		t.Parallel()

		report := scanHTML(t, `<!DOCTYPE html>
<html lang="en"><head><title>T</title></head>
<body>
<div aria-hidden="true"><a href="/hidden">hidden link</a></div>
<div role="navigation">nav</div>
<div role="bannner">typo</div>
</body></html>`)

		kinds := make(map[string]int)
		for _, issue := range report.ScreenReaderIssues {
			kinds[issue.Kind]++
		}
		assert.Equal(t, 1, kinds["aria-hidden-focus"])
		assert.Equal(t, 1, kinds["invalid-role"])
	})
}

func TestEngine_Scan_ColorContrastIncomplete(t *testing.T) {
	t.Parallel()

	report := scanHTML(t, `<!DOCTYPE html>
<html lang="en"><head><title>T</title></head><body><p>text</p></body></html>`)

	require.Len(t, report.Incomplete, 1)
	assert.Equal(t, "color-contrast", report.Incomplete[0].RuleID)
}

func TestEngine_Scan_Errors(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty page", func(t *testing.T) {
		t.Parallel()

		e := goquery.NewEngine()
		_, err := e.Scan(context.Background(), &a11y.RenderedPage{})
		require.Error(t, err)
		assert.Equal(t, a11y.EINVALID, a11y.ErrorCode(err))
	})

	t.Run("honors canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		e := goquery.NewEngine()
		_, err := e.Scan(ctx, &a11y.RenderedPage{HTML: "<html></html>"})
		require.Error(t, err)
	})
}
