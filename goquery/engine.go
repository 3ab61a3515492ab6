// Package goquery provides HTML analysis implementations: a static
// accessibility rule engine and link/title extraction for crawling.
package goquery

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mpawlak/a11y"
	"golang.org/x/net/html"
)

const (
	helpBaseURL = "https://dequeuniversity.com/rules/axe/4.10/"

	// maxNodesPerRule bounds how many affected elements one violation
	// reports; the count of distinct rules matters more than every node.
	maxNodesPerRule = 10

	// maxProbeIssues bounds each supplementary probe walk.
	maxProbeIssues = 25
)

// Ensure Engine implements a11y.AccessibilityEngine at compile time.
var _ a11y.AccessibilityEngine = (*Engine)(nil)

// Engine is a static accessibility rule engine over rendered HTML. It
// covers the structural subset of common WCAG checks; rules that need
// computed styles or a real render (color contrast) are reported as
// incomplete rather than guessed at.
type Engine struct{}

// NewEngine creates a new Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Scan analyzes the page HTML and reports rule violations, incomplete
// checks, inapplicable rules, and supplementary probe findings.
func (e *Engine) Scan(ctx context.Context, page *a11y.RenderedPage) (*a11y.ScanReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if page == nil || page.HTML == "" {
		return nil, a11y.Errorf(a11y.EINVALID, "page HTML required")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return nil, a11y.Errorf(a11y.EINVALID, "failed to parse HTML: %v", err)
	}

	report := &a11y.ScanReport{}
	for _, r := range rules {
		nodes, applicable := r.check(doc)
		if !applicable {
			report.Inapplicable = append(report.Inapplicable, r.id)
			continue
		}
		if len(nodes) == 0 {
			continue
		}
		if len(nodes) > maxNodesPerRule {
			nodes = nodes[:maxNodesPerRule]
		}
		report.Violations = append(report.Violations, a11y.RawViolation{
			RuleID:      r.id,
			Impact:      r.impact,
			Description: r.description,
			HelpURL:     helpBaseURL + r.id,
			Tags:        r.tags,
			Nodes:       nodes,
		})
	}

	// Contrast needs computed colors, which static analysis cannot see.
	if doc.Find("body *").Length() > 0 {
		report.Incomplete = append(report.Incomplete, a11y.RawViolation{
			RuleID:      "color-contrast",
			Impact:      "serious",
			Description: "Elements must meet minimum color contrast ratio thresholds",
			HelpURL:     helpBaseURL + "color-contrast",
			Tags:        []string{"wcag2aa"},
		})
	}

	report.KeyboardIssues = keyboardProbe(doc)
	report.ScreenReaderIssues = screenReaderProbe(doc)

	return report, nil
}

type rule struct {
	id          string
	impact      string
	description string
	tags        []string

	// check returns the failing nodes and whether the rule applied to
	// this document at all.
	check func(doc *goquery.Document) ([]a11y.ViolationNode, bool)
}

var rules = []rule{
	{
		id:          "image-alt",
		impact:      "critical",
		description: "Images must have alternative text",
		tags:        []string{"wcag2a", "wcag111"},
		check: func(doc *goquery.Document) ([]a11y.ViolationNode, bool) {
			imgs := doc.Find("img")
			if imgs.Length() == 0 {
				return nil, false
			}
			var nodes []a11y.ViolationNode
			imgs.Each(func(_ int, sel *goquery.Selection) {
				// alt="" marks a decorative image and passes.
				if _, ok := sel.Attr("alt"); ok {
					return
				}
				if sel.AttrOr("role", "") == "presentation" {
					return
				}
				if hasAccessibleName(sel) {
					return
				}
				nodes = append(nodes, violationNode(sel))
			})
			return nodes, true
		},
	},
	{
		id:          "label",
		impact:      "critical",
		description: "Form elements must have labels",
		tags:        []string{"wcag2a", "wcag412"},
		check: func(doc *goquery.Document) ([]a11y.ViolationNode, bool) {
			fields := doc.Find("input, select, textarea")
			if fields.Length() == 0 {
				return nil, false
			}
			var nodes []a11y.ViolationNode
			fields.Each(func(_ int, sel *goquery.Selection) {
				switch sel.AttrOr("type", "") {
				case "hidden", "submit", "reset", "button", "image":
					return
				}
				if hasAccessibleName(sel) || sel.AttrOr("title", "") != "" {
					return
				}
				if id := sel.AttrOr("id", ""); id != "" {
					if doc.Find(`label[for="` + id + `"]`).Length() > 0 {
						return
					}
				}
				if sel.ParentsFiltered("label").Length() > 0 {
					return
				}
				nodes = append(nodes, violationNode(sel))
			})
			return nodes, true
		},
	},
	{
		id:          "button-name",
		impact:      "critical",
		description: "Buttons must have discernible text",
		tags:        []string{"wcag2a", "wcag412"},
		check: func(doc *goquery.Document) ([]a11y.ViolationNode, bool) {
			buttons := doc.Find("button")
			if buttons.Length() == 0 {
				return nil, false
			}
			var nodes []a11y.ViolationNode
			buttons.Each(func(_ int, sel *goquery.Selection) {
				if strings.TrimSpace(sel.Text()) != "" {
					return
				}
				if hasAccessibleName(sel) || sel.AttrOr("title", "") != "" {
					return
				}
				if sel.Find("img[alt]").Length() > 0 {
					return
				}
				nodes = append(nodes, violationNode(sel))
			})
			return nodes, true
		},
	},
	{
		id:          "meta-viewport",
		impact:      "critical",
		description: "Zooming and scaling must not be disabled",
		tags:        []string{"wcag2aa", "wcag144"},
		check: func(doc *goquery.Document) ([]a11y.ViolationNode, bool) {
			meta := doc.Find(`meta[name="viewport"]`)
			if meta.Length() == 0 {
				return nil, false
			}
			var nodes []a11y.ViolationNode
			meta.Each(func(_ int, sel *goquery.Selection) {
				content := strings.ToLower(sel.AttrOr("content", ""))
				if strings.Contains(content, "user-scalable=no") ||
					strings.Contains(content, "maximum-scale=1") {
					nodes = append(nodes, violationNode(sel))
				}
			})
			return nodes, true
		},
	},
	{
		id:          "document-title",
		impact:      "serious",
		description: "Documents must have a title element to aid in navigation",
		tags:        []string{"wcag2a", "wcag242"},
		check: func(doc *goquery.Document) ([]a11y.ViolationNode, bool) {
			if strings.TrimSpace(doc.Find("head title").First().Text()) != "" {
				return nil, true
			}
			return []a11y.ViolationNode{{HTML: "<head>", Target: []string{"head"}}}, true
		},
	},
	{
		id:          "html-has-lang",
		impact:      "serious",
		description: "The html element must have a lang attribute",
		tags:        []string{"wcag2a", "wcag311"},
		check: func(doc *goquery.Document) ([]a11y.ViolationNode, bool) {
			root := doc.Find("html").First()
			if strings.TrimSpace(root.AttrOr("lang", "")) != "" {
				return nil, true
			}
			return []a11y.ViolationNode{{HTML: "<html>", Target: []string{"html"}}}, true
		},
	},
	{
		id:          "link-name",
		impact:      "serious",
		description: "Links must have discernible text",
		tags:        []string{"wcag2a", "wcag244"},
		check: func(doc *goquery.Document) ([]a11y.ViolationNode, bool) {
			links := doc.Find("a[href]")
			if links.Length() == 0 {
				return nil, false
			}
			var nodes []a11y.ViolationNode
			links.Each(func(_ int, sel *goquery.Selection) {
				if strings.TrimSpace(sel.Text()) != "" {
					return
				}
				if hasAccessibleName(sel) || sel.AttrOr("title", "") != "" {
					return
				}
				if sel.Find("img[alt]").FilterFunction(func(_ int, img *goquery.Selection) bool {
					return strings.TrimSpace(img.AttrOr("alt", "")) != ""
				}).Length() > 0 {
					return
				}
				nodes = append(nodes, violationNode(sel))
			})
			return nodes, true
		},
	},
	{
		id:          "frame-title",
		impact:      "serious",
		description: "Frames must have an accessible name",
		tags:        []string{"wcag2a", "wcag412"},
		check: func(doc *goquery.Document) ([]a11y.ViolationNode, bool) {
			frames := doc.Find("iframe, frame")
			if frames.Length() == 0 {
				return nil, false
			}
			var nodes []a11y.ViolationNode
			frames.Each(func(_ int, sel *goquery.Selection) {
				if strings.TrimSpace(sel.AttrOr("title", "")) != "" {
					return
				}
				if hasAccessibleName(sel) {
					return
				}
				nodes = append(nodes, violationNode(sel))
			})
			return nodes, true
		},
	},
	{
		id:          "tabindex",
		impact:      "serious",
		description: "Elements should not have tabindex greater than zero",
		tags:        []string{"best-practice"},
		check: func(doc *goquery.Document) ([]a11y.ViolationNode, bool) {
			elems := doc.Find("[tabindex]")
			if elems.Length() == 0 {
				return nil, false
			}
			var nodes []a11y.ViolationNode
			elems.Each(func(_ int, sel *goquery.Selection) {
				if n, err := strconv.Atoi(sel.AttrOr("tabindex", "")); err == nil && n > 0 {
					nodes = append(nodes, violationNode(sel))
				}
			})
			return nodes, true
		},
	},
	{
		id:          "heading-order",
		impact:      "moderate",
		description: "Heading levels should only increase by one",
		tags:        []string{"best-practice"},
		check: func(doc *goquery.Document) ([]a11y.ViolationNode, bool) {
			headings := doc.Find("h1, h2, h3, h4, h5, h6")
			if headings.Length() == 0 {
				return nil, false
			}
			var nodes []a11y.ViolationNode
			prev := 0
			headings.Each(func(_ int, sel *goquery.Selection) {
				level := int(goquery.NodeName(sel)[1] - '0')
				if prev > 0 && level > prev+1 {
					nodes = append(nodes, violationNode(sel))
				}
				prev = level
			})
			return nodes, true
		},
	},
	{
		id:          "empty-heading",
		impact:      "minor",
		description: "Headings should not be empty",
		tags:        []string{"best-practice"},
		check: func(doc *goquery.Document) ([]a11y.ViolationNode, bool) {
			headings := doc.Find("h1, h2, h3, h4, h5, h6")
			if headings.Length() == 0 {
				return nil, false
			}
			var nodes []a11y.ViolationNode
			headings.Each(func(_ int, sel *goquery.Selection) {
				if strings.TrimSpace(sel.Text()) == "" && !hasAccessibleName(sel) &&
					sel.Find("img[alt]").Length() == 0 {
					nodes = append(nodes, violationNode(sel))
				}
			})
			return nodes, true
		},
	},
}

// hasAccessibleName reports whether the element carries an aria name.
func hasAccessibleName(sel *goquery.Selection) bool {
	return strings.TrimSpace(sel.AttrOr("aria-label", "")) != "" ||
		strings.TrimSpace(sel.AttrOr("aria-labelledby", "")) != ""
}

// violationNode captures the element's serialized HTML and selector path.
func violationNode(sel *goquery.Selection) a11y.ViolationNode {
	return a11y.ViolationNode{
		HTML:   outerHTML(sel),
		Target: []string{cssPath(sel)},
	}
}

// outerHTML serializes the first node of the selection.
func outerHTML(sel *goquery.Selection) string {
	if len(sel.Nodes) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, sel.Nodes[0]); err != nil {
		return ""
	}
	return buf.String()
}

// cssPath builds a short CSS selector for the element: its own segment
// plus ancestor segments up to the nearest id or the body.
func cssPath(sel *goquery.Selection) string {
	var segments []string
	for cur := sel; cur.Length() > 0; cur = cur.Parent() {
		name := goquery.NodeName(cur)
		if name == "body" || name == "html" || name == "#document" {
			break
		}
		seg := name
		if id := cur.AttrOr("id", ""); id != "" {
			segments = append([]string{"#" + id}, segments...)
			break
		}
		if siblings := cur.Parent().ChildrenFiltered(name); siblings.Length() > 1 {
			seg = fmt.Sprintf("%s:nth-of-type(%d)", name, siblings.IndexOfSelection(cur)+1)
		}
		segments = append([]string{seg}, segments...)
	}
	if len(segments) == 0 {
		return goquery.NodeName(sel)
	}
	return strings.Join(segments, " > ")
}

// keyboardProbe walks the document for common keyboard traps: positive
// tabindex values and click handlers on elements that cannot take focus.
// The walk is bounded; it is a heuristic supplement, not a rule.
func keyboardProbe(doc *goquery.Document) []a11y.ProbeIssue {
	var issues []a11y.ProbeIssue

	doc.Find("[tabindex]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if n, err := strconv.Atoi(sel.AttrOr("tabindex", "")); err == nil && n > 0 {
			issues = append(issues, a11y.ProbeIssue{
				Kind:     "positive-tabindex",
				Selector: cssPath(sel),
				Message:  fmt.Sprintf("tabindex=%d disrupts the natural focus order", n),
			})
		}
		return len(issues) < maxProbeIssues
	})

	doc.Find("div[onclick], span[onclick]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if _, ok := sel.Attr("tabindex"); !ok {
			issues = append(issues, a11y.ProbeIssue{
				Kind:     "click-target-not-focusable",
				Selector: cssPath(sel),
				Message:  "element has a click handler but cannot receive keyboard focus",
			})
		}
		return len(issues) < maxProbeIssues
	})

	return issues
}

// screenReaderProbe walks the document for markup that confuses assistive
// technology: focusable content inside aria-hidden subtrees and unknown
// role values. Bounded like the keyboard probe.
func screenReaderProbe(doc *goquery.Document) []a11y.ProbeIssue {
	var issues []a11y.ProbeIssue

	doc.Find(`[aria-hidden="true"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if sel.Find("a[href], button, input, select, textarea, [tabindex]").Length() > 0 {
			issues = append(issues, a11y.ProbeIssue{
				Kind:     "aria-hidden-focus",
				Selector: cssPath(sel),
				Message:  "aria-hidden element contains focusable content",
			})
		}
		return len(issues) < maxProbeIssues
	})

	doc.Find("[role]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if role := sel.AttrOr("role", ""); role != "" && !knownRoles[role] {
			issues = append(issues, a11y.ProbeIssue{
				Kind:     "invalid-role",
				Selector: cssPath(sel),
				Message:  fmt.Sprintf("unknown ARIA role %q", role),
			})
		}
		return len(issues) < maxProbeIssues
	})

	return issues
}

var knownRoles = map[string]bool{
	"alert": true, "alertdialog": true, "application": true, "article": true,
	"banner": true, "button": true, "cell": true, "checkbox": true,
	"columnheader": true, "combobox": true, "complementary": true,
	"contentinfo": true, "definition": true, "dialog": true, "directory": true,
	"document": true, "feed": true, "figure": true, "form": true, "grid": true,
	"gridcell": true, "group": true, "heading": true, "img": true, "link": true,
	"list": true, "listbox": true, "listitem": true, "log": true, "main": true,
	"marquee": true, "math": true, "menu": true, "menubar": true,
	"menuitem": true, "menuitemcheckbox": true, "menuitemradio": true,
	"navigation": true, "none": true, "note": true, "option": true,
	"presentation": true, "progressbar": true, "radio": true,
	"radiogroup": true, "region": true, "row": true, "rowgroup": true,
	"rowheader": true, "scrollbar": true, "search": true, "searchbox": true,
	"separator": true, "slider": true, "spinbutton": true, "status": true,
	"switch": true, "tab": true, "table": true, "tablist": true,
	"tabpanel": true, "term": true, "textbox": true, "timer": true,
	"toolbar": true, "tooltip": true, "tree": true, "treegrid": true,
	"treeitem": true,
}
