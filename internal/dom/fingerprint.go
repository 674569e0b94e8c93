package dom

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// fingerprintDepth bounds the structural walk. Four levels is enough to
// tell SPA views apart without hashing every leaf widget.
const fingerprintDepth = 4

// contentRootSelectors name the main content area, most specific first.
var contentRootSelectors = []string{
	"main",
	`[role="main"]`,
	"#root",
	".stApp",
	"body",
}

// Fingerprint produces a bounded structural digest of the page's main
// content area. Only tag names and role attributes contribute; text,
// styling and other attributes are ignored so cosmetic churn does not
// create phantom states. Empty or unparseable input yields "", which
// callers treat as a URL-only state.
func Fingerprint(pageHTML string) string {
	if strings.TrimSpace(pageHTML) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return ""
	}

	var root *html.Node
	for _, selector := range contentRootSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			root = sel.Nodes[0]
			break
		}
	}
	if root == nil {
		return ""
	}

	var b strings.Builder
	writeStructure(&b, root, 0)
	if b.Len() == 0 {
		return ""
	}

	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func writeStructure(b *strings.Builder, n *html.Node, depth int) {
	if depth > fingerprintDepth || n.Type != html.ElementNode {
		return
	}

	b.WriteByte('<')
	b.WriteString(n.Data)
	for _, attr := range n.Attr {
		if attr.Key == "role" {
			b.WriteString(` role="`)
			b.WriteString(attr.Val)
			b.WriteByte('"')
			break
		}
	}
	b.WriteByte('>')

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeStructure(b, c, depth+1)
	}
}
