package browser

import (
	"github.com/go-rod/rod"

	"github.com/testweaver/sitegraph/pkg/graph"
)

// appTypeJS classifies the rendered page by its mount point. Streamlit
// is checked first: a Streamlit page also contains generic divs that a
// loose React check could match.
const appTypeJS = `() => {
	if (document.querySelector('.stApp') ||
		document.querySelector('[data-testid="stAppViewContainer"]')) {
		return 'streamlit';
	}
	if (document.querySelector('#root')) {
		return 'react';
	}
	return 'unknown';
}`

// DetectAppType sniffs which application family rendered the page.
// Detection failures report unknown rather than erroring: the graph is
// still useful without a family label.
func DetectAppType(page *rod.Page) graph.AppType {
	res, err := page.Eval(appTypeJS)
	if err != nil {
		return graph.AppTypeUnknown
	}
	switch res.Value.Str() {
	case "streamlit":
		return graph.AppTypeStreamlit
	case "react":
		return graph.AppTypeReact
	default:
		return graph.AppTypeUnknown
	}
}
