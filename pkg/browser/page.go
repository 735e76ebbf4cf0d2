package browser

import "context"

// Element is a matched DOM element.
type Element interface {
	// InnerText returns the rendered text of the element.
	InnerText() (string, error)
}

// Page is the browser capability consumed by the executor. Every method may
// fail on a missing selector or a navigation error.
type Page interface {
	// Goto loads url and returns once the DOM is parsed.
	Goto(url string) error
	Fill(selector, value string) error
	Click(selector string) error
	// Evaluate runs script in the page and discards its result.
	Evaluate(script string) error
	// QueryAll returns every element matching selector, possibly none.
	QueryAll(selector string) ([]Element, error)
	// Query returns the first element matching selector, or nil if none.
	Query(selector string) (Element, error)
}

// Session is one browser instance with one page, owned by a single task.
// Close releases the browser and is safe to call more than once.
type Session interface {
	Page() Page
	Close() error
}

// Launcher starts fresh sessions.
type Launcher interface {
	Start(ctx context.Context) (Session, error)
}
