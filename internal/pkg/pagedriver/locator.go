package pagedriver

import (
	"fmt"
	"strings"
)

// Locator addresses elements with an XPath expression.
type Locator struct {
	expr string
}

func XPath(expr string) Locator {
	return Locator{expr: expr}
}

// Nth narrows the locator to its i-th match, zero based.
func (l Locator) Nth(i int) Locator {
	return Locator{expr: fmt.Sprintf("(%s)[%d]", l.expr, i+1)}
}

// Within scopes child under l. A leading "." on child is dropped, so relative
// expressions like ".//span" compose as expected.
func (l Locator) Within(child Locator) Locator {
	return Locator{expr: l.expr + strings.TrimPrefix(child.expr, ".")}
}

func (l Locator) String() string {
	return l.expr
}

func (l Locator) IsZero() bool {
	return l.expr == ""
}
