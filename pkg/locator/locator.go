// Package locator defines the strategy/value pairs used to address UI elements.
package locator

import "fmt"

// Strategy identifies a WebDriver locator strategy.
type Strategy string

// Supported strategies. The mobile-prefixed entries are Appium
// extensions; the rest are standard W3C strategies.
const (
	ID                 Strategy = "id"
	XPath              Strategy = "xpath"
	AccessibilityID    Strategy = "accessibility id"
	ClassName          Strategy = "class name"
	CSSSelector        Strategy = "css selector"
	Name               Strategy = "name"
	AndroidUIAutomator Strategy = "-android uiautomator"
	IOSPredicate       Strategy = "-ios predicate string"
)

// Locator pairs a strategy with a selector value. It is a comparable
// value type, so it can key maps and be compared with ==.
type Locator struct {
	Strategy Strategy
	Value    string
}

// New creates a locator from an arbitrary strategy and value.
func New(strategy Strategy, value string) Locator {
	return Locator{Strategy: strategy, Value: value}
}

// ByID locates by resource or element id.
func ByID(value string) Locator {
	return Locator{Strategy: ID, Value: value}
}

// ByXPath locates by XPath expression.
func ByXPath(value string) Locator {
	return Locator{Strategy: XPath, Value: value}
}

// ByAccessibilityID locates by accessibility identifier.
func ByAccessibilityID(value string) Locator {
	return Locator{Strategy: AccessibilityID, Value: value}
}

// ByClassName locates by widget class name.
func ByClassName(value string) Locator {
	return Locator{Strategy: ClassName, Value: value}
}

// ByCSS locates by CSS selector (web contexts).
func ByCSS(value string) Locator {
	return Locator{Strategy: CSSSelector, Value: value}
}

// ByName locates by name attribute.
func ByName(value string) Locator {
	return Locator{Strategy: Name, Value: value}
}

// ByAndroidUIAutomator locates by UiSelector expression.
func ByAndroidUIAutomator(value string) Locator {
	return Locator{Strategy: AndroidUIAutomator, Value: value}
}

// ByIOSPredicate locates by NSPredicate expression.
func ByIOSPredicate(value string) Locator {
	return Locator{Strategy: IOSPredicate, Value: value}
}

// String renders the locator as strategy=value for diagnostics.
func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.Strategy, l.Value)
}

// IsZero reports whether the locator is empty.
func (l Locator) IsZero() bool {
	return l.Strategy == "" && l.Value == ""
}
