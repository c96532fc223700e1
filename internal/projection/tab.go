package projection

import "github.com/goliatone/go-translated/internal/locales"

// Tab is the locale currently selected in a form or list view. It is a
// value: selecting a locale returns a new Tab and never touches records.
type Tab struct {
	registry *locales.Registry
	active   string
}

// NewTab starts on the registry's default locale.
func NewTab(registry *locales.Registry) Tab {
	return Tab{registry: registry, active: registry.Default()}
}

// TabFor starts on code when registered, on the default locale otherwise.
func TabFor(registry *locales.Registry, code string) Tab {
	tab := NewTab(registry)
	if next, ok := tab.Select(code); ok {
		return next
	}
	return tab
}

// Active returns the selected locale code.
func (t Tab) Active() string {
	return t.active
}

// Select switches to code. Unknown codes leave the tab unchanged and report
// false.
func (t Tab) Select(code string) (Tab, bool) {
	if !t.registry.Contains(code) {
		return t, false
	}
	t.active = code
	return t, true
}

// Tabs lists the selectable locales in registry order.
func (t Tab) Tabs() []string {
	return t.registry.Codes()
}
