// Package markdown renders decoded notion trees as Markdown.
package markdown

// Fragment is the result of rendering one node: either present text or
// absent. An absent fragment contributes nothing to a document, while a
// present empty string is a valid zero-width render.
type Fragment struct {
	text    string
	present bool
}

// Some returns a present fragment.
func Some(text string) Fragment {
	return Fragment{text: text, present: true}
}

// None returns the absent fragment.
func None() Fragment {
	return Fragment{}
}

// Value returns the text and whether the fragment is present.
func (f Fragment) Value() (string, bool) {
	return f.text, f.present
}

// IsNone reports whether the fragment is absent.
func (f Fragment) IsNone() bool {
	return !f.present
}

// OrEmpty returns the text, or "" for an absent fragment.
func (f Fragment) OrEmpty() string {
	return f.text
}

// Map applies fn to a present fragment and leaves an absent one alone.
func (f Fragment) Map(fn func(string) string) Fragment {
	if !f.present {
		return f
	}
	return Some(fn(f.text))
}

func (f Fragment) String() string {
	if !f.present {
		return "None"
	}
	return "Some(" + f.text + ")"
}
