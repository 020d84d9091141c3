package admin

// Confirmer gates destructive actions behind an approval prompt.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(prompt string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// AutoConfirm approves every prompt. The HTTP layer carries its own explicit
// confirmation flag, so the engine-side prompt is pre-approved there.
var AutoConfirm = ConfirmerFunc(func(string) bool { return true })

// Clipboard receives copied credential text. Failures are swallowed by
// callers.
type Clipboard interface {
	Copy(text string) error
}

// NopClipboard discards copied text.
type NopClipboard struct{}

func (NopClipboard) Copy(string) error { return nil }
