// Package clipboard provides access to the system clipboard.
package clipboard

// SetText places text on the system clipboard.
func SetText(text string) error {
	return setClipboardContent(text)
}

// GetText returns the current text content of the system clipboard.
func GetText() (string, error) {
	return getClipboardContent()
}
