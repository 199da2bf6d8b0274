//go:build !darwin

package clipboard

func getClipboardContent() (string, error) {
	return "", nil
}

func setClipboardContent(text string) error {
	return nil
}
