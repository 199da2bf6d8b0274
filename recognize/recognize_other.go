//go:build !darwin

package recognize

// Lines performs OCR on the image at the given path and returns the
// recognized text lines.
func Lines(imagePath string) ([]string, error) {
	return nil, nil
}
