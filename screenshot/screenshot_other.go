//go:build !darwin

package screenshot

import "github.com/shuntapp/shunt/config"

// HasPermission checks if the app has screen recording permission.
func HasPermission() bool {
	return false
}

// RequestPermission requests screen recording permission from the system.
func RequestPermission() {}

// CaptureRegion grabs the given display-relative region and saves it to a
// temp PNG. Returns the path to the saved image file; the caller removes it.
func CaptureRegion(region config.Region) (string, error) {
	return "", nil
}
