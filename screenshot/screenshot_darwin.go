package screenshot

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework CoreGraphics -framework Foundation
#import <CoreGraphics/CoreGraphics.h>
#import <Foundation/Foundation.h>

bool hasScreenRecordingPermission() {
    if (@available(macOS 11.0, *)) {
        return CGPreflightScreenCaptureAccess();
    }
    // Fallback for macOS 10.15
    // Note: On 10.15, there isn't a direct preflight API.
    return true;
}

void requestScreenRecordingPermission() {
    if (@available(macOS 11.0, *)) {
        CGRequestScreenCaptureAccess();
    }
}

size_t mainDisplayWidth()  { return CGDisplayPixelsWide(CGMainDisplayID()); }
size_t mainDisplayHeight() { return CGDisplayPixelsHigh(CGMainDisplayID()); }
*/
import "C"
import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/shuntapp/shunt/config"
)

// HasPermission checks if the app has screen recording permission.
func HasPermission() bool {
	return bool(C.hasScreenRecordingPermission())
}

// RequestPermission requests screen recording permission from the system.
func RequestPermission() {
	C.requestScreenRecordingPermission()
}

// CaptureRegion grabs the given display-relative region and saves it to a
// temp PNG. Returns the path to the saved image file; the caller removes it.
func CaptureRegion(region config.Region) (string, error) {
	w := int(C.mainDisplayWidth())
	h := int(C.mainDisplayHeight())
	if w == 0 || h == 0 {
		return "", fmt.Errorf("main display has zero size")
	}

	x := int(float64(w) * region.X0)
	y := int(float64(h) * region.Y0)
	rw := int(float64(w)*region.X1) - x
	rh := int(float64(h)*region.Y1) - y
	if rw <= 0 || rh <= 0 {
		return "", fmt.Errorf("region %+v resolves to empty rect", region)
	}

	tmpDir := os.TempDir()
	fileName := fmt.Sprintf("shunt_capture_%d.png", time.Now().UnixNano())
	filePath := filepath.Join(tmpDir, fileName)

	// Command: screencapture -R x,y,w,h <path>
	// -R: capture the given rectangle
	// -x: do not play sound
	rect := fmt.Sprintf("%d,%d,%d,%d", x, y, rw, rh)
	cmd := exec.Command("screencapture", "-R", rect, "-x", filePath)

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("screencapture failed: %w", err)
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return "", fmt.Errorf("screencapture produced no file")
	}

	return filePath, nil
}
