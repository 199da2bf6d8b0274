package recognize

/*
#cgo CFLAGS: -x objective-c -fobjc-arc -mmacosx-version-min=10.15
#cgo LDFLAGS: -framework Vision -framework Foundation -framework CoreImage

#include <stdlib.h>

// Declaration of the Objective-C function implemented in recognize_darwin.m
extern char* recognizeText(const char* imagePath);
*/
import "C"
import (
	"fmt"
	"strings"
	"unsafe"
)

// Lines performs OCR on the image at the given path and returns the
// recognized text lines.
func Lines(imagePath string) ([]string, error) {
	cPath := C.CString(imagePath)
	defer C.free(unsafe.Pointer(cPath))

	cResult := C.recognizeText(cPath)
	if cResult == nil {
		return nil, fmt.Errorf("OCR failed to recognize text or load image")
	}
	defer C.free(unsafe.Pointer(cResult))

	text := C.GoString(cResult)
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}
