package service

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// syncFormats are the image formats the synchronous detection call accepts.
// Other recognized formats (gif, webp) still classify as images but must go
// through the job flow.
var syncFormats = map[string]bool{
	"jpeg": true,
	"png":  true,
}

// sniffImage classifies a document payload as an image, returning the
// registered format name and pixel dimensions without decoding the full
// image.
func sniffImage(data []byte) (format string, width, height int, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", 0, 0, err
	}
	return format, cfg.Width, cfg.Height, nil
}
