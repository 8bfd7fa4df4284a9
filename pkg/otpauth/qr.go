package otpauth

import (
	"encoding/base64"
	"strings"

	"github.com/skip2/go-qrcode"
)

const DefaultPNGSize = 256

// PNG renders url as a PNG QR code of size x size pixels.
func PNG(url string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultPNGSize
	}
	return qrcode.Encode(url, qrcode.Medium, size)
}

// DataURI embeds the PNG so HTTP clients can show it without a second request.
func DataURI(url string, size int) (string, error) {
	png, err := PNG(url, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// Terminal renders url for a text console, either with the library's half
// block characters or as full-width UTF-8 blocks.
func Terminal(url string, inverse, utf8 bool) (string, error) {
	qr, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return "", err
	}
	if utf8 {
		return bitmapToUTF8(qr.Bitmap(), inverse), nil
	}
	return qr.ToSmallString(inverse), nil
}

func bitmapToUTF8(bitmap [][]bool, inverse bool) string {
	var sb strings.Builder
	full := "██"
	empty := "  "
	if inverse {
		full, empty = empty, full
	}
	for _, row := range bitmap {
		for _, dot := range row {
			if dot {
				sb.WriteString(full)
			} else {
				sb.WriteString(empty)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
