package imagemeta

import (
	_ "image/gif"  // GIF decoder registration
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration

	_ "golang.org/x/image/bmp"  // BMP decoder registration
	_ "golang.org/x/image/tiff" // TIFF decoder registration
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// Kind enumerates the image formats folio recognizes.
type Kind string

const (
	KindUnknown Kind = "unknown"
	KindJPEG    Kind = "jpeg"
	KindPNG     Kind = "png"
	KindGIF     Kind = "gif"
	KindBMP     Kind = "bmp"
	KindTIFF    Kind = "tiff"
	KindWebP    Kind = "webp"
)

// kindFromFormat maps the format name reported by image.DecodeConfig.
func kindFromFormat(format string) Kind {
	switch format {
	case "jpeg":
		return KindJPEG
	case "png":
		return KindPNG
	case "gif":
		return KindGIF
	case "bmp":
		return KindBMP
	case "tiff":
		return KindTIFF
	case "webp":
		return KindWebP
	default:
		return KindUnknown
	}
}

// Recognized reports whether k is a supported image kind.
func (k Kind) Recognized() bool {
	return k != KindUnknown && k != ""
}

func (k Kind) String() string {
	if k == "" {
		return string(KindUnknown)
	}
	return string(k)
}
