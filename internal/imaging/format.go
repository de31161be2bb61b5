// Package imaging decodes raster images into the 8-bit RGB pixel buffers
// the forensic layers operate on, and re-encodes them for error level
// analysis. Formats are identified by magic bytes, never by extension.
package imaging

// Format is the decoded image's container format.
type Format string

const (
	FormatJPEG  Format = "JPEG"
	FormatPNG   Format = "PNG"
	FormatWEBP  Format = "WEBP"
	FormatOther Format = "OTHER"
)

// SniffFormat identifies a container format from magic bytes.
func SniffFormat(data []byte) Format {
	switch {
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return FormatJPEG
	case len(data) >= 8 && data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 &&
		data[4] == 0x0D && data[5] == 0x0A && data[6] == 0x1A && data[7] == 0x0A:
		return FormatPNG
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return FormatWEBP
	default:
		return FormatOther
	}
}
