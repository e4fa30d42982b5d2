package util

import (
	"strconv"
)

var byteUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatBytes renders a size with base-1024 units, rounded to decimals
// places with trailing zeros dropped: 0 -> "0 Bytes", 1536 -> "1.5 KB".
func FormatBytes(bytes int64, decimals int) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	if decimals < 0 {
		decimals = 0
	}
	const k = 1024.0
	i := 0
	value := float64(bytes)
	for value >= k && i < len(byteUnits)-1 {
		value /= k
		i++
	}
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(value, 'f', decimals, 64), 64)
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + byteUnits[i]
}

// TypeOrUnknown returns the MIME type, or "Unknown" when it is empty.
func TypeOrUnknown(mimeType string) string {
	if mimeType == "" {
		return "Unknown"
	}
	return mimeType
}
