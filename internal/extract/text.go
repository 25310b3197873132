package extract

import (
	"bytes"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeText converts raw bytes to a UTF-8 string. The BOM is stripped
// and invalid sequences are replaced rather than rejected, since user
// uploads are routinely mislabeled.
func decodeText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	return strings.ToValidUTF8(string(data), "�")
}
