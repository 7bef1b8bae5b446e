package generator

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// trimCodeFence は ```json ... ``` で囲まれた応答から中身だけを取り出します。
// responseMimeType を指定していても稀に囲まれて返ることがあるための調整です。
func trimCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// decodeBase64Image は base64 文字列をバイト列に戻します。
// data:<mime>;base64, の接頭辞があれば取り除きます。
func decodeBase64Image(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		idx := strings.Index(s, ",")
		if idx < 0 {
			return nil, fmt.Errorf("malformed data URI")
		}
		s = s[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		// パディングなしで送ってくるクライアントもある
		if raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "=")); rawErr == nil {
			return raw, nil
		}
		return nil, err
	}
	return data, nil
}

// toDataURL は PNG バイト列を data URI に変換します。
func toDataURL(png []byte) string {
	return dataURLPrefix + base64.StdEncoding.EncodeToString(png)
}
