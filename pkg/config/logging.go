package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
)

// SetupLogging は apex/log のハンドラとレベルを設定します。
// format が "json" なら1行1 JSON、それ以外は人が読むためのテキスト形式です。
func SetupLogging(w io.Writer, level, format string) error {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}

	switch strings.ToLower(format) {
	case "json":
		log.SetHandler(json.New(w))
	case "text", "":
		log.SetHandler(text.New(w))
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q", format)
	}
	log.SetLevel(lvl)
	return nil
}
