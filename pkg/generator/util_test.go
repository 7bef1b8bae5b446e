package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrimCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"囲みなし", `{"a":1}`, `{"a":1}`},
		{"json 付きの囲み", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"言語指定なしの囲み", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"前後の空白", "  \n{\"a\":1}\n ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, trimCodeFence(tt.in))
		})
	}
}

func TestDecodeBase64Image(t *testing.T) {
	t.Run("素の base64 を読めるのだ", func(t *testing.T) {
		got, err := decodeBase64Image("aGVsbG8=")
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), got)
	})

	t.Run("data URI の接頭辞を取り除く", func(t *testing.T) {
		got, err := decodeBase64Image("data:image/jpeg;base64,aGVsbG8=")
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), got)
	})

	t.Run("パディングなしでも読める", func(t *testing.T) {
		got, err := decodeBase64Image("aGVsbG8")
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), got)
	})

	t.Run("カンマのない data URI はエラー", func(t *testing.T) {
		_, err := decodeBase64Image("data:image/jpeg;base64")
		assert.Error(t, err)
	})

	t.Run("base64 でない文字列はエラー", func(t *testing.T) {
		_, err := decodeBase64Image("!!!")
		assert.Error(t, err)
	})
}

func TestToDataURL(t *testing.T) {
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", toDataURL([]byte("hello")))
}
