package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	t.Run("ldflags で埋め込んだ値を優先するのだ", func(t *testing.T) {
		origVersion, origSHA := BuildVersion, GitSHA
		t.Cleanup(func() { BuildVersion, GitSHA = origVersion, origSHA })

		BuildVersion, GitSHA = "1.2.3", "abc123"
		info := Get()

		assert.Equal(t, ServiceName, info.Service)
		assert.Equal(t, "1.2.3", info.Version)
		assert.Equal(t, "abc123", info.GitSHA)
		assert.Equal(t, runtime.Version(), info.GoVersion)
	})
}
