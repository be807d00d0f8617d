package imports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		spec string
		kind Kind
		path string
	}{
		{"http", KindBuiltin, "http"},
		{"fs/promises", KindBuiltin, "fs/promises"},
		{"node:fs", KindBuiltin, "node:fs"},
		{"internal/foo", KindBuiltin, "internal/foo"},
		{"./a", KindRelative, "/repo/src/a"},
		{"../lib/types", KindRelative, "/repo/lib/types"},
		{".", KindRelative, "/repo/src"},
		{"..", KindRelative, "/repo"},
		{"/abs/x", KindRelative, "/abs/x"},
		{"lodash", KindPackage, "lodash"},
		{"@scope/pkg/sub", KindPackage, "@scope/pkg/sub"},
		{".hidden", KindPackage, ".hidden"},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got := Classify("/repo/src", tt.spec)
			assert.Equal(t, tt.kind, got.Kind, got.Kind.String())
			assert.Equal(t, tt.spec, got.Specifier)
			assert.Equal(t, tt.path, got.Path)
		})
	}
}

func TestRelativeTo(t *testing.T) {
	tests := []struct {
		dir, target, want string
	}{
		{"/repo/tests", "/repo/lib/types", "../lib/types"},
		{"/repo", "/repo/lib/types", "./lib/types"},
		{"/repo/lib", "/repo/lib", "."},
	}
	for _, tt := range tests {
		got, err := RelativeTo(tt.dir, tt.target)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
