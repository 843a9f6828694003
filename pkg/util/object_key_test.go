package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey_UniquePerCall(t *testing.T) {
	a := ObjectKey("report.pdf")
	b := ObjectKey("report.pdf")

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, "-report.pdf"))
}

func TestObjectKey_NeverJustTheFilename(t *testing.T) {
	key := ObjectKey("a.txt")
	assert.NotEqual(t, "a.txt", key)
	assert.Greater(t, len(key), len("a.txt")+11)
}

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"../../etc/passwd", "passwd"},
		{`..\..\windows\system32`, "system32"},
		{"my file (1).txt", "my_file__1_.txt"},
		{"юникод.txt", "txt"},
		{"...", "file"},
		{"", "file"},
		{strings.Repeat("a", 100) + ".txt", strings.Repeat("a", 44) + ".txt"},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got := sanitizeName(tc.in)
			assert.Equal(t, tc.want, got)
			assert.NotContains(t, got, "/")
			assert.NotContains(t, got, "..")
		})
	}
}
