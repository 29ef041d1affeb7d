package mdx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDocsHref(t *testing.T) {
	cases := map[string]string{
		"/v2/guides/setup":                  "/guides/setup",
		"/v2":                               "/",
		"/v10/":                             "/",
		"/vault/keys":                       "/vault/keys",
		"/v2abc/x":                          "/v2abc/x",
		"https://docs.example.com/v1/a?b=c": "https://docs.example.com/a?b=c",
		"https://docs.example.com/v1":       "https://docs.example.com",
		"https://example.com/v1x":           "https://example.com/v1x",
		"#anchor":                           "#anchor",
		"":                                  "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeDocsHref(in), in)
	}
}
