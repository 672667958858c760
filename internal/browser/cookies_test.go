package browser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCookies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies-linkedin.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"name": "li_at", "value": "secret", "domain": ".linkedin.com", "path": "/", "expires": 1893456000, "httpOnly": true, "secure": true, "sameSite": "None"},
		{"name": "lang", "value": "v=2&lang=en-us", "domain": ".linkedin.com", "sameSite": "lax"},
		{"name": "", "value": "dropped", "domain": ".linkedin.com"}
	]`), 0o644))

	cookies, err := LoadCookies(path)
	require.NoError(t, err)
	require.Len(t, cookies, 2)

	first := cookies[0]
	assert.Equal(t, "li_at", first.Name)
	assert.Equal(t, ".linkedin.com", *first.Domain)
	assert.Equal(t, float64(1893456000), *first.Expires)
	assert.True(t, *first.HttpOnly)
	assert.True(t, *first.Secure)
	assert.Equal(t, playwright.SameSiteAttributeNone, first.SameSite)

	second := cookies[1]
	assert.Equal(t, "/", *second.Path, "missing path defaults to root")
	assert.Nil(t, second.Expires, "session cookie")
	assert.Nil(t, second.HttpOnly)
	assert.Equal(t, playwright.SameSiteAttributeLax, second.SameSite)
}

func TestLoadCookies_Errors(t *testing.T) {
	_, err := LoadCookies(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))
	_, err = LoadCookies(path)
	assert.Error(t, err)
}
