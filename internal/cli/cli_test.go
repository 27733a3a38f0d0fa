package cli

import (
	"bytes"
	"strings"
	"testing"

	config "github.com/maheshrc27/autoposter/configs"
	"github.com/maheshrc27/autoposter/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestParseFilters(t *testing.T) {
	filters, err := parseFilters([]string{"is_processed=true", "theme=dark", "post_type=metadata_to_media"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"is_processed": true,
		"theme":        "dark",
		"post_type":    "metadata_to_media",
	}, filters)

	_, err = parseFilters([]string{"theme"})
	assert.Error(t, err)
	_, err = parseFilters([]string{"=dark"})
	assert.Error(t, err)
}

func TestParseFiltersKeepsStringFields(t *testing.T) {
	filters, err := parseFilters([]string{"copied=0", "theme=t", "x_status=1"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"copied":   false,
		"theme":    "t",
		"x_status": "1",
	}, filters)
}

func TestTokenCommand(t *testing.T) {
	cfg = &config.Config{SecretKey: testSecret}
	t.Cleanup(func() { cfg = nil })

	var out bytes.Buffer
	tokenCmd.SetOut(&out)
	require.NoError(t, tokenCmd.Flags().Set("operator", "cron-box"))

	require.NoError(t, runToken(tokenCmd, nil))

	claims, err := utils.ValidateToken(testSecret, strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "cron-box", claims.Operator)
}

func TestEncryptCommand(t *testing.T) {
	cfg = &config.Config{SecretKey: testSecret}
	t.Cleanup(func() { cfg = nil })

	var out bytes.Buffer
	encryptCmd.SetOut(&out)

	require.NoError(t, runEncrypt(encryptCmd, []string{"sk-live-123"}))

	sealed := strings.TrimSpace(out.String())
	require.True(t, strings.HasPrefix(sealed, encryptedPrefix))
	plain, err := utils.Decrypt(strings.TrimPrefix(sealed, encryptedPrefix), []byte(testSecret))
	require.NoError(t, err)
	assert.Equal(t, "sk-live-123", plain)
}

func TestSecretCommandsNeedKey(t *testing.T) {
	cfg = &config.Config{}
	t.Cleanup(func() { cfg = nil })

	assert.Error(t, runToken(tokenCmd, nil))
	assert.Error(t, runEncrypt(encryptCmd, []string{"x"}))
}

func TestKeygenCommand(t *testing.T) {
	var out bytes.Buffer
	keygenCmd.SetOut(&out)

	require.NoError(t, runKeygen(keygenCmd, nil))

	assert.Len(t, strings.TrimSpace(out.String()), 32)
}
