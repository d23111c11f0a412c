package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHostname(t *testing.T) {
	assert.NoError(t, Hostname("web-01"))
	assert.NoError(t, Hostname("a"))
	assert.NoError(t, Hostname("Host123"))

	assert.Error(t, Hostname(""))
	assert.Error(t, Hostname("-bad"))
	assert.Error(t, Hostname("bad-"))
	assert.Error(t, Hostname("bad_host"))
	assert.Error(t, Hostname("bad.host"))
}

func TestPassword(t *testing.T) {
	assert.Error(t, Password(""))
	assert.Error(t, Password("1234567"))
	assert.NoError(t, Password("12345678"))
	assert.NoError(t, Password("        "))
}

func TestPositiveInt(t *testing.T) {
	assert.NoError(t, PositiveInt("1"))
	assert.NoError(t, PositiveInt("512"))

	assert.Error(t, PositiveInt("0"))
	assert.Error(t, PositiveInt("012"))
	assert.Error(t, PositiveInt("12a"))
	assert.Error(t, PositiveInt("-5"))
	assert.Error(t, PositiveInt(""))
}

func TestHostOctet(t *testing.T) {
	assert.NoError(t, HostOctet("1"))
	assert.NoError(t, HostOctet("42"))
	assert.NoError(t, HostOctet("254"))

	assert.Error(t, HostOctet("0"))
	assert.Error(t, HostOctet("255"))
	assert.Error(t, HostOctet("256"))
	assert.Error(t, HostOctet("-1"))
	assert.Error(t, HostOctet("abc"))
	assert.Error(t, HostOctet(""))
}
