package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInTestModeReadsEnvironmentOnce(t *testing.T) {
	t.Setenv(testModeEnv, "1")
	assert.True(t, InTestMode())

	t.Setenv(testModeEnv, "0")
	assert.True(t, InTestMode())
}
