package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextKeyIsStable(t *testing.T) {
	assert.Equal(t, TextKey("hello"), TextKey("hello"))
	assert.NotEqual(t, TextKey("hello"), TextKey("hello!"))
	assert.Len(t, TextKey("hello"), 32)
}

func TestAssessmentKeyVariesWithContext(t *testing.T) {
	base := AssessmentKey("your account is suspended", "high", "sms", "en-US", 0)

	assert.Equal(t, base, AssessmentKey("your account is suspended", "high", "sms", "en-US", 0))
	assert.NotEqual(t, base, AssessmentKey("your account is suspended", "high", "email", "en-US", 0),
		"channel reaches the external classifier")
	assert.NotEqual(t, base, AssessmentKey("your account is suspended", "high", "sms", "es-MX", 0),
		"locale reaches the external classifier")
	assert.NotEqual(t, base, AssessmentKey("your account is suspended", "normal", "sms", "en-US", 0))
	assert.NotEqual(t, base, AssessmentKey("your account is suspended", "high", "sms", "en-US", 1),
		"adaptation passes roll the key")
}
