package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallbackName(t *testing.T) {
	tests := []struct {
		data, name, payload string
	}{
		{"shift:+1", "shift", "+1"},
		{"open:42", "open", "42"},
		{"pdf", "pdf", ""},
		{"a:b:c", "a", "b:c"},
		{"", "", ""},
	}
	for _, tt := range tests {
		name, payload := CallbackName(tt.data)
		assert.Equal(t, tt.name, name, tt.data)
		assert.Equal(t, tt.payload, payload, tt.data)
	}
}

func TestCallbackData(t *testing.T) {
	assert.Equal(t, "shift:-1", CallbackData("shift", "-1"))
	assert.Equal(t, "pdf", CallbackData("pdf", ""))

	name, payload := CallbackName(CallbackData("open", "7"))
	assert.Equal(t, "open", name)
	assert.Equal(t, "7", payload)
}
