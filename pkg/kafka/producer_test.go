package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	messages, err := Encode([]Event{
		{Key: "apple", Value: map[string]int{"total_hits": 1}},
		{Key: "", Value: "plain"},
	})
	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Equal(t, []byte("apple"), messages[0].Key)
	assert.JSONEq(t, `{"total_hits":1}`, string(messages[0].Value))
	assert.Equal(t, `"plain"`, string(messages[1].Value))
}

func TestEncodeRejectsUnmarshalableValue(t *testing.T) {
	_, err := Encode([]Event{{Key: "x", Value: make(chan int)}})
	assert.Error(t, err)
}
