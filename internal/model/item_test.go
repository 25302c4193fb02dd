package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyEnvelopeSerializesAsArray(t *testing.T) {
	b, err := json.Marshal(Empty())
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(b))
}

func TestItemWireNames(t *testing.T) {
	b, err := json.Marshal(Item{Text: "buy milk", DateCreated: 1000})
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"buy milk","dateCreated":1000}`, string(b))
}

func TestCollisions(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
		want  []int64
	}{
		{name: "empty", items: nil, want: nil},
		{
			name:  "distinct",
			items: []Item{{Text: "a", DateCreated: 1}, {Text: "b", DateCreated: 2}},
			want:  nil,
		},
		{
			name: "same millisecond",
			items: []Item{
				{Text: "a", DateCreated: 5},
				{Text: "b", DateCreated: 5},
				{Text: "c", DateCreated: 5},
				{Text: "d", DateCreated: 7},
				{Text: "e", DateCreated: 7},
			},
			want: []int64{5, 7},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := Envelope{Items: tt.items}
			assert.Equal(t, tt.want, env.Collisions())
		})
	}
}
