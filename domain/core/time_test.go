package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestTimestamp_YAMLRoundTrip(t *testing.T) {
	type doc struct {
		CreatedAt Timestamp `yaml:"created_at"`
	}
	in := doc{CreatedAt: NewTimestamp(time.Date(2024, 3, 1, 12, 30, 0, 123456789, time.UTC))}

	out, err := yaml.Marshal(in)
	require.NoError(t, err)

	var back doc
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.True(t, in.CreatedAt.Time().Equal(back.CreatedAt.Time()))

	assert.Error(t, yaml.Unmarshal([]byte("created_at: yesterday\n"), &back))
}
