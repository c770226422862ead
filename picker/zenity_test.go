package picker

import (
	"errors"
	"testing"

	"github.com/ncruces/zenity"
	"github.com/stretchr/testify/assert"
)

func TestResult(t *testing.T) {
	path, err := result("/tmp/todos", nil, "directory")
	assert.NoError(t, err)
	assert.Equal(t, "/tmp/todos", path)

	_, err = result("", zenity.ErrCanceled, "directory")
	assert.ErrorIs(t, err, ErrCancelled)

	_, err = result("", nil, "file")
	assert.ErrorIs(t, err, ErrCancelled, "empty answer counts as cancel")

	boom := errors.New("no display")
	_, err = result("", boom, "file")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrCancelled)
}

func TestAudioFilter(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{"*.mp3", "*.wav", "*.ogg", "*.m4a", "*.aac"},
		AudioFilter.Patterns)
}
