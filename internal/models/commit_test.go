package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortHash(t *testing.T) {
	c := &Commit{Hash: "0123456789abcdef0123456789abcdef01234567"}
	assert.Equal(t, "01234567", c.ShortHash())

	short := &Commit{Hash: "abc"}
	assert.Equal(t, "abc", short.ShortHash())
}

func TestSubject(t *testing.T) {
	c := &Commit{Message: "first line\nrest of body"}
	assert.Equal(t, "first line", c.Subject())

	c = &Commit{Message: "single line"}
	assert.Equal(t, "single line", c.Subject())
}

func TestIsMergeCommit(t *testing.T) {
	assert.False(t, (&Commit{}).IsMergeCommit())
	assert.False(t, (&Commit{Parents: []string{"a"}}).IsMergeCommit())
	assert.True(t, (&Commit{Parents: []string{"a", "b"}}).IsMergeCommit())
}

func TestPullResultSummary(t *testing.T) {
	assert.Equal(t, "already up to date", (&PullResult{}).Summary())
	assert.Equal(t, "fast-forward pull successful", (&PullResult{FastForward: true}).Summary())
	assert.Equal(t, "pulled with conflicts", (&PullResult{Conflicts: 2}).Summary())
}
