package models

import (
	"strings"
	"time"
)

// Commit represents a single row of the dolt_log system table.
// Commits are created by the Dolt engine; this layer never mints
// or rewrites them.
type Commit struct {
	Hash      string    `json:"hash"`
	Committer string    `json:"committer"`
	Email     string    `json:"email"`
	Date      time.Time `json:"date"`
	Message   string    `json:"message"`
	Parents   []string  `json:"parents,omitempty"`
}

// ShortHash returns the first 8 characters of the commit hash.
func (c *Commit) ShortHash() string {
	if len(c.Hash) > 8 {
		return c.Hash[:8]
	}
	return c.Hash
}

// Author returns the committer in "Name <email>" format.
func (c *Commit) Author() string {
	return c.Committer + " <" + c.Email + ">"
}

// Subject returns the first line of the commit message.
func (c *Commit) Subject() string {
	if i := strings.IndexByte(c.Message, '\n'); i >= 0 {
		return c.Message[:i]
	}
	return c.Message
}

// IsMergeCommit returns true if this commit has more than one parent.
func (c *Commit) IsMergeCommit() bool {
	return len(c.Parents) > 1
}
