package models

// Remote represents a row of the dolt_remotes system table.
// Remote configuration is owned by the engine; this layer reads it
// and can register new remotes, nothing else.
type Remote struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Branch represents a row of the dolt_branches system table.
type Branch struct {
	Name                string `json:"name"`
	Hash                string `json:"hash"`
	LatestCommitter     string `json:"latest_committer,omitempty"`
	LatestCommitMessage string `json:"latest_commit_message,omitempty"`
}
