package entities

// PathContext threads the placement of a file through path generation.
// Ephemeral, never persisted.
type PathContext struct {
	ModelType    string
	ModelID      string
	Collection   string
	OriginalName string
	FileName     string
}

// PathResult is the output of path generation. MediaID is set only by
// strategies that mint their own id-bearing path; the orchestrator must adopt
// it as the record id instead of generating one.
type PathResult struct {
	Path      string
	Directory string
	FileName  string
	MediaID   string
}
