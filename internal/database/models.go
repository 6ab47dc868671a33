package database

// Chunk is one stored unit of knowledge with its distance to a query vector.
// Distance is only populated by TopKChunks.
type Chunk struct {
	ID       int64
	Text     string
	Distance float64
}
