package ingestion

type Chunker struct {
	ChunkSize    int
	ChunkOverlap int
}

type Chunk struct {
	Index   int
	Start   int
	End     int
	Content string
}

func NewChunker(chunkSize, overlap int) *Chunker {
	return &Chunker{
		ChunkSize:    chunkSize,
		ChunkOverlap: overlap,
	}
}

func (c *Chunker) ChunkText(text string) []Chunk {
	// Validate chunk size and overlap
	if c.ChunkSize <= 0 || c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return []Chunk{}
	}

	results := []Chunk{}
	n := len(text)
	i := 0
	chunkIndex := 0

	for i < n {
		end := i + c.ChunkSize
		if end > n {
			end = n
		}

		results = append(results, Chunk{
			Index:   chunkIndex,
			Content: text[i:end],
			Start:   i,
			End:     end,
		})

		i = i + c.ChunkSize - c.ChunkOverlap
		chunkIndex++
	}

	return results
}
