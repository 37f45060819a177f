package recipe

const (
	// insertColumns is the number of bound parameters per recipe row in
	// the bulk INSERT (id, book_id, name, page_start, page_end,
	// category, created_at).
	insertColumns = 7

	// maxBoundParams is the hard ceiling on bound parameters in a
	// single statement.
	maxBoundParams = 100
)

// chunkSize is how many rows fit in one statement without exceeding
// the parameter ceiling. 100/7 = 14 for the recipe schema.
func chunkSize(maxParams, columns int) int {
	return maxParams / columns
}

// splitRecipes partitions rows into consecutive chunks of at most
// size, preserving input order. Empty input yields no chunks.
func splitRecipes(recipes []Recipe, size int) [][]Recipe {
	if len(recipes) == 0 {
		return nil
	}
	chunks := make([][]Recipe, 0, (len(recipes)+size-1)/size)
	for start := 0; start < len(recipes); start += size {
		end := start + size
		if end > len(recipes) {
			end = len(recipes)
		}
		chunks = append(chunks, recipes[start:end])
	}
	return chunks
}
