package schema

// operationBuckets accumulates operations per category during generation.
type operationBuckets [categoryCount][]Operation

func (b *operationBuckets) add(op Operation) {
	b[op.Category()] = append(b[op.Category()], op)
}

// prepend puts op before every operation already queued in its category, so that the
// category is emitted in reverse discovery order.
func (b *operationBuckets) prepend(op Operation) {
	c := op.Category()
	b[c] = append([]Operation{op}, b[c]...)
}

// flatten rebuilds the operation list in dependency order:
//  1. CREATE TABLE (new tables exist before anything references them)
//  2. ADD COLUMN family, each followed by its chained assertions
//  3. DROP COLUMN
//  4. FOREIGN KEY (every referenced table and column exists by now)
//  5. DROP TABLE
func (b *operationBuckets) flatten() []Operation {
	var result []Operation
	for _, ops := range b {
		result = append(result, ops...)
	}
	return result
}

// GroupOperations splits an ordered operation list into per-category groups in the fixed
// category order. Empty categories are omitted; order within a category is preserved.
func GroupOperations(ops []Operation) [][]Operation {
	var buckets operationBuckets
	for _, op := range ops {
		buckets.add(op)
	}

	var groups [][]Operation
	for _, group := range buckets {
		if len(group) > 0 {
			groups = append(groups, group)
		}
	}
	return groups
}
