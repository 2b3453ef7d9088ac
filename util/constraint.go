package util

import "fmt"

// BuildConstraintName generates a "<table>_<column>_<suffix>" constraint name and truncates it
// to maxLen characters the way PostgreSQL does for NAMEDATALEN:
//   - If the column is longer than its share, reduce the column to its share first and apply the
//     remaining overflow to the table
//   - Otherwise always truncate the table
//
// The column share is 28 characters for PostgreSQL's 63-character limit with a 4-character suffix.
// maxLen <= 0 disables truncation.
func BuildConstraintName(tableName, columnName, suffix string, maxLen int) string {
	fullName := fmt.Sprintf("%s_%s_%s", tableName, columnName, suffix)
	if maxLen <= 0 || len(fullName) <= maxLen {
		return fullName
	}

	overflow := len(fullName) - maxLen
	tableLen := len(tableName)
	columnLen := len(columnName)
	columnShare := (maxLen - len(suffix) - 2) / 2

	tableRemove := 0
	columnRemove := 0

	if columnLen > columnShare {
		columnRemove = overflow
		if columnRemove > columnLen-columnShare {
			tableRemove = columnRemove - (columnLen - columnShare)
			columnRemove = columnLen - columnShare
		}
	} else {
		tableRemove = overflow
	}
	if tableRemove > tableLen {
		tableRemove = tableLen
	}

	truncatedTable := tableName[:tableLen-tableRemove]
	truncatedColumn := columnName[:columnLen-columnRemove]

	return fmt.Sprintf("%s_%s_%s", truncatedTable, truncatedColumn, suffix)
}
