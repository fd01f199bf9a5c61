// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// readDB routes a query to a read replica when one is registered.
func readDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	return db.WithContext(ctx).Clauses(dbresolver.Read)
}

// writeDB pins a query to the primary, for reads that must observe a mutation
// made in the same request.
func writeDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	return db.WithContext(ctx).Clauses(dbresolver.Write)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a lower-cased LIKE pattern matching key anywhere.
func containsPattern(key string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(key)) + "%"
}
