// Package exampledomain provides one demonstration type, Account, used
// by the CLI's seed subcommand, which converts it to documents through
// internal/fieldconv's struct-tag conversion.
package exampledomain

import "github.com/calvinalkan/noxdb/pkg/docstore"

// Account is a minimal three-field record: first name, last name, and
// email, all stored as Text fields.
type Account struct {
	FirstName string `noxdb:"first_name"`
	LastName  string `noxdb:"last_name"`
	Email     string `noxdb:"email"`
}

// Schema returns the BucketDescription an Account bucket must be
// created with.
func Schema() *docstore.BucketDescription {
	return &docstore.BucketDescription{
		Name: "accounts",
		Fields: []docstore.FieldDescriptor{
			{Name: "first_name", Type: docstore.FieldTypeText},
			{Name: "last_name", Type: docstore.FieldTypeText},
			{Name: "email", Type: docstore.FieldTypeText},
		},
	}
}
