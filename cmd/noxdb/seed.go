package main

import (
	"github.com/calvinalkan/noxdb/internal/exampledomain"
	"github.com/calvinalkan/noxdb/internal/fieldconv"
	"github.com/calvinalkan/noxdb/pkg/docstore"
)

// seedAccounts opens or creates bucketName with the exampledomain
// Account schema and inserts three demonstration rows.
func seedAccounts(db *docstore.Database, bucketName string) error {
	if _, err := db.OpenBucket(bucketName, exampledomain.Schema()); err != nil {
		return err
	}

	accounts := []exampledomain.Account{
		{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com"},
		{FirstName: "Katherine", LastName: "Johnson", Email: "katherine@example.com"},
	}

	for i := range accounts {
		if _, _, err := db.Insert(bucketName, int64(i), fieldconv.Wrap(&accounts[i])); err != nil {
			return err
		}
	}

	return nil
}
