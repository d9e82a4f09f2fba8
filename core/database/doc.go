// Package database handles the world database connection and schema
// inspection.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to
// properly configure MySQL or sqlite connections based on the
// application's configuration.
//
// # Connect
//
// The generic Connect function establishes a connection to the world
// database holding the document tables.
//
// # Schema Inspection
//
// The package includes tools to inspect the live schema. They are used at
// startup to verify that the documents table matches the columns the
// document store expects, so a misconfigured world database is reported at
// boot instead of as a runtime query error.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "documents")
package database
