// Package flash emulates the on-board flash partition of a camera as a single
// SQLite file, using modernc.org/sqlite.
//
// Like the flash filesystems found on microcontrollers, the namespace is
// flat: a path such as "/day1/a.jpg" is just a name, and every file is a
// root entry. Enumeration yields files in the order they were first written.
//
// # Usage
//
//	db, err := flash.Connect(ctx, "flash.db", camfs.Tables{Files: "flash_files"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	store := db.Store()
package flash
