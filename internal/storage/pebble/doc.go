// Package pebblestore wraps a Pebble database with the durability policy and
// helpers the queue engines need: atomic batches with a configurable WAL fsync
// mode, copied point reads, range iterators, and on-disk size accounting.
//
// Usage:
//
//	db, err := pebblestore.Open(pebblestore.Options{
//	    Dir:   "./data",
//	    Fsync: pebblestore.FsyncModeAlways,
//	})
//	if err != nil { /* handle */ }
//	defer db.Close()
//
//	// Atomic updates with batches
//	b := db.NewBatch()
//	_ = b.Set([]byte("k"), []byte("v"), nil)
//	_ = db.CommitBatch(context.Background(), b)
//	b.Close()
//
// A store owns exactly one directory. Two stores never share state; full
// parallelism across queue instances falls out of that.
package pebblestore
