package qqwry

import "fmt"

// Iterator walks the ranges of the index table in address order.
type Iterator struct {
	reader *Reader
	err    error
	record Record
	next   uint
}

// Ranges returns an iterator over every range in the database.
//
//	it := db.Ranges()
//	for it.Next() {
//		rec := it.Record()
//		...
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
func (r *Reader) Ranges() *Iterator {
	return &Iterator{reader: r}
}

// Next prepares the next range for reading with the Record method. It
// returns true if there is another range and false if the end of the table
// has been reached or an error occurred.
func (i *Iterator) Next() bool {
	if i.err != nil || i.reader.buffer == nil || i.next >= i.reader.index.Len() {
		return false
	}

	entry, err := i.reader.index.Entry(i.next)
	if err != nil {
		i.err = fmt.Errorf("reading index record %d: %w", i.next, err)
		return false
	}
	rec, err := i.reader.decode(entry)
	if err != nil {
		i.err = fmt.Errorf("decoding range %s-%s: %w",
			uint32ToAddr(entry.Start), uint32ToAddr(entry.End), err)
		return false
	}

	i.record = rec
	i.next++
	return true
}

// Record returns the range prepared by the last call to Next.
func (i *Iterator) Record() Record {
	return i.record
}

// Err returns an error, if any, that was encountered during iteration.
func (i *Iterator) Err() error {
	return i.err
}
