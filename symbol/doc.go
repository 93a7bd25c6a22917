// Package symbol interns identifier text and binds declarations to it.
//
// # Overview
//
// An Interner maps string content to a Symbol, a small integer that stands
// for the text: equal content always yields the same symbol, so symbols
// compare and hash in O(1). The text lives in append-only buffers obtained
// from an arena.MemoryResource, either the Go heap or anonymous mmap.
//
// A Table maps symbols to declarations with shadowing: inserting a symbol
// that is already bound replaces the binding and returns the previous one,
// which the caller restores when the inner scope ends.
//
// # Usage Example
//
//	in, err := symbol.NewInterner(symbol.DefaultOptions())
//	if err != nil {
//		return err
//	}
//	defer in.Release()
//
//	x := in.Intern("x")
//	fmt.Println(x == in.Intern("x"), x.Text(in)) // true x
//
//	var scope symbol.Table[int]
//	scope.InsertOrShadow(x, 1)
//	prev, shadowed := scope.InsertOrShadow(x, 2) // 1, true
//
// # Storage Layout
//
// Each interned text is stored as a uvarint length, the bytes, and a
// terminating zero byte. Text and Bytes return views into the buffers that
// stay valid until Release; they must not be modified.
//
// Nothing in this package is safe for concurrent mutation.
package symbol
