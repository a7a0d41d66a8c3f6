// Package textdex maps typed Go structs onto an embedded full-text index
// (bleve) and back.
//
// Struct fields opt in with a textdex tag. Strings are exact-match keywords
// unless marked text; numbers, times, enums (encoding.TextMarshaler) and
// complex values (through a FieldSerializer) are handled by type. Every
// document also records its Go type so searches can be scoped to one type.
//
//	type Person struct {
//	    ID      int    `textdex:"Id,id"`
//	    Name    string `textdex:"Name"`
//	    Remarks string `textdex:"Remarks,text,highlight"`
//	    Bio     string `textdex:"Bio,text,html,highlight=2"`
//	    Secret  string `textdex:"Secret,nostore"`
//	}
//
//	engine, _ := textdex.New(textdex.WithIndexDir("/var/lib/people"))
//	defer engine.Close()
//
//	people, _ := textdex.NewIndex[Person](engine)
//	_ = people.CreateIndex(ctx, all, true)
//	_ = people.UpdateByKey(ctx, "Id", "2", li)
//	res, _ := people.Search().Term("Remarks", "fishing").OnlyTyped().Do(ctx)
//	for _, r := range res.Results {
//	    fmt.Println(r.Data.Name, r.Score, r.Highlights["Remarks"])
//	}
//
// Tag options: id (delete/update key, stored verbatim), text (tokenized),
// html (strip markup first), highlight or highlight=N (preview with N
// fragments), nostore (indexed only). Types may instead register their
// fields with RegisterSchema or implement RecordMarshaler and
// RecordUnmarshaler.
//
// Writes take the index write lock for the duration of one call. A lock
// left behind by a crashed process is cleared on the next write.
package textdex
