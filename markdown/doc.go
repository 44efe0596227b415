// Package markdown wraps a goldmark AST with source line provenance and a
// movable read cursor.
//
// A [Document] is the flat sequence of top-level blocks of a markdown file,
// each tagged with its [Kind], heading level and 0-based source line, plus
// the original text split into lines. Readers walk it with a [Cursor]:
//
//	doc := markdown.NewDocument(src)
//	cur := doc.Cursor()
//
//	start := cur.FindHeader(2, "SYNOPSIS")
//	if start < 0 {
//	    // report and move on
//	}
//
//	cur.Seek(start)
//	end := cur.FindHeader(2, "SYNTAX")
//	cur.Take()
//	synopsis := cur.StringFromAST(end)
//
// Text is reconstructed from the original source lines rather than from the
// AST, so inline markup such as code spans, emphasis and links survives
// byte for byte.
//
// Nothing in this package returns errors: "not found" is -1, nil, or "".
package markdown
