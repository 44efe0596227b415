// Package merge reconciles authored help with introspected command metadata.
//
// Authored markdown owns prose: synopsis, description, examples, notes and
// parameter descriptions. The introspected command owns structure: syntax,
// parameter types, parameter sets and pipeline behavior. [Merge] combines
// the two and records each decision as an Information diagnostic, so that
// a caller can report what an update changed:
//
//	doc, err := helpmd.Parse(src)
//	if err != nil {
//		return err
//	}
//
//	merged, err := merge.Merge(doc, introspect.ToCommandHelp(cmd))
//	if err != nil {
//		return err
//	}
//
//	os.WriteFile(path, []byte(helpmd.Render(merged)), 0o644)
//
// Merging is idempotent: merging the result with the same command again
// changes nothing.
package merge
