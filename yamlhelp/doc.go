// Package yamlhelp reads and writes YAML sidecar files for command help.
//
// A sidecar holds the same information as a markdown help document in a
// form that other tools can consume without a markdown parser. [Marshal]
// and [Unmarshal] convert between [help.CommandHelp] and YAML, and
// [Schema] describes the format as JSON Schema.
package yamlhelp
