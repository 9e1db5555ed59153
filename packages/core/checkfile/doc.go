// Package checkfile loads hitexpect check files.
//
// A check file is YAML. It names one or more subjects and a list of checks
// that run a matcher against a path inside a subject:
//
//	name: users api
//	data: ./users.json
//	vars:
//	  minAge: 18
//	checks:
//	  - name: first user
//	    subject: users.0.name
//	    matcher: equals
//	    args: ["Ada"]
//
// Subjects come from the data document, an inline subject, or named
// sources: files, inline values, SQLite queries and shell commands.
// Check files are discovered by their *.check.yaml or *.check.yml suffix.
package checkfile
