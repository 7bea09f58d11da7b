// Package filesystem provides directory traversal over a billy.Filesystem.
//
// Walk skips dependency and build directories and hidden entries by default,
// and accepts doublestar patterns to ignore files:
//
//	err := filesystem.Walk(fsys, "libs", filesystem.WalkOptions{
//		IgnorePatterns: []string{"**/*.spec.ts"},
//	}, func(path string, info os.FileInfo) error {
//		fmt.Println(path)
//		return nil
//	})
//
// Paths handed to the visitor are slash-separated and relative to the
// filesystem root, without a leading slash.
package filesystem
