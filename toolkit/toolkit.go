// Package toolkit carries the helper-module sources that ship inside every
// generated archive, and builds the archive itself.
package toolkit

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

// The helper subpackage sources double as archive payload. They are embedded
// at build time, so the served bundle always matches the compiled binary.
//
//go:embed dataframe/dataframe.go csvkit/csvkit.go xlsx/xlsx.go sqlitecrud/sqlitecrud.go bigquery/bigquery.go snowflake/snowflake.go dedup/dedup.go
var moduleFS embed.FS

// File is one bundled helper-module source file.
type File struct {
	// Name is the archive-relative path, e.g. "toolkit/csvkit/csvkit.go".
	Name    string
	Content string
}

// Modules returns every bundled helper source in stable order.
func Modules() []File {
	var files []File
	err := fs.WalkDir(moduleFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		content, err := moduleFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read embedded %s: %w", path, err)
		}
		files = append(files, File{Name: "toolkit/" + path, Content: string(content)})
		return nil
	})
	if err != nil {
		// The FS is compiled in; a walk error means a broken build.
		panic(fmt.Sprintf("walk embedded modules: %v", err))
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files
}
