package ioload

import (
	"fmt"

	"github.com/distpulse/dpulse/pkg/errcode"
	"github.com/distpulse/dpulse/pkg/ident"
	"github.com/gnames/gn"
)

// NoSourceFilesError creates an error for when a required category
// yields no readable source files.
func NoSourceFilesError(cat ident.Category, dir string) error {
	msg := `No readable source files for a required category

<em>Category:</em> %s
<em>Directory:</em> %s

<em>Possible causes:</em>
  - Data not downloaded, or <em>data.dir</em> points elsewhere
  - Category parent in sources.yaml is wrong
  - No file matches the category pattern

<em>How to fix:</em>
  1. Check the directory: <em>ls %s</em>
  2. Review category parents in sources.yaml
  3. Set <em>data.dir</em> in config or pass <em>--data-dir</em>`

	vars := []any{cat.String(), dir, dir}

	return &gn.Error{
		Code: errcode.PipelineNoSourceFilesError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf(
			"no readable source files for category %s in %s", cat, dir,
		),
	}
}
