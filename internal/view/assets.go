package view

import (
	"embed"
	"io/fs"
)

//go:embed static
var static embed.FS

// Static returns the client script and stylesheet served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}

	return sub
}
