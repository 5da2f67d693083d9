package assets

import (
	"embed"
	"io/fs"
)

//go:embed static
var static embed.FS

// HelpMenu returns the text printed by the help command.
func HelpMenu() string {
	return mustRead("static/help.txt")
}

// DefaultPlaces returns the YAML place list used when no file is given to places import.
func DefaultPlaces() []byte {
	return []byte(mustRead("static/places.yaml"))
}

func mustRead(name string) string {
	b, err := fs.ReadFile(static, name)
	if err != nil {
		panic("assets: " + err.Error())
	}
	return string(b)
}
