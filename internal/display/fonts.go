package display

import (
	"fmt"
	"sort"

	"tinygo.org/x/tinyfont"
)

var fonts = map[string]tinyfont.Fonter{
	"tom-thumb": &tinyfont.TomThumb,
	"picopixel": &tinyfont.Picopixel,
	"org01":     &tinyfont.Org01,
}

// FontByName returns one of the built-in pixel fonts
func FontByName(name string) (tinyfont.Fonter, error) {
	f, ok := fonts[name]
	if !ok {
		return nil, fmt.Errorf("unknown font %q (have %v)", name, FontNames())
	}
	return f, nil
}

// FontNames lists the built-in fonts
func FontNames() []string {
	names := make([]string, 0, len(fonts))
	for name := range fonts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
