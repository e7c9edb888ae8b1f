// Package sprite describes sprite sheets: named rectangular regions of a
// single image. Decoding the image is left to the caller, which attaches the
// decoded handle to each sprite; this package only reads the descriptor.
package sprite

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	ErrMissingField = errors.New("sprite: missing field")
	ErrSpriteCount  = errors.New("sprite: sprite count mismatch")
	ErrUnknown      = errors.New("sprite: undefined sprite")
	ErrDuplicate    = errors.New("sprite: duplicate sprite")
)

// Region is a rectangle in sheet pixel coordinates.
type Region struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"width"`
	H int `yaml:"height"`
}

// Sprite is one named frame of a sheet. Image holds whatever the resource
// provider decoded for the region; it is nil until SetImages is called.
type Sprite struct {
	Image  any
	Name   string
	Region Region
}

// Sheet is a loaded sprite sheet descriptor.
type Sheet struct {
	ID          string
	Description string
	Source      string
	ImagePath   string
	ColorKey    []int
	sprites     map[string]int
	list        []Sprite
	Width       int
	Height      int
}

type spriteDef struct {
	ID     string `yaml:"id"`
	Region `yaml:",inline"`
}

type descriptor struct {
	ID          *string     `yaml:"id"`
	Description string      `yaml:"description"`
	Source      string      `yaml:"source"`
	ImagePath   *string     `yaml:"image_path"`
	ColorKey    []int       `yaml:"color_key"`
	Width       *int        `yaml:"width"`
	Height      *int        `yaml:"height"`
	NoSprites   *int        `yaml:"no_sprites"`
	Sprites     []spriteDef `yaml:"sprites"`
}

// LoadSheet parses a descriptor from r. YAML is accepted, and so is JSON since
// it is a subset of YAML. The keys id, width, height, image_path and
// no_sprites are required; a positive no_sprites must match the number of
// sprites listed.
func LoadSheet(r io.Reader) (*Sheet, error) {
	var d descriptor
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode sprite descriptor: %w", err)
	}
	switch {
	case d.ID == nil:
		return nil, fmt.Errorf("%w: id", ErrMissingField)
	case d.Width == nil:
		return nil, fmt.Errorf("%w: width", ErrMissingField)
	case d.Height == nil:
		return nil, fmt.Errorf("%w: height", ErrMissingField)
	case d.ImagePath == nil:
		return nil, fmt.Errorf("%w: image_path", ErrMissingField)
	case d.NoSprites == nil:
		return nil, fmt.Errorf("%w: no_sprites", ErrMissingField)
	}

	s := &Sheet{
		ID:          *d.ID,
		Description: d.Description,
		Source:      d.Source,
		ImagePath:   *d.ImagePath,
		ColorKey:    d.ColorKey,
		Width:       *d.Width,
		Height:      *d.Height,
		sprites:     make(map[string]int, len(d.Sprites)),
		list:        make([]Sprite, 0, len(d.Sprites)),
	}
	for i, def := range d.Sprites {
		if def.ID == "" {
			return nil, fmt.Errorf("%w: id of sprite %d", ErrMissingField, i)
		}
		if _, ok := s.sprites[def.ID]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicate, def.ID)
		}
		s.sprites[def.ID] = len(s.list)
		s.list = append(s.list, Sprite{Name: def.ID, Region: def.Region})
	}
	if *d.NoSprites > 0 && *d.NoSprites != len(s.list) {
		return nil, fmt.Errorf("%w: declared %d, defined %d", ErrSpriteCount, *d.NoSprites, len(s.list))
	}
	return s, nil
}

// LoadSheetFile reads a descriptor file.
func LoadSheetFile(path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return LoadSheet(f)
}

// Len returns the number of sprites.
func (s *Sheet) Len() int { return len(s.list) }

// Has reports whether a sprite with the given name exists.
func (s *Sheet) Has(name string) bool {
	_, ok := s.sprites[name]
	return ok
}

// Sprite returns the sprite with the given name.
func (s *Sheet) Sprite(name string) (Sprite, error) {
	i, ok := s.sprites[name]
	if !ok {
		return Sprite{}, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return s.list[i], nil
}

// At returns the sprite at position i in descriptor order.
func (s *Sheet) At(i int) (Sprite, error) {
	if i < 0 || i >= len(s.list) {
		return Sprite{}, fmt.Errorf("%w: index %d of %d", ErrUnknown, i, len(s.list))
	}
	return s.list[i], nil
}

// Names returns the sprite names in descriptor order.
func (s *Sheet) Names() []string {
	names := make([]string, len(s.list))
	for i, sp := range s.list {
		names[i] = sp.Name
	}
	return names
}

// SetImages attaches decoded image handles to the sprites. decode is called
// once per sprite with its region; an error stops the walk and is returned.
func (s *Sheet) SetImages(decode func(Region) (any, error)) error {
	for i := range s.list {
		img, err := decode(s.list[i].Region)
		if err != nil {
			return fmt.Errorf("sprite %q: %w", s.list[i].Name, err)
		}
		s.list[i].Image = img
	}
	return nil
}
