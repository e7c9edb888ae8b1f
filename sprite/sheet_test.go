package sprite

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const heroSheet = `
id: hero
description: walking hero
source: https://example.org/hero
image_path: hero.png
color_key: [255, 0, 255]
width: 64
height: 32
no_sprites: 3
sprites:
  - {id: walk1, x: 0, y: 0, width: 16, height: 32}
  - {id: walk2, x: 16, y: 0, width: 16, height: 32}
  - {id: walk3, x: 32, y: 0, width: 16, height: 32}
`

// go test -run ^TestLoadSheet$ ./sprite -count 1
func TestLoadSheet(t *testing.T) {
	t.Run("YAML", func(t *testing.T) {
		s, err := LoadSheet(strings.NewReader(heroSheet))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.ID != "hero" || s.ImagePath != "hero.png" || s.Width != 64 || s.Height != 32 {
			t.Errorf("unexpected sheet %+v", s)
		}
		if len(s.ColorKey) != 3 || s.ColorKey[0] != 255 {
			t.Errorf("unexpected color key %v", s.ColorKey)
		}
		if s.Len() != 3 {
			t.Fatalf("expected 3 sprites, got %d", s.Len())
		}
		sp, err := s.Sprite("walk2")
		if err != nil {
			t.Fatal(err)
		}
		if sp.Region != (Region{X: 16, Y: 0, W: 16, H: 32}) {
			t.Errorf("unexpected region %+v", sp.Region)
		}
		names := s.Names()
		if strings.Join(names, ",") != "walk1,walk2,walk3" {
			t.Errorf("unexpected order %v", names)
		}
	})

	t.Run("JSON", func(t *testing.T) {
		doc := `{"id": "coin", "image_path": "coin.png", "width": 8, "height": 8, "no_sprites": 0, "sprites": [{"id": "spin", "x": 0, "y": 0, "width": 8, "height": 8}]}`
		s, err := LoadSheet(strings.NewReader(doc))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !s.Has("spin") || s.Has("walk") {
			t.Error("unexpected sprite set")
		}
	})

	t.Run("Missing fields", func(t *testing.T) {
		for _, field := range []string{"id", "image_path", "width", "height", "no_sprites"} {
			var kept []string
			for _, line := range strings.Split(heroSheet, "\n") {
				if !strings.HasPrefix(line, field+":") {
					kept = append(kept, line)
				}
			}
			_, err := LoadSheet(strings.NewReader(strings.Join(kept, "\n")))
			if !errors.Is(err, ErrMissingField) {
				t.Errorf("%s: expected ErrMissingField, got %v", field, err)
			}
		}
	})

	t.Run("Count mismatch", func(t *testing.T) {
		doc := strings.Replace(heroSheet, "no_sprites: 3", "no_sprites: 4", 1)
		if _, err := LoadSheet(strings.NewReader(doc)); !errors.Is(err, ErrSpriteCount) {
			t.Errorf("expected ErrSpriteCount, got %v", err)
		}
	})

	t.Run("Duplicate sprite", func(t *testing.T) {
		doc := strings.Replace(heroSheet, "id: walk3", "id: walk1", 1)
		if _, err := LoadSheet(strings.NewReader(doc)); !errors.Is(err, ErrDuplicate) {
			t.Errorf("expected ErrDuplicate, got %v", err)
		}
	})

	t.Run("Sprite without id", func(t *testing.T) {
		doc := strings.Replace(heroSheet, "id: walk3, ", "", 1)
		if _, err := LoadSheet(strings.NewReader(doc)); !errors.Is(err, ErrMissingField) {
			t.Errorf("expected ErrMissingField, got %v", err)
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		if _, err := LoadSheet(strings.NewReader("id: [")); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "hero.yaml")
		if err := os.WriteFile(path, []byte(heroSheet), 0o600); err != nil {
			t.Fatal(err)
		}
		s, err := LoadSheetFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.ID != "hero" {
			t.Errorf("expected hero, got %q", s.ID)
		}
	})
}

func TestSheetLookup(t *testing.T) {
	s, err := LoadSheet(strings.NewReader(heroSheet))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.Sprite("run1"); !errors.Is(err, ErrUnknown) {
		t.Errorf("expected ErrUnknown, got %v", err)
	}
	if sp, err := s.At(0); err != nil || sp.Name != "walk1" {
		t.Errorf("expected walk1, got %q (%v)", sp.Name, err)
	}
	for _, i := range []int{-1, 3} {
		if _, err := s.At(i); !errors.Is(err, ErrUnknown) {
			t.Errorf("index %d: expected ErrUnknown, got %v", i, err)
		}
	}
}

func TestSheetSetImages(t *testing.T) {
	s, err := LoadSheet(strings.NewReader(heroSheet))
	if err != nil {
		t.Fatal(err)
	}
	err = s.SetImages(func(r Region) (any, error) { return r.X, nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sp, _ := s.Sprite("walk3")
	if sp.Image != 32 {
		t.Errorf("expected image handle 32, got %v", sp.Image)
	}

	boom := errors.New("decode failed")
	err = s.SetImages(func(r Region) (any, error) {
		if r.X == 16 {
			return nil, boom
		}
		return nil, nil
	})
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "walk2") {
		t.Errorf("expected wrapped decode error naming walk2, got %v", err)
	}
}
