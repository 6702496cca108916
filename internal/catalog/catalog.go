// Package catalog provides the static exercise catalog: a read-only
// lookup from body part to exercise definitions, loaded once at startup
// from YAML.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/claude/liftplan/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type group struct {
	BodyPart  models.BodyPart   `yaml:"body_part"`
	Exercises []models.Exercise `yaml:"exercises"`
}

type catalogFile struct {
	Groups []group `yaml:"groups"`
}

// Catalog is the loaded exercise catalog. Immutable after Load.
type Catalog struct {
	ordered []models.Exercise
	byPart  map[models.BodyPart][]models.Exercise
}

// Load builds a catalog from the embedded default data.
func Load() (*Catalog, error) {
	return parse(defaultCatalog)
}

// LoadFile builds a catalog from an on-disk YAML override.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	c := &Catalog{byPart: make(map[models.BodyPart][]models.Exercise)}
	seen := make(map[string]bool)
	for _, g := range file.Groups {
		for _, ex := range g.Exercises {
			ex.BodyPart = g.BodyPart
			if ex.ID == "" || ex.Name == "" {
				return nil, fmt.Errorf("catalog entry %q/%q missing id or name", ex.ID, ex.Name)
			}
			if seen[ex.ID] {
				return nil, fmt.Errorf("duplicate exercise id %q", ex.ID)
			}
			if ex.Sets < 1 {
				return nil, fmt.Errorf("exercise %q: sets must be >= 1", ex.Name)
			}
			if ex.RestSec < 0 {
				return nil, fmt.Errorf("exercise %q: rest_sec must be >= 0", ex.Name)
			}
			seen[ex.ID] = true
			c.ordered = append(c.ordered, ex)
			c.byPart[g.BodyPart] = append(c.byPart[g.BodyPart], ex)
		}
	}
	if len(c.ordered) == 0 {
		return nil, fmt.Errorf("catalog contains no exercises")
	}
	return c, nil
}

// All returns every exercise in catalog order.
func (c *Catalog) All() []models.Exercise {
	out := make([]models.Exercise, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// ForBodyPart returns the exercises for one body part in catalog order.
// An unknown tag yields an empty slice.
func (c *Catalog) ForBodyPart(part models.BodyPart) []models.Exercise {
	src := c.byPart[part]
	out := make([]models.Exercise, len(src))
	copy(out, src)
	return out
}

// Difficulty selects how many catalog exercises a generated plan uses.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// Plan is a recommended exercise selection for one body part.
type Plan struct {
	BodyPart   models.BodyPart   `json:"body_part"`
	Difficulty Difficulty        `json:"difficulty"`
	Exercises  []models.Exercise `json:"exercises"`
	TotalMin   int               `json:"total_min"`
}

// PlanFor picks the first two, three, or all exercises for a body part
// by difficulty, and estimates total time from reps, sets, and rest.
func (c *Catalog) PlanFor(part models.BodyPart, difficulty Difficulty) Plan {
	selected := c.ForBodyPart(part)
	switch difficulty {
	case Beginner:
		if len(selected) > 2 {
			selected = selected[:2]
		}
	case Advanced:
		// everything
	default:
		difficulty = Intermediate
		if len(selected) > 3 {
			selected = selected[:3]
		}
	}

	totalSec := 0.0
	for _, ex := range selected {
		totalSec += float64(upperReps(ex.Reps)*3*ex.Sets + ex.RestSec*(ex.Sets-1))
	}
	return Plan{
		BodyPart:   part,
		Difficulty: difficulty,
		Exercises:  selected,
		TotalMin:   int(totalSec/60 + 0.5),
	}
}

// upperReps extracts the high end of a "8-12" style reps label,
// defaulting to 10 for time-based or fixed labels.
func upperReps(reps string) int {
	if i := strings.Index(reps, "-"); i >= 0 {
		rest := reps[i+1:]
		if j := strings.IndexFunc(rest, func(r rune) bool { return r < '0' || r > '9' }); j >= 0 {
			rest = rest[:j]
		}
		if n, err := strconv.Atoi(rest); err == nil {
			return n
		}
	}
	return 10
}
