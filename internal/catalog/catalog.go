// Package catalog merges the partitioned plant data files served on the
// public site. Partitions are JSON arrays named plants-<bucket>.json; a
// partition whose content is not an array is tolerated and counted as
// zero rather than failing the whole load.
package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mossbrook/landscaping/internal/models"
)

const (
	filePrefix = "plants-"
	fileSuffix = ".json"
)

// Item is one plant record as it appears in a partition file. Multi-valued
// fields go through the same coercion as database ingestion.
type Item struct {
	CommonName     string            `json:"commonName,omitempty"`
	ScientificName string            `json:"scientificName,omitempty"`
	Cultivar       string            `json:"cultivar,omitempty"`
	Genus          string            `json:"genus,omitempty"`
	PlantType      string            `json:"plantType,omitempty"`
	Category       string            `json:"category,omitempty"`
	SunExposure    models.StringList `json:"sunExposure"`
	SoilType       models.StringList `json:"soilType"`
	FlowerColor    models.StringList `json:"flowerColor"`
	FoliageColor   models.StringList `json:"foliageColor"`
	FallColor      models.StringList `json:"fallColor"`
	BloomSeason    models.StringList `json:"bloomSeason"`
	Pollinators    models.StringList `json:"pollinators"`
	WildlifeValue  models.StringList `json:"wildlifeValue"`
	Resistances    models.StringList `json:"resistances"`
	CommonSizes    models.StringList `json:"commonSizes"`
	DesignUses     models.StringList `json:"designUses"`
	Tags           models.StringList `json:"tags"`
	USDAZoneMin    int               `json:"usdaZoneMin,omitempty"`
	USDAZoneMax    int               `json:"usdaZoneMax,omitempty"`
	WaterNeeds     string            `json:"waterNeeds,omitempty"`
}

// normalize coerces fields that were absent from the partition file, so
// every item carries empty lists instead of nulls.
func (it *Item) normalize() {
	it.SunExposure = models.CoerceList(it.SunExposure)
	it.SoilType = models.CoerceList(it.SoilType)
	it.FlowerColor = models.CoerceList(it.FlowerColor)
	it.FoliageColor = models.CoerceList(it.FoliageColor)
	it.FallColor = models.CoerceList(it.FallColor)
	it.BloomSeason = models.CoerceList(it.BloomSeason)
	it.Pollinators = models.CoerceList(it.Pollinators)
	it.WildlifeValue = models.CoerceList(it.WildlifeValue)
	it.Resistances = models.CoerceList(it.Resistances)
	it.CommonSizes = models.CoerceList(it.CommonSizes)
	it.DesignUses = models.CoerceList(it.DesignUses)
	it.Tags = models.CoerceList(it.Tags)
}

// Result is the merged catalog.
type Result struct {
	GeneratedAt time.Time      `json:"generatedAt"`
	Total       int            `json:"total"`
	ByFile      map[string]int `json:"byFile"`
	Items       []Item         `json:"items"`
}

// Load reads every partition in lexicographic filename order and merges
// them. Items keep file order; no cross-partition dedup or sort happens.
// Pure read: nothing is cached here.
func Load(dir string) (*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	res := &Result{
		GeneratedAt: time.Now().UTC(),
		ByFile:      make(map[string]int, len(names)),
		Items:       []Item{},
	}
	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		var items []Item
		if err := json.Unmarshal(raw, &items); err != nil {
			// Malformed partition (not an array): counts as zero.
			res.ByFile[name] = 0
			continue
		}
		for i := range items {
			items[i].normalize()
		}
		res.ByFile[name] = len(items)
		res.Items = append(res.Items, items...)
	}
	res.Total = len(res.Items)
	return res, nil
}
