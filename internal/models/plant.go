package models

import (
	"encoding/json"
	"time"
)

// StringList is a multi-valued plant attribute. It is stored as a JSON
// text column (portable across sqlite and postgres) and it is the single
// coercion point for ingestion: a bare string decodes to a one-element
// list, null/absent to an empty list. Multi-valued fields are therefore
// never scalars once inside the system.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = CoerceList(raw)
	return nil
}

func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// CoerceList normalizes an array-or-scalar-or-absent value into a list.
func CoerceList(v any) StringList {
	switch t := v.(type) {
	case nil:
		return StringList{}
	case string:
		if t == "" {
			return StringList{}
		}
		return StringList{t}
	case StringList:
		if t == nil {
			return StringList{}
		}
		return t
	case []string:
		return StringList(t)
	case []any:
		out := make(StringList, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return StringList{}
}

// Has reports whether the list contains the value.
func (l StringList) Has(v string) bool {
	for _, s := range l {
		if s == v {
			return true
		}
	}
	return false
}

// Plant is one catalog record. The natural key is scientificName+cultivar
// when both are present.
type Plant struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	CommonName     string     `gorm:"index" json:"commonName"`
	ScientificName string     `gorm:"index" json:"scientificName"`
	Cultivar       string     `json:"cultivar,omitempty"`
	Genus          string     `json:"genus,omitempty"`
	PlantType      string     `gorm:"index" json:"plantType"`
	Category       string     `gorm:"index" json:"category,omitempty"`
	SunExposure    StringList `gorm:"serializer:json;type:text" json:"sunExposure"`
	SoilType       StringList `gorm:"serializer:json;type:text" json:"soilType"`
	FlowerColor    StringList `gorm:"serializer:json;type:text" json:"flowerColor"`
	FoliageColor   StringList `gorm:"serializer:json;type:text" json:"foliageColor"`
	FallColor      StringList `gorm:"serializer:json;type:text" json:"fallColor"`
	BloomSeason    StringList `gorm:"serializer:json;type:text" json:"bloomSeason"`
	Pollinators    StringList `gorm:"serializer:json;type:text" json:"pollinators"`
	WildlifeValue  StringList `gorm:"serializer:json;type:text" json:"wildlifeValue"`
	Resistances    StringList `gorm:"serializer:json;type:text" json:"resistances"`
	CommonSizes    StringList `gorm:"serializer:json;type:text" json:"commonSizes"`
	DesignUses     StringList `gorm:"serializer:json;type:text" json:"designUses"`
	Tags           StringList `gorm:"serializer:json;type:text" json:"tags"`
	USDAZoneMin    int        `json:"usdaZoneMin,omitempty"`
	USDAZoneMax    int        `json:"usdaZoneMax,omitempty"`
	WaterNeeds     string     `gorm:"index" json:"waterNeeds,omitempty"`
	IsActive       bool       `gorm:"default:true" json:"isActive"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Normalize coerces every multi-valued field, so records built outside the
// JSON decoding path (tests, seeds) carry the same invariant.
func (p *Plant) Normalize() {
	p.SunExposure = CoerceList(p.SunExposure)
	p.SoilType = CoerceList(p.SoilType)
	p.FlowerColor = CoerceList(p.FlowerColor)
	p.FoliageColor = CoerceList(p.FoliageColor)
	p.FallColor = CoerceList(p.FallColor)
	p.BloomSeason = CoerceList(p.BloomSeason)
	p.Pollinators = CoerceList(p.Pollinators)
	p.WildlifeValue = CoerceList(p.WildlifeValue)
	p.Resistances = CoerceList(p.Resistances)
	p.CommonSizes = CoerceList(p.CommonSizes)
	p.DesignUses = CoerceList(p.DesignUses)
	p.Tags = CoerceList(p.Tags)
}
