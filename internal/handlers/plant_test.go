package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mossbrook/landscaping/internal/models"
)

func plantTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Plant{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func postPlants(t *testing.T, h *PlantHandler, payload string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/plants", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	return rec
}

func listPlants(t *testing.T, h *PlantHandler, query string) (int, map[string]json.RawMessage, []models.Plant) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/plants"+query, nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v (%s)", err, rec.Body.String())
	}
	var plants []models.Plant
	if raw, ok := envelope["plants"]; ok {
		if err := json.Unmarshal(raw, &plants); err != nil {
			t.Fatalf("unmarshal plants: %v", err)
		}
	}
	return rec.Code, envelope, plants
}

func TestPlantCreateNormalizesScalars(t *testing.T) {
	h := NewPlantHandler(plantTestDB(t))

	rec := postPlants(t, h, `{"commonName":"Azalea","sunExposure":"partial_shade","plantType":"shrub"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rec.Code, rec.Body.String())
	}
	var p models.Plant
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(p.SunExposure) != 1 || p.SunExposure[0] != "partial_shade" {
		t.Errorf("sunExposure = %#v", p.SunExposure)
	}
	if p.Tags == nil {
		t.Errorf("omitted list fields must come back as [], not null")
	}
	if !p.IsActive {
		t.Errorf("created plant must be active")
	}
}

func TestPlantCreateAcceptsArray(t *testing.T) {
	h := NewPlantHandler(plantTestDB(t))

	rec := postPlants(t, h, `[{"commonName":"Red Maple"},{"commonName":"White Oak"}]`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rec.Code, rec.Body.String())
	}
	var out []models.Plant
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("array payload must return an array: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("created %d plants, want 2", len(out))
	}

	if rec := postPlants(t, h, `[]`); rec.Code != http.StatusBadRequest {
		t.Errorf("empty array = %d, want 400", rec.Code)
	}
	if rec := postPlants(t, h, `{not json`); rec.Code != http.StatusBadRequest {
		t.Errorf("bad json = %d, want 400", rec.Code)
	}
}

func TestPlantCreateUpsertsByNaturalKey(t *testing.T) {
	db := plantTestDB(t)
	h := NewPlantHandler(db)

	first := postPlants(t, h, `{"commonName":"Crape Myrtle","scientificName":"Lagerstroemia indica","cultivar":"Natchez","waterNeeds":"low"}`)
	if first.Code != http.StatusCreated {
		t.Fatalf("first = %d", first.Code)
	}
	second := postPlants(t, h, `{"commonName":"Crape Myrtle","scientificName":"Lagerstroemia indica","cultivar":"Natchez","waterNeeds":"medium"}`)
	if second.Code != http.StatusCreated {
		t.Fatalf("second = %d", second.Code)
	}

	var count int64
	if err := db.Model(&models.Plant{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("plant count = %d, want 1 (upsert)", count)
	}
	var p models.Plant
	if err := db.First(&p).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if p.WaterNeeds != "medium" {
		t.Errorf("waterNeeds = %q, want updated value", p.WaterNeeds)
	}

	// Without a cultivar there is no natural key, so a same-name record inserts.
	if rec := postPlants(t, h, `{"commonName":"Crape Myrtle","scientificName":"Lagerstroemia indica"}`); rec.Code != http.StatusCreated {
		t.Fatalf("insert = %d", rec.Code)
	}
	if err := db.Model(&models.Plant{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("plant count = %d, want 2", count)
	}
}

func TestPlantListFilters(t *testing.T) {
	db := plantTestDB(t)
	h := NewPlantHandler(db)

	seed := `[
		{"commonName":"Azalea","plantType":"shrub","sunExposure":["partial_shade"],"waterNeeds":"medium","usdaZoneMin":6,"usdaZoneMax":9,"tags":["evergreen"]},
		{"commonName":"Black-Eyed Susan","plantType":"perennial","sunExposure":["full_sun"],"waterNeeds":"low","usdaZoneMin":3,"usdaZoneMax":9,"tags":["native","pollinator"]},
		{"commonName":"Hosta","plantType":"perennial","sunExposure":["full_shade","partial_shade"],"waterNeeds":"medium","usdaZoneMin":3,"usdaZoneMax":8}
	]`
	if rec := postPlants(t, h, seed); rec.Code != http.StatusCreated {
		t.Fatalf("seed = %d: %s", rec.Code, rec.Body.String())
	}
	inactive := models.Plant{CommonName: "Retired Rose", IsActive: false}
	inactive.Normalize()
	if err := db.Create(&inactive).Error; err != nil {
		t.Fatalf("seed inactive: %v", err)
	}

	code, _, all := listPlants(t, h, "")
	if code != http.StatusOK || len(all) != 3 {
		t.Fatalf("unfiltered = %d plants (code %d), want 3 active", len(all), code)
	}

	_, _, byType := listPlants(t, h, "?plantType=perennial")
	if len(byType) != 2 {
		t.Errorf("plantType filter = %d, want 2", len(byType))
	}

	_, _, bySun := listPlants(t, h, "?sun=partial_shade")
	if len(bySun) != 2 {
		t.Errorf("sun filter = %d, want 2", len(bySun))
	}

	_, _, byTag := listPlants(t, h, "?tag=native")
	if len(byTag) != 1 || byTag[0].CommonName != "Black-Eyed Susan" {
		t.Errorf("tag filter = %#v", byTag)
	}

	_, _, byZone := listPlants(t, h, "?zone=5")
	if len(byZone) != 2 { // Azalea (6-9) excluded
		t.Errorf("zone filter = %d, want 2", len(byZone))
	}
	_, _, badZone := listPlants(t, h, "?zone=40")
	if len(badZone) != 3 {
		t.Errorf("out-of-range zone must be ignored, got %d", len(badZone))
	}

	_, _, byText := listPlants(t, h, "?q=susan")
	if len(byText) != 1 {
		t.Errorf("text search = %d, want 1", len(byText))
	}
}

func TestPlantListPagination(t *testing.T) {
	db := plantTestDB(t)
	h := NewPlantHandler(db)

	for i := 0; i < 5; i++ {
		p := models.Plant{CommonName: fmt.Sprintf("Plant %02d", i), IsActive: true}
		p.Normalize()
		if err := db.Create(&p).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	_, envelope, page1 := listPlants(t, h, "?limit=2")
	var total int64
	if err := json.Unmarshal(envelope["total"], &total); err != nil || total != 5 {
		t.Errorf("total = %v", string(envelope["total"]))
	}
	if len(page1) != 2 {
		t.Fatalf("page 1 = %d, want 2", len(page1))
	}
	_, _, page3 := listPlants(t, h, "?limit=2&page=3")
	if len(page3) != 1 {
		t.Errorf("page 3 = %d, want 1", len(page3))
	}
	if page1[0].CommonName != "Plant 00" {
		t.Errorf("ordering = %q, want common name asc", page1[0].CommonName)
	}
}
