package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gyeh/medliq/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadFromFile_Valid(t *testing.T) {
	path := writeFile(t, "config.yaml", `
specialty: pediatrics
sheet: Turnos
hours_sheet: Horas
header_synonyms:
  doctor:
    - facultativo
`)

	var c Config
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.Specialty != "pediatrics" || c.Sheet != "Turnos" || c.HoursSheet != "Horas" {
		t.Errorf("unexpected config: %+v", c)
	}
	if len(c.HeaderSynonyms["doctor"]) != 1 || c.HeaderSynonyms["doctor"][0] != "facultativo" {
		t.Errorf("header synonyms: %v", c.HeaderSynonyms)
	}
}

func TestLoadFromFile_FlagsWin(t *testing.T) {
	path := writeFile(t, "config.yaml", "specialty: pediatrics\nsheet: Turnos\n")

	c := Config{Specialty: "gynecology"}
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.Specialty != "gynecology" {
		t.Errorf("flag value overwritten: got %q", c.Specialty)
	}
	if c.Sheet != "Turnos" {
		t.Errorf("file value not merged: got %q", c.Sheet)
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	var c Config
	if err := c.LoadFromFile("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSpecialtyValue(t *testing.T) {
	c := Config{Specialty: "clinical_shifts"}
	s, err := c.SpecialtyValue()
	if err != nil || s != model.ClinicalShifts {
		t.Fatalf("got %q err %v", s, err)
	}

	c.Specialty = "dermatology"
	if _, err := c.SpecialtyValue(); err == nil {
		t.Fatal("expected error for unknown specialty")
	}
}

func TestPeriod(t *testing.T) {
	c := Config{Year: 2025, Month: 3}
	p, err := c.Period()
	if err != nil {
		t.Fatalf("Period: %v", err)
	}
	if p.Year != 2025 || p.Month != time.March {
		t.Errorf("got %+v", p)
	}

	for _, bad := range []Config{{Year: 2025, Month: 13}, {Year: 2025, Month: 0}, {Year: 0, Month: 3}} {
		if _, err := bad.Period(); err == nil {
			t.Errorf("Period(%d, %d): expected error", bad.Year, bad.Month)
		}
	}
}

func TestValidate(t *testing.T) {
	file := writeFile(t, "export.xlsx", "stub")

	c := Config{FilePath: file, Specialty: "pediatrics", Year: 2025, Month: 3}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if err := c.ValidateWithDSN(); err == nil {
		t.Fatal("expected error for missing DSN")
	}
	c.DSN = "postgresql://localhost/liq"
	if err := c.ValidateWithDSN(); err != nil {
		t.Fatalf("ValidateWithDSN: %v", err)
	}

	c.FilePath = "/nonexistent/export.xlsx"
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for missing file")
	}
}
