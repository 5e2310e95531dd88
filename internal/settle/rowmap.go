package settle

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gyeh/medliq/internal/normalize"
	"github.com/gyeh/medliq/internal/sheetread"
)

// Field is a canonical spreadsheet column.
type Field string

const (
	FieldDoctor   Field = "doctor"
	FieldPatient  Field = "patient"
	FieldDate     Field = "date"
	FieldTime     Field = "time"
	FieldPayer    Field = "payer"
	FieldDuration Field = "duration"
	FieldSchedule Field = "schedule_group"

	FieldWeekday8To16 Field = "weekday_8_16"
	FieldWeekday16To8 Field = "weekday_16_8"
	FieldWeekend      Field = "weekend"
	FieldWeekendNight Field = "weekend_night"
)

// defaultSynonyms maps each canonical field to the header spellings seen in
// the clinic's exports. Extra spellings can be added via the config file
// without a rebuild.
var defaultSynonyms = map[Field][]string{
	FieldDoctor:   {"profesional", "medico", "doctor", "prestador"},
	FieldPatient:  {"paciente", "nombre paciente", "apellido y nombre"},
	FieldDate:     {"fecha", "fecha atencion", "fecha turno", "dia"},
	FieldTime:     {"hora", "hora turno", "horario"},
	FieldPayer:    {"obra social", "financiador", "cobertura", "convenio"},
	FieldDuration: {"duracion", "duracion min", "minutos", "duracion turno"},
	FieldSchedule: {"agenda", "grupo agenda", "tipo agenda"},

	FieldWeekday8To16: {"lv 8 a 16", "lunes a viernes 8 a 16", "hs lv 8-16"},
	FieldWeekday16To8: {"lv 16 a 8", "lunes a viernes 16 a 8", "hs lv 16-8"},
	FieldWeekend:      {"sab y dom", "fin de semana", "hs finde"},
	FieldWeekendNight: {"sab y dom noche", "fin de semana noche", "hs finde noche"},
}

// HeaderMap is the resolved header-name → column-index mapping for one sheet.
type HeaderMap struct {
	idx map[Field]int
}

// KnownHeaders returns every recognized header spelling, merged with extras,
// for header-row detection.
func KnownHeaders(extra map[string][]string) []string {
	var out []string
	for _, syns := range defaultSynonyms {
		out = append(out, syns...)
	}
	for _, syns := range extra {
		out = append(out, syns...)
	}
	return out
}

// MapHeaders resolves a sheet's header row against the synonym table. The
// extra map is keyed by canonical field name (as in the YAML config).
func MapHeaders(headers []string, extra map[string][]string) HeaderMap {
	bySpelling := make(map[string]Field)
	for f, syns := range defaultSynonyms {
		for _, s := range syns {
			bySpelling[normalize.Name(s)] = f
		}
	}
	for name, syns := range extra {
		for _, s := range syns {
			bySpelling[normalize.Name(s)] = Field(name)
		}
	}

	hm := HeaderMap{idx: make(map[Field]int)}
	for col, h := range headers {
		f, ok := bySpelling[normalize.Name(h)]
		if !ok {
			continue
		}
		// First matching column wins; exports sometimes repeat a column.
		if _, taken := hm.idx[f]; !taken {
			hm.idx[f] = col
		}
	}
	return hm
}

// Has reports whether the field was found in the header row.
func (m HeaderMap) Has(f Field) bool {
	_, ok := m.idx[f]
	return ok
}

func (m HeaderMap) cell(r *sheetread.Row, f Field) string {
	col, ok := m.idx[f]
	if !ok {
		return ""
	}
	return strings.TrimSpace(r.Cell(col))
}

// MapConsultRows converts sheet rows into the engine's consultation input.
// Returns an error only when the sheet has no usable doctor column; that is
// a structural problem, not a row-level one.
func MapConsultRows(sheet *sheetread.Sheet, hm HeaderMap) ([]ConsultRow, error) {
	if !hm.Has(FieldDoctor) {
		return nil, fmt.Errorf("sheet %q: no doctor column among headers %v", sheet.Name, sheet.Headers)
	}

	rows := make([]ConsultRow, 0, len(sheet.Rows))
	for i := range sheet.Rows {
		r := &sheet.Rows[i]
		row := ConsultRow{
			Index:         r.Index,
			DoctorName:    hm.cell(r, FieldDoctor),
			Patient:       hm.cell(r, FieldPatient),
			Payer:         hm.cell(r, FieldPayer),
			ScheduleGroup: hm.cell(r, FieldSchedule),
			Date:          parseDateCell(hm.cell(r, FieldDate)),
			Minutes:       parseClockCell(hm.cell(r, FieldTime)),
		}
		if d := hm.cell(r, FieldDuration); d != "" {
			if v, err := strconv.Atoi(d); err == nil {
				row.DurationMin = &v
			}
		}
		if row.DoctorName == "" && row.Patient == "" {
			continue // footer/total rows
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// MapHourRows converts an hours sheet into clinical-shift hour-band rows.
func MapHourRows(sheet *sheetread.Sheet, hm HeaderMap) ([]HourRow, error) {
	if !hm.Has(FieldDoctor) {
		return nil, fmt.Errorf("hours sheet %q: no doctor column among headers %v", sheet.Name, sheet.Headers)
	}

	rows := make([]HourRow, 0, len(sheet.Rows))
	for i := range sheet.Rows {
		r := &sheet.Rows[i]
		row := HourRow{
			Index:        r.Index,
			DoctorName:   hm.cell(r, FieldDoctor),
			Weekday8To16: parseHoursCell(hm.cell(r, FieldWeekday8To16)),
			Weekday16To8: parseHoursCell(hm.cell(r, FieldWeekday16To8)),
			Weekend:      parseHoursCell(hm.cell(r, FieldWeekend)),
			WeekendNight: parseHoursCell(hm.cell(r, FieldWeekendNight)),
		}
		if row.DoctorName == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseDateCell tries the text formats first, then falls back to an Excel
// date serial for cells styled "General".
func parseDateCell(s string) *time.Time {
	if t := normalize.ParseDate(s); t != nil {
		return t
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= 20000 && serial < 80000 {
		d := sheetread.SerialDate(serial)
		return &d
	}
	return nil
}

// parseClockCell handles "HH:MM" text and Excel time serials. A combined
// date-and-time serial carries the clock in its fractional part; a whole
// serial has no time of day and yields nil.
func parseClockCell(s string) *int {
	if m := normalize.ParseClock(s); m != nil {
		return m
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		if frac := sheetread.DayFraction(f); frac > 0 {
			return normalize.ClockFromDayFraction(frac)
		}
	}
	return nil
}

func parseHoursCell(s string) decimal.Decimal {
	if v, ok := normalize.ParseAmount(s); ok && !v.IsNegative() {
		return v
	}
	return decimal.Zero
}
