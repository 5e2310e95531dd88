package settle

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gyeh/medliq/internal/model"
	"github.com/gyeh/medliq/internal/normalize"
)

type tupleKey struct {
	doctor  string
	patient string
	date    time.Time
	minutes int // -1 when the time cell was absent
}

func lineTupleKey(l *model.LineItem) tupleKey {
	doctor := normalize.Name(l.DoctorName)
	if l.DoctorID != nil {
		doctor = fmt.Sprintf("id:%d", *l.DoctorID)
	}
	minutes := -1
	if l.Minutes != nil {
		minutes = *l.Minutes
	}
	return tupleKey{
		doctor:  doctor,
		patient: normalize.Name(l.Patient),
		date:    l.Date,
		minutes: minutes,
	}
}

// dropTupleDuplicates removes lines whose (doctor, patient, date, time) tuple
// was already seen, keeping the first occurrence by original row order.
func dropTupleDuplicates(lines []model.LineItem, res *Result) []model.LineItem {
	seen := make(map[tupleKey]bool, len(lines))
	out := lines[:0]
	for i := range lines {
		k := lineTupleKey(&lines[i])
		if seen[k] {
			res.warn(lines[i].SourceRow, model.ReasonDuplicate, lines[i].Patient)
			continue
		}
		seen[k] = true
		out = append(out, lines[i])
	}
	return out
}

type fcfsKey struct {
	patient string
	date    time.Time
}

// markFCFSDuplicates flags every row after the first for a given
// (patient, date) group. Unlike tuple dedup the flagged rows stay in the
// output for manual review; they just pay nothing and are excluded from
// totals. The admitting doctor is deliberately not part of the key: two
// doctors recording the same admission is exactly the case being caught.
func markFCFSDuplicates(lines []model.LineItem, res *Result) {
	seen := make(map[fcfsKey]bool, len(lines))
	for i := range lines {
		k := fcfsKey{patient: normalize.Name(lines[i].Patient), date: lines[i].Date}
		if seen[k] {
			lines[i].Duplicate = true
			lines[i].Review = model.ReviewDuplicate
			lines[i].Computed = decimal.Zero
			res.warn(lines[i].SourceRow, model.ReasonFCFSDuplicate, lines[i].Patient)
			continue
		}
		seen[k] = true
	}
}
