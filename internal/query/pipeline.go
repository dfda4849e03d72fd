// Package query implements the filter, sort, and paginate pipeline that
// produces the exact page of records a view renders.
package query

import (
	"sort"
	"strconv"
	"strings"

	"github.com/saarthi-app/saarthi/internal/model"
)

// View selects the domain filter applied before anything else.
type View string

// Available views.
const (
	ViewDirectory   View = "directory"
	ViewLoans       View = "loans"
	ViewInvestments View = "investments"
	ViewCIBIL       View = "cibil"
)

// SortField names a user-selectable sort column.
type SortField string

// Available sort fields.
const (
	SortByName         SortField = "name"
	SortBySalary       SortField = "salary"
	SortByTotalLoans   SortField = "totalLoans"
	SortByTotalEMIs    SortField = "totalEMIs"
	SortByVehicleLoan  SortField = "vehicleLoan"
	SortByHomeLoan     SortField = "homeLoan"
	SortByPersonalLoan SortField = "personalLoan"
)

// SortOrder toggles the comparator's sign.
type SortOrder string

// Sort orders.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// DefaultPageSize is the fixed number of records per page.
const DefaultPageSize = 12

// HighValueThreshold is the cutoff for the investments "high-value" filter.
const HighValueThreshold = 100000

// Params parameterizes one pipeline run. Zero values mean: directory view,
// no category restriction, no search, no sort, first page, default size.
type Params struct {
	View      View
	Category  string
	Search    string
	SortField SortField
	SortOrder SortOrder
	Page      int
	PageSize  int
}

// Entry is a person decorated with the derived metrics for the run.
// Metrics are recomputed on every run, never carried between runs.
type Entry struct {
	Person  model.Person
	Metrics model.Metrics
}

// Result is one page of entries plus enough shape information for callers
// to render pagination controls and to reset out-of-range pages.
type Result struct {
	Entries      []Entry
	TotalMatches int
	Page         int
	TotalPages   int
	PageSize     int
}

// Run applies the fixed stage order: domain filter, category filter, search,
// sort, paginate. It never fails; no matches is a valid empty result.
func Run(people []model.Person, params Params) Result {
	if params.View == "" {
		params.View = ViewDirectory
	}
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.PageSize <= 0 {
		params.PageSize = DefaultPageSize
	}

	entries := make([]Entry, 0, len(people))
	for _, person := range people {
		entry := Entry{Person: person, Metrics: model.DeriveMetrics(&person)}
		if !matchesView(entry, params.View) {
			continue
		}
		if !matchesCategory(entry, params.View, params.Category) {
			continue
		}
		if !matchesSearch(entry, params.Search) {
			continue
		}
		entries = append(entries, entry)
	}

	sortEntries(entries, params.SortField, params.SortOrder)

	total := len(entries)
	totalPages := (total + params.PageSize - 1) / params.PageSize

	start := (params.Page - 1) * params.PageSize
	end := start + params.PageSize
	switch {
	case start >= total:
		entries = nil
	case end > total:
		entries = entries[start:total]
	default:
		entries = entries[start:end]
	}

	return Result{
		Entries:      entries,
		TotalMatches: total,
		Page:         params.Page,
		TotalPages:   totalPages,
		PageSize:     params.PageSize,
	}
}

func matchesView(e Entry, view View) bool {
	switch view {
	case ViewLoans:
		return e.Metrics.TotalLoans > 0
	case ViewInvestments:
		return e.Metrics.TotalInvestment > 0
	case ViewCIBIL:
		return e.Person.HasCibilScore()
	default:
		return true
	}
}

// matchesCategory restricts the loans and investments views by a single
// selected category. Unknown categories and "all" pass everything through.
func matchesCategory(e Entry, view View, category string) bool {
	if category == "" || category == "all" {
		return true
	}

	switch view {
	case ViewLoans:
		switch category {
		case "vehicle":
			return e.Person.VehicleLoan > 0
		case "home":
			return e.Person.HomeLoan > 0
		case "personal":
			return e.Person.PersonalLoan > 0
		case "education":
			return e.Person.EducationLoan > 0
		case "gold":
			return e.Person.GoldLoan > 0
		case "high-risk":
			return e.Metrics.HighRisk()
		default:
			return true
		}
	case ViewInvestments:
		switch category {
		case "stocks":
			return e.Person.InvestmentStockMarket > 0
		case "mutual-funds":
			return e.Person.InvestmentMutualFund > 0
		case "fixed-deposits":
			return e.Person.InvestmentFixedDeposits > 0
		case "gold":
			return e.Person.InvestmentGoldEMI > 0
		case "high-value":
			return e.Metrics.TotalInvestment > HighValueThreshold
		default:
			return true
		}
	default:
		return true
	}
}

// matchesSearch matches the term against name OR state OR the string form
// of the sequence number. Any one match is enough.
func matchesSearch(e Entry, term string) bool {
	if term == "" {
		return true
	}

	lower := strings.ToLower(term)
	if strings.Contains(strings.ToLower(e.Person.Name), lower) {
		return true
	}
	if strings.Contains(strings.ToLower(e.Person.State), lower) {
		return true
	}
	return strings.Contains(strconv.FormatInt(e.Person.No, 10), term)
}

// sortEntries sorts in place with a stable sort. Descending order inverts
// the ascending comparator's sign rather than re-deriving a comparator, so
// tie groups keep their relative order in both directions.
func sortEntries(entries []Entry, field SortField, order SortOrder) {
	if field == "" {
		return
	}

	cmp := comparator(field)

	sort.SliceStable(entries, func(i, j int) bool {
		c := cmp(&entries[i], &entries[j])
		if order == SortDesc {
			c = -c
		}
		return c < 0
	})
}

func comparator(field SortField) func(a, b *Entry) int {
	switch field {
	case SortByName:
		return func(a, b *Entry) int {
			return strings.Compare(strings.ToLower(a.Person.Name), strings.ToLower(b.Person.Name))
		}
	case SortBySalary:
		return numericCmp(func(e *Entry) float64 { return e.Person.Salary })
	case SortByTotalLoans:
		return numericCmp(func(e *Entry) float64 { return float64(e.Metrics.TotalLoans) })
	case SortByTotalEMIs:
		return numericCmp(func(e *Entry) float64 { return e.Metrics.TotalEMIs })
	case SortByVehicleLoan:
		return numericCmp(func(e *Entry) float64 { return e.Person.VehicleLoan })
	case SortByHomeLoan:
		return numericCmp(func(e *Entry) float64 { return e.Person.HomeLoan })
	case SortByPersonalLoan:
		return numericCmp(func(e *Entry) float64 { return e.Person.PersonalLoan })
	default:
		// Unknown fields leave the input order untouched.
		return func(_, _ *Entry) int { return 0 }
	}
}

func numericCmp(value func(e *Entry) float64) func(a, b *Entry) int {
	return func(a, b *Entry) int {
		av, bv := value(a), value(b)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	}
}

// ParseSortField validates a user-supplied sort column name.
func ParseSortField(s string) (SortField, bool) {
	switch SortField(s) {
	case SortByName, SortBySalary, SortByTotalLoans, SortByTotalEMIs,
		SortByVehicleLoan, SortByHomeLoan, SortByPersonalLoan:
		return SortField(s), true
	default:
		return "", false
	}
}

// ParseView validates a user-supplied view name.
func ParseView(s string) (View, bool) {
	switch View(s) {
	case ViewDirectory, ViewLoans, ViewInvestments, ViewCIBIL:
		return View(s), true
	default:
		return "", false
	}
}
