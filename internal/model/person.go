// Package model defines the domain records and derived computations.
package model

import "time"

// SyncStatus marks a record as locally modified or acknowledged.
// No remote sync exists; the tag is informational only.
type SyncStatus string

// Valid sync statuses.
const (
	SyncStatusSynced  SyncStatus = "synced"
	SyncStatusPending SyncStatus = "pending"
	SyncStatusError   SyncStatus = "error"
)

// Person is one financial profile: income, loans, EMIs, and investments.
// All amounts are non-negative; absence is zero, never null. JSON tags
// match the backup file format.
type Person struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ID    string `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`

	// CibilScoreImage holds an uploaded score document as a data URI.
	// Opaque to everything but the display layer.
	CibilScoreImage string     `json:"cibilScoreImage,omitempty"`
	SyncStatus      SyncStatus `json:"syncStatus"`

	// No is the user-facing sequence number, unique across the store.
	No int64 `json:"no"`

	Salary float64 `json:"salary"`

	VehicleLoan      float64 `json:"vehicleLoan"`
	VehicleEMI       float64 `json:"vehicleEMI"`
	HomeLoan         float64 `json:"homeLoan"`
	HomeEMI          float64 `json:"homeEMI"`
	PersonalLoan     float64 `json:"personalLoan"`
	PersonalLoanEMI  float64 `json:"personalLoanEMI"`
	LandLoan         float64 `json:"landLoan"`
	LandLoanEMI      float64 `json:"landLoanEMI"`
	EducationLoan    float64 `json:"educationLoan"`
	EducationLoanEMI float64 `json:"educationLoanEMI"`
	Chitti           float64 `json:"chitti"`
	ChittiEMI        float64 `json:"chittiEMI"`
	GoldLoan         float64 `json:"goldLoan"`
	GoldLoanEMI      float64 `json:"goldLoanEMI"`
	AgifLoan         float64 `json:"agifLoan"`
	AgifLoanEMI      float64 `json:"agifLoanEMI"`

	OtherLoans       float64 `json:"otherLoans"`
	OtherEMIsOnline  float64 `json:"otherEMIsOnline"`
	OtherEMIsOffline float64 `json:"otherEMIsOffline"`

	InvestmentStockMarket   float64 `json:"investmentStockMarket"`
	InvestmentMutualFund    float64 `json:"investmentMutualFund"`
	InvestmentFixedDeposits float64 `json:"investmentFixedDeposits"`
	InvestmentGoldEMI       float64 `json:"investmentGoldEMI"`

	Saving float64 `json:"saving"`
}

// LoanPrincipals returns every loan principal field, including other loans.
// Order matches the display order of the loan categories.
func (p *Person) LoanPrincipals() []float64 {
	return []float64{
		p.VehicleLoan,
		p.HomeLoan,
		p.PersonalLoan,
		p.LandLoan,
		p.EducationLoan,
		p.Chitti,
		p.GoldLoan,
		p.AgifLoan,
		p.OtherLoans,
	}
}

// EMIs returns every EMI field, including the online and offline other-EMI
// amounts. EMIs are independent of whether the matching principal is set.
func (p *Person) EMIs() []float64 {
	return []float64{
		p.VehicleEMI,
		p.HomeEMI,
		p.PersonalLoanEMI,
		p.LandLoanEMI,
		p.EducationLoanEMI,
		p.ChittiEMI,
		p.GoldLoanEMI,
		p.AgifLoanEMI,
		p.OtherEMIsOnline,
		p.OtherEMIsOffline,
	}
}

// Investments returns the four investment scalar fields.
func (p *Person) Investments() []float64 {
	return []float64{
		p.InvestmentStockMarket,
		p.InvestmentMutualFund,
		p.InvestmentFixedDeposits,
		p.InvestmentGoldEMI,
	}
}

// Amounts returns every financial scalar on the record, used by validation
// to enforce the non-negativity invariant in one place.
func (p *Person) Amounts() []float64 {
	amounts := []float64{p.Salary, p.Saving}
	amounts = append(amounts, p.LoanPrincipals()...)
	amounts = append(amounts, p.EMIs()...)
	amounts = append(amounts, p.Investments()...)
	return amounts
}

// HasCibilScore reports whether a score document is attached.
func (p *Person) HasCibilScore() bool {
	return p.CibilScoreImage != ""
}

// PersonUpdate carries a partial update for a person. Nil fields are left
// unchanged; identity and bookkeeping fields are managed by the store and
// cannot be set here.
type PersonUpdate struct {
	No    *int64
	Name  *string
	State *string

	Salary *float64

	VehicleLoan      *float64
	VehicleEMI       *float64
	HomeLoan         *float64
	HomeEMI          *float64
	PersonalLoan     *float64
	PersonalLoanEMI  *float64
	LandLoan         *float64
	LandLoanEMI      *float64
	EducationLoan    *float64
	EducationLoanEMI *float64
	Chitti           *float64
	ChittiEMI        *float64
	GoldLoan         *float64
	GoldLoanEMI      *float64
	AgifLoan         *float64
	AgifLoanEMI      *float64

	OtherLoans       *float64
	OtherEMIsOnline  *float64
	OtherEMIsOffline *float64

	InvestmentStockMarket   *float64
	InvestmentMutualFund    *float64
	InvestmentFixedDeposits *float64
	InvestmentGoldEMI       *float64

	Saving *float64

	CibilScoreImage *string
}

// ApplyTo merges the set fields over the person, leaving everything else
// untouched.
func (u *PersonUpdate) ApplyTo(p *Person) {
	setInt := func(dst *int64, src *int64) {
		if src != nil {
			*dst = *src
		}
	}
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}

	setInt(&p.No, u.No)
	setStr(&p.Name, u.Name)
	setStr(&p.State, u.State)

	set(&p.Salary, u.Salary)

	set(&p.VehicleLoan, u.VehicleLoan)
	set(&p.VehicleEMI, u.VehicleEMI)
	set(&p.HomeLoan, u.HomeLoan)
	set(&p.HomeEMI, u.HomeEMI)
	set(&p.PersonalLoan, u.PersonalLoan)
	set(&p.PersonalLoanEMI, u.PersonalLoanEMI)
	set(&p.LandLoan, u.LandLoan)
	set(&p.LandLoanEMI, u.LandLoanEMI)
	set(&p.EducationLoan, u.EducationLoan)
	set(&p.EducationLoanEMI, u.EducationLoanEMI)
	set(&p.Chitti, u.Chitti)
	set(&p.ChittiEMI, u.ChittiEMI)
	set(&p.GoldLoan, u.GoldLoan)
	set(&p.GoldLoanEMI, u.GoldLoanEMI)
	set(&p.AgifLoan, u.AgifLoan)
	set(&p.AgifLoanEMI, u.AgifLoanEMI)

	set(&p.OtherLoans, u.OtherLoans)
	set(&p.OtherEMIsOnline, u.OtherEMIsOnline)
	set(&p.OtherEMIsOffline, u.OtherEMIsOffline)

	set(&p.InvestmentStockMarket, u.InvestmentStockMarket)
	set(&p.InvestmentMutualFund, u.InvestmentMutualFund)
	set(&p.InvestmentFixedDeposits, u.InvestmentFixedDeposits)
	set(&p.InvestmentGoldEMI, u.InvestmentGoldEMI)

	set(&p.Saving, u.Saving)

	setStr(&p.CibilScoreImage, u.CibilScoreImage)
}
