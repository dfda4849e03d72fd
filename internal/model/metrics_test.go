package model

import "testing"

func TestDeriveMetricsCountsPrincipalsOnly(t *testing.T) {
	person := &Person{
		Salary:          1000,
		VehicleLoan:     500,
		VehicleEMI:      600,
		HomeLoan:        200,
		HomeEMI:         100,
		PersonalLoan:    50,
		PersonalLoanEMI: 0,
	}

	m := DeriveMetrics(person)

	if m.TotalLoans != 3 {
		t.Errorf("TotalLoans = %d, want 3", m.TotalLoans)
	}
	if m.TotalEMIs != 700 {
		t.Errorf("TotalEMIs = %v, want 700", m.TotalEMIs)
	}
	if m.HasMoreThan3Loans {
		t.Error("HasMoreThan3Loans = true, want false")
	}
	if m.SpendingMoreThanSalary {
		t.Error("SpendingMoreThanSalary = true, want false (700 <= 1000)")
	}
	if m.HighRisk() {
		t.Error("HighRisk() = true, want false")
	}
}

func TestDeriveMetricsEMIWithoutPrincipalDoesNotCount(t *testing.T) {
	// A nonzero EMI with a zero principal contributes to the EMI sum but
	// never to the loan count.
	person := &Person{
		Salary:     5000,
		VehicleEMI: 1200,
		HomeEMI:    800,
	}

	m := DeriveMetrics(person)

	if m.TotalLoans != 0 {
		t.Errorf("TotalLoans = %d, want 0", m.TotalLoans)
	}
	if m.TotalEMIs != 2000 {
		t.Errorf("TotalEMIs = %v, want 2000", m.TotalEMIs)
	}
}

func TestDeriveMetricsLoanCountThreshold(t *testing.T) {
	tests := []struct {
		name   string
		person Person
		want   bool
	}{
		{
			name: "exactly 3 loans",
			person: Person{
				VehicleLoan:  100,
				HomeLoan:     100,
				PersonalLoan: 100,
			},
			want: false,
		},
		{
			name: "exactly 4 loans",
			person: Person{
				VehicleLoan:  100,
				HomeLoan:     100,
				PersonalLoan: 100,
				GoldLoan:     100,
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := DeriveMetrics(&tt.person)
			if m.HasMoreThan3Loans != tt.want {
				t.Errorf("HasMoreThan3Loans = %v, want %v", m.HasMoreThan3Loans, tt.want)
			}
		})
	}
}

func TestDeriveMetricsZeroSalaryWithEMIIsHighRisk(t *testing.T) {
	person := &Person{
		Salary:    0,
		ChittiEMI: 1,
	}

	m := DeriveMetrics(person)

	if !m.SpendingMoreThanSalary {
		t.Error("SpendingMoreThanSalary = false, want true for zero salary with any EMI")
	}
	if !m.HighRisk() {
		t.Error("HighRisk() = false, want true")
	}
}

func TestDeriveMetricsTotalInvestment(t *testing.T) {
	person := &Person{
		InvestmentStockMarket:   1000,
		InvestmentMutualFund:    2000,
		InvestmentFixedDeposits: 3000,
		InvestmentGoldEMI:       4000,
	}

	m := DeriveMetrics(person)

	if m.TotalInvestment != 10000 {
		t.Errorf("TotalInvestment = %v, want 10000", m.TotalInvestment)
	}
}

func TestDeriveMetricsIsDeterministic(t *testing.T) {
	person := &Person{
		Salary:      3000,
		VehicleLoan: 100,
		VehicleEMI:  500,
		OtherLoans:  250,
		ChittiEMI:   75,
	}

	first := DeriveMetrics(person)
	second := DeriveMetrics(person)

	if first != second {
		t.Errorf("DeriveMetrics not deterministic: %+v != %+v", first, second)
	}
}

func TestPersonUpdateApplyTo(t *testing.T) {
	person := Person{
		No:     1,
		Name:   "Asha",
		State:  "Kerala",
		Salary: 1000,
	}

	newSalary := 2500.0
	newState := "Goa"
	update := PersonUpdate{Salary: &newSalary, State: &newState}
	update.ApplyTo(&person)

	if person.Salary != 2500 {
		t.Errorf("Salary = %v, want 2500", person.Salary)
	}
	if person.State != "Goa" {
		t.Errorf("State = %q, want Goa", person.State)
	}
	if person.Name != "Asha" || person.No != 1 {
		t.Errorf("unset fields changed: %+v", person)
	}
}
