package model

// Metrics holds the derived risk and aggregate fields for a person.
// Derived values are recomputed on every read and never stored.
type Metrics struct {
	TotalLoans             int
	TotalEMIs              float64
	TotalInvestment        float64
	HasMoreThan3Loans      bool
	SpendingMoreThanSalary bool
}

// HighRisk reports whether either risk rule flags the person.
func (m Metrics) HighRisk() bool {
	return m.HasMoreThan3Loans || m.SpendingMoreThanSalary
}

// DeriveMetrics computes the derived fields from the person's current
// values. The loan count is driven by principal fields only; EMIs are
// summed regardless of whether the matching principal is set.
func DeriveMetrics(p *Person) Metrics {
	var m Metrics

	for _, principal := range p.LoanPrincipals() {
		if principal > 0 {
			m.TotalLoans++
		}
	}
	for _, emi := range p.EMIs() {
		m.TotalEMIs += emi
	}
	for _, inv := range p.Investments() {
		m.TotalInvestment += inv
	}

	m.HasMoreThan3Loans = m.TotalLoans > 3
	m.SpendingMoreThanSalary = m.TotalEMIs > p.Salary

	return m
}
