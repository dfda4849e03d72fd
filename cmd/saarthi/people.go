package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/saarthi-app/saarthi/internal/cli"
	"github.com/saarthi-app/saarthi/internal/common"
	"github.com/saarthi-app/saarthi/internal/model"
	"github.com/saarthi-app/saarthi/internal/query"
	"github.com/spf13/cobra"
)

func peopleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "people",
		Short: "Manage financial profiles",
		Long:  `Add, update, delete, and list per-person financial profiles.`,
	}

	cmd.AddCommand(addPersonCmd())
	cmd.AddCommand(updatePersonCmd())
	cmd.AddCommand(deletePersonCmd())
	cmd.AddCommand(showPersonCmd())
	cmd.AddCommand(listPeopleCmd())

	return cmd
}

// personFlags mirrors every user-editable field of a profile. The same set
// serves add (values) and update (only flags the user changed).
type personFlags struct {
	no    int64
	name  string
	state string

	salary float64

	vehicleLoan      float64
	vehicleEMI       float64
	homeLoan         float64
	homeEMI          float64
	personalLoan     float64
	personalLoanEMI  float64
	landLoan         float64
	landLoanEMI      float64
	educationLoan    float64
	educationLoanEMI float64
	chitti           float64
	chittiEMI        float64
	goldLoan         float64
	goldLoanEMI      float64
	agifLoan         float64
	agifLoanEMI      float64

	otherLoans       float64
	otherEMIsOnline  float64
	otherEMIsOffline float64

	stockMarket   float64
	mutualFund    float64
	fixedDeposits float64
	goldEMI       float64

	saving float64

	cibilImagePath string
}

func registerPersonFlags(cmd *cobra.Command, f *personFlags) {
	cmd.Flags().Int64Var(&f.no, "no", 0, "user-facing sequence number (unique)")
	cmd.Flags().StringVar(&f.name, "name", "", "person name")
	cmd.Flags().StringVar(&f.state, "state", "", "state of residence")
	cmd.Flags().Float64Var(&f.salary, "salary", 0, "monthly salary")

	cmd.Flags().Float64Var(&f.vehicleLoan, "vehicle-loan", 0, "vehicle loan principal")
	cmd.Flags().Float64Var(&f.vehicleEMI, "vehicle-emi", 0, "vehicle loan EMI")
	cmd.Flags().Float64Var(&f.homeLoan, "home-loan", 0, "home loan principal")
	cmd.Flags().Float64Var(&f.homeEMI, "home-emi", 0, "home loan EMI")
	cmd.Flags().Float64Var(&f.personalLoan, "personal-loan", 0, "personal loan principal")
	cmd.Flags().Float64Var(&f.personalLoanEMI, "personal-emi", 0, "personal loan EMI")
	cmd.Flags().Float64Var(&f.landLoan, "land-loan", 0, "land loan principal")
	cmd.Flags().Float64Var(&f.landLoanEMI, "land-emi", 0, "land loan EMI")
	cmd.Flags().Float64Var(&f.educationLoan, "education-loan", 0, "education loan principal")
	cmd.Flags().Float64Var(&f.educationLoanEMI, "education-emi", 0, "education loan EMI")
	cmd.Flags().Float64Var(&f.chitti, "chitti", 0, "chitti amount")
	cmd.Flags().Float64Var(&f.chittiEMI, "chitti-emi", 0, "chitti EMI")
	cmd.Flags().Float64Var(&f.goldLoan, "gold-loan", 0, "gold loan principal")
	cmd.Flags().Float64Var(&f.goldLoanEMI, "gold-emi", 0, "gold loan EMI")
	cmd.Flags().Float64Var(&f.agifLoan, "agif-loan", 0, "AGIF loan principal")
	cmd.Flags().Float64Var(&f.agifLoanEMI, "agif-emi", 0, "AGIF loan EMI")

	cmd.Flags().Float64Var(&f.otherLoans, "other-loans", 0, "other loan principal")
	cmd.Flags().Float64Var(&f.otherEMIsOnline, "other-emis-online", 0, "other EMIs paid online")
	cmd.Flags().Float64Var(&f.otherEMIsOffline, "other-emis-offline", 0, "other EMIs paid offline")

	cmd.Flags().Float64Var(&f.stockMarket, "stocks", 0, "stock market investment")
	cmd.Flags().Float64Var(&f.mutualFund, "mutual-funds", 0, "mutual fund investment")
	cmd.Flags().Float64Var(&f.fixedDeposits, "fixed-deposits", 0, "fixed deposit investment")
	cmd.Flags().Float64Var(&f.goldEMI, "invest-gold-emi", 0, "gold EMI investment")

	cmd.Flags().Float64Var(&f.saving, "saving", 0, "monthly saving")

	cmd.Flags().StringVar(&f.cibilImagePath, "cibil-image", "", "path to a CIBIL score image to attach")
}

func (f *personFlags) toPerson() (*model.Person, error) {
	person := &model.Person{
		No:     f.no,
		Name:   f.name,
		State:  f.state,
		Salary: f.salary,

		VehicleLoan:      f.vehicleLoan,
		VehicleEMI:       f.vehicleEMI,
		HomeLoan:         f.homeLoan,
		HomeEMI:          f.homeEMI,
		PersonalLoan:     f.personalLoan,
		PersonalLoanEMI:  f.personalLoanEMI,
		LandLoan:         f.landLoan,
		LandLoanEMI:      f.landLoanEMI,
		EducationLoan:    f.educationLoan,
		EducationLoanEMI: f.educationLoanEMI,
		Chitti:           f.chitti,
		ChittiEMI:        f.chittiEMI,
		GoldLoan:         f.goldLoan,
		GoldLoanEMI:      f.goldLoanEMI,
		AgifLoan:         f.agifLoan,
		AgifLoanEMI:      f.agifLoanEMI,

		OtherLoans:       f.otherLoans,
		OtherEMIsOnline:  f.otherEMIsOnline,
		OtherEMIsOffline: f.otherEMIsOffline,

		InvestmentStockMarket:   f.stockMarket,
		InvestmentMutualFund:    f.mutualFund,
		InvestmentFixedDeposits: f.fixedDeposits,
		InvestmentGoldEMI:       f.goldEMI,

		Saving: f.saving,
	}

	if f.cibilImagePath != "" {
		dataURI, err := encodeImageFile(f.cibilImagePath)
		if err != nil {
			return nil, err
		}
		person.CibilScoreImage = dataURI
	}

	return person, nil
}

// toUpdate builds a partial update containing only the flags the user set.
func (f *personFlags) toUpdate(cmd *cobra.Command) (model.PersonUpdate, error) {
	var update model.PersonUpdate

	changed := cmd.Flags().Changed

	if changed("no") {
		update.No = &f.no
	}
	if changed("name") {
		update.Name = &f.name
	}
	if changed("state") {
		update.State = &f.state
	}
	if changed("salary") {
		update.Salary = &f.salary
	}

	if changed("vehicle-loan") {
		update.VehicleLoan = &f.vehicleLoan
	}
	if changed("vehicle-emi") {
		update.VehicleEMI = &f.vehicleEMI
	}
	if changed("home-loan") {
		update.HomeLoan = &f.homeLoan
	}
	if changed("home-emi") {
		update.HomeEMI = &f.homeEMI
	}
	if changed("personal-loan") {
		update.PersonalLoan = &f.personalLoan
	}
	if changed("personal-emi") {
		update.PersonalLoanEMI = &f.personalLoanEMI
	}
	if changed("land-loan") {
		update.LandLoan = &f.landLoan
	}
	if changed("land-emi") {
		update.LandLoanEMI = &f.landLoanEMI
	}
	if changed("education-loan") {
		update.EducationLoan = &f.educationLoan
	}
	if changed("education-emi") {
		update.EducationLoanEMI = &f.educationLoanEMI
	}
	if changed("chitti") {
		update.Chitti = &f.chitti
	}
	if changed("chitti-emi") {
		update.ChittiEMI = &f.chittiEMI
	}
	if changed("gold-loan") {
		update.GoldLoan = &f.goldLoan
	}
	if changed("gold-emi") {
		update.GoldLoanEMI = &f.goldLoanEMI
	}
	if changed("agif-loan") {
		update.AgifLoan = &f.agifLoan
	}
	if changed("agif-emi") {
		update.AgifLoanEMI = &f.agifLoanEMI
	}

	if changed("other-loans") {
		update.OtherLoans = &f.otherLoans
	}
	if changed("other-emis-online") {
		update.OtherEMIsOnline = &f.otherEMIsOnline
	}
	if changed("other-emis-offline") {
		update.OtherEMIsOffline = &f.otherEMIsOffline
	}

	if changed("stocks") {
		update.InvestmentStockMarket = &f.stockMarket
	}
	if changed("mutual-funds") {
		update.InvestmentMutualFund = &f.mutualFund
	}
	if changed("fixed-deposits") {
		update.InvestmentFixedDeposits = &f.fixedDeposits
	}
	if changed("invest-gold-emi") {
		update.InvestmentGoldEMI = &f.goldEMI
	}

	if changed("saving") {
		update.Saving = &f.saving
	}

	if changed("cibil-image") {
		dataURI, err := encodeImageFile(f.cibilImagePath)
		if err != nil {
			return model.PersonUpdate{}, err
		}
		update.CibilScoreImage = &dataURI
	}

	return update, nil
}

// encodeImageFile reads an image file and encodes it as a data URI. The
// stored value stays opaque to the rest of the application.
func encodeImageFile(path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied attachment path
	if err != nil {
		return "", fmt.Errorf("failed to read image %s: %w", path, err)
	}

	var mime string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		mime = "image/png"
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
	case ".webp":
		mime = "image/webp"
	default:
		mime = "application/octet-stream"
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func addPersonCmd() *cobra.Command {
	var flags personFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new financial profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			person, err := flags.toPerson()
			if err != nil {
				return err
			}

			stored, err := store.AddPerson(ctx, person)
			if err != nil {
				return fmt.Errorf("failed to add person: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added %s (no %d, id %s)", stored.Name, stored.No, stored.ID)))
			return nil
		},
	}

	registerPersonFlags(cmd, &flags)
	_ = cmd.MarkFlagRequired("no")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("state")

	return cmd
}

func updatePersonCmd() *cobra.Command {
	var flags personFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a financial profile",
		Long:  `Merge the given fields over an existing profile. Unspecified fields are left unchanged.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			update, err := flags.toUpdate(cmd)
			if err != nil {
				return err
			}

			updated, err := store.UpdatePerson(ctx, args[0], update)
			if err != nil {
				return fmt.Errorf("failed to update person: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated %s (no %d)", updated.Name, updated.No)))
			return nil
		},
	}

	registerPersonFlags(cmd, &flags)

	return cmd
}

func deletePersonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a financial profile",
		Long:  `Remove a profile. Deleting an id that does not exist is not an error.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeletePerson(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete person: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Deleted " + args[0]))
			return nil
		},
	}
}

func showPersonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a profile with its derived risk metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			person, err := store.GetPerson(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get person: %w", err)
			}
			if person == nil {
				return common.NewUserError(fmt.Sprintf("no profile with id %s", args[0]), nil)
			}

			currency := configuredCurrency(ctx, store)
			fmt.Println(renderPerson(person, currency))
			return nil
		},
	}
}

// renderPerson renders the detail card: identity, the nonzero loan and
// investment rows, and the derived risk panel.
func renderPerson(person *model.Person, currency string) string {
	metrics := model.DeriveMetrics(person)

	var b strings.Builder
	fmt.Fprintf(&b, "No:      %d\n", person.No)
	fmt.Fprintf(&b, "Name:    %s\n", person.Name)
	fmt.Fprintf(&b, "State:   %s\n", person.State)
	fmt.Fprintf(&b, "Salary:  %s\n", formatMoney(person.Salary, currency))
	fmt.Fprintf(&b, "Saving:  %s\n", formatMoney(person.Saving, currency))

	loanRows := []struct {
		name      string
		principal float64
		emi       float64
	}{
		{"Vehicle", person.VehicleLoan, person.VehicleEMI},
		{"Home", person.HomeLoan, person.HomeEMI},
		{"Personal", person.PersonalLoan, person.PersonalLoanEMI},
		{"Land", person.LandLoan, person.LandLoanEMI},
		{"Education", person.EducationLoan, person.EducationLoanEMI},
		{"Chitti", person.Chitti, person.ChittiEMI},
		{"Gold", person.GoldLoan, person.GoldLoanEMI},
		{"AGIF", person.AgifLoan, person.AgifLoanEMI},
		{"Other", person.OtherLoans, person.OtherEMIsOnline + person.OtherEMIsOffline},
	}

	b.WriteString("\nLoans:\n")
	shown := false
	for _, row := range loanRows {
		if row.principal == 0 && row.emi == 0 {
			continue
		}
		shown = true
		fmt.Fprintf(&b, "  %-10s %14s  EMI %s\n",
			row.name, formatMoney(row.principal, currency), formatMoney(row.emi, currency))
	}
	if !shown {
		b.WriteString(cli.SubtleStyle.Render("  none") + "\n")
	}

	fmt.Fprintf(&b, "\nTotal loans:      %d\n", metrics.TotalLoans)
	fmt.Fprintf(&b, "Total EMIs:       %s\n", formatMoney(metrics.TotalEMIs, currency))
	fmt.Fprintf(&b, "Total investment: %s\n", formatMoney(metrics.TotalInvestment, currency))

	if person.HasCibilScore() {
		b.WriteString("CIBIL document:   attached\n")
	}

	if metrics.HighRisk() {
		reasons := make([]string, 0, 2)
		if metrics.HasMoreThan3Loans {
			reasons = append(reasons, "has more than 3 loans")
		}
		if metrics.SpendingMoreThanSalary {
			reasons = append(reasons, "EMIs exceed salary")
		}
		b.WriteString("\n" + cli.FormatRisk("High risk: "+strings.Join(reasons, "; ")))
	}

	return cli.RenderBox(fmt.Sprintf("Profile %s", person.ID), b.String())
}

func listPeopleCmd() *cobra.Command {
	var (
		viewName  string
		category  string
		search    string
		sortName  string
		sortOrder string
		page      int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List profiles through the view pipeline",
		Long: `List profiles for a view. Records pass the view's domain filter, the
optional category filter, and the search term, then get sorted and paginated
12 to a page.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			view, ok := query.ParseView(viewName)
			if !ok {
				return common.NewUserError(fmt.Sprintf("unknown view %q (directory, loans, investments, cibil)", viewName), nil)
			}

			params := query.Params{
				View:     view,
				Category: category,
				Search:   search,
				Page:     page,
			}

			if sortName != "" {
				field, ok := query.ParseSortField(sortName)
				if !ok {
					return common.NewUserError(fmt.Sprintf("unknown sort field %q", sortName), nil)
				}
				params.SortField = field
				params.SortOrder = query.SortAsc
				if sortOrder == "desc" {
					params.SortOrder = query.SortDesc
				}
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			people, err := store.GetAllPeople(ctx)
			if err != nil {
				return fmt.Errorf("failed to load people: %w", err)
			}

			result := query.Run(people, params)
			if result.TotalMatches == 0 {
				fmt.Println(cli.InfoStyle.Render("No matching profiles."))
				return nil
			}

			currency := configuredCurrency(ctx, store)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("No"),
				cli.TableHeaderStyle.Render("Name"),
				cli.TableHeaderStyle.Render("State"),
				cli.TableHeaderStyle.Render("Loans"),
				cli.TableHeaderStyle.Render("Total EMIs"),
				cli.TableHeaderStyle.Render("Invested"),
				cli.TableHeaderStyle.Render("Flags"))

			for _, entry := range result.Entries {
				flags := ""
				if entry.Metrics.HighRisk() {
					flags = cli.FormatRisk("high risk")
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\t%s\n",
					entry.Person.No,
					entry.Person.Name,
					entry.Person.State,
					entry.Metrics.TotalLoans,
					formatMoney(entry.Metrics.TotalEMIs, currency),
					formatMoney(entry.Metrics.TotalInvestment, currency),
					flags)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			totalPages := result.TotalPages
			if totalPages == 0 {
				totalPages = 1
			}
			fmt.Println(cli.SubtleStyle.Render(
				fmt.Sprintf("Page %d/%d • %d matching profiles", result.Page, totalPages, result.TotalMatches)))
			return nil
		},
	}

	cmd.Flags().StringVar(&viewName, "view", "directory", "view (directory, loans, investments, cibil)")
	cmd.Flags().StringVar(&category, "category", "all", "category filter for loans/investments views")
	cmd.Flags().StringVar(&search, "search", "", "search term matched against name, state, or number")
	cmd.Flags().StringVar(&sortName, "sort", "", "sort field (name, salary, totalLoans, totalEMIs, vehicleLoan, homeLoan, personalLoan)")
	cmd.Flags().StringVar(&sortOrder, "order", "asc", "sort order (asc, desc)")
	cmd.Flags().IntVar(&page, "page", 1, "page number (12 records per page)")

	return cmd
}
