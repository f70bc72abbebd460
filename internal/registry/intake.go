package registry

import "fmt"

var (
	yesNo = []string{"No", "Yes"}
	noYes = []string{"Yes", "No"}
)

// Intake is the Ohio dissolution questionnaire.
var Intake = MustNew(intakeSections())

func text(key, label, prompt string) Field {
	return Field{Key: key, Label: label, Prompt: prompt, Kind: KindText}
}

func typed(kind Kind, key, label, prompt string) Field {
	return Field{Key: key, Label: label, Prompt: prompt, Kind: kind}
}

func choice(key, label, prompt string, options []string) Field {
	return Field{Key: key, Label: label, Prompt: prompt, Kind: KindSelect, Options: options}
}

func required(f Field) Field {
	f.Required = true
	return f
}

func yes(selector string) string {
	return selector + ` == "Yes"`
}

func intakeSections() []Section {
	return []Section{
		{Name: "Court Info", Groups: []Group{{Fields: []Field{
			required(text("court_county", "County", "County")),
			text("court_division", "Division", "Division"),
			text("court_case_no", "Case No.", "Case No. (if assigned)"),
			text("court_judge", "Judge", "Judge"),
			text("court_magistrate", "Magistrate", "Magistrate"),
		}}}},
		petitioner("p1", "Petitioner 1"),
		petitioner("p2", "Petitioner 2"),
		{Name: "Marriage Info", Groups: []Group{{Fields: []Field{
			required(typed(KindDate, "marriage_date", "Marriage Date", "Date of Marriage")),
			required(text("marriage_place", "Marriage Place", "City / County & State of Marriage")),
			typed(KindDate, "separation_date", "Separation Date", "Date of Separation"),
			choice("pregnant", "Pregnant?", "Is Either Party Pregnant?", yesNo),
			required(choice("ohio_resident", "Ohio Resident 6+ Mo", "Ohio Resident 6+ Months",
				[]string{"Petitioner 1", "Petitioner 2", "Both"})),
			choice("termination_pref", "Termination Preference", "Termination Date Preference",
				[]string{"Date of Final Hearing", "Specific Date"}),
			typed(KindDate, "termination_specific", "Specific Termination Date", "Specific Termination Date (if above)"),
		}}}},
		realEstate(),
		vehicles(),
		{Name: "Household Goods", Groups: []Group{{Fields: []Field{
			choice("hh_divided", "HH Already Divided", "Already divided between both parties?", noYes),
			typed(KindTextArea, "hh_p1_gets", "HH P1 Gets", "Items Petitioner 1 Gets"),
			typed(KindTextArea, "hh_p2_gets", "HH P2 Gets", "Items Petitioner 2 Gets"),
			text("hh_delivery", "HH Delivery", "Delivery / Pickup Arrangements"),
			typed(KindTextArea, "hh_other", "HH Other", "Other Arrangements"),
		}}}},
		accounts(),
		retirement(),
		debts(),
		spousal(),
		expenses(),
		{Name: "Name Change", Groups: []Group{
			{Fields: []Field{choice("has_name_change", "Name Change", "Does either party want a name restored?", yesNo)}},
			{When: yes("has_name_change"), Fields: []Field{
				choice("name_change_who", "Name Change Who", "Who?", []string{"Petitioner 1", "Petitioner 2"}),
				text("name_change_current", "Current Name", "Current Name"),
				text("name_change_restore", "Restore to Name", "Restore to Former Name"),
			}},
		}},
		{Name: "Additional Matters", Groups: []Group{{Fields: []Field{
			typed(KindTextArea, "additional_matters", "Additional Matters",
				"Anything else the parties agree to that isn't covered above"),
			typed(KindTextArea, "notes_questions", "Questions / Notes",
				"Questions or anything you're unsure about"),
		}}}},
	}
}

func petitioner(pfx, name string) Section {
	tag := "P1"
	if pfx == "p2" {
		tag = "P2"
	}
	k := func(s string) string { return pfx + "_" + s }
	l := func(s string) string { return tag + " " + s }

	identity := Group{Fields: []Field{
		required(text(k("name"), l("Full Name"), "Full Legal Name")),
		typed(KindDate, k("dob"), l("Date of Birth"), "Date of Birth"),
		text(k("address"), l("Address"), "Street Address"),
		text(k("csz"), l("City/State/Zip"), "City, State, Zip"),
		typed(KindPhone, k("phone"), l("Phone"), "Phone"),
		typed(KindEmail, k("email"), l("Email"), "Email"),
		text(k("ssn4"), l("SSN (last 4)"), "Last 4 of SSN"),
		choice(k("health"), l("Health"), "Health Status", []string{"Good", "Fair", "Poor"}),
		choice(k("interpreter"), l("Interpreter"), "Interpreter Needed?", yesNo),
		choice(k("military"), l("Military"), "Active-Duty Military?", yesNo),
		text(k("health_explain"), l("Health (explain)"), "If health not good, explain"),
		choice(k("education"), l("Education"), "Highest Education Completed",
			[]string{"Grade School", "High School", "Associate", "Bachelors", "Post Graduate"}),
		text(k("certs"), l("Certifications"), "Other Certifications"),
	}}

	employment := Group{Title: "Employment", Fields: []Field{
		choice(k("employed"), l("Employed"), "Currently Employed?", noYes),
		text(k("employer"), l("Employer"), "Employer Name"),
		text(k("employer_addr"), l("Employer Address"), "Employer Payroll Address"),
		text(k("employer_csz"), l("Employer City/State/Zip"), "Employer City, State, Zip"),
		typed(KindDate, k("employ_start"), l("Employment Start"), "Employment Start Date"),
		choice(k("pay_freq"), l("Pay Frequency"), "Pay Frequency",
			[]string{"Weekly", "Biweekly", "Semimonthly", "Monthly"}),
	}}

	income := Group{Title: "Income History (annual)"}
	for _, yr := range []string{"2023", "2024", "2025", "2026"} {
		income.Fields = append(income.Fields,
			typed(KindMoney, k("income_"+yr), l(yr+" Base Income"), yr+" Base Income"),
			typed(KindMoney, k("bonus_"+yr), l(yr+" OT/Bonuses"), yr+" OT / Bonuses"),
		)
	}

	other := Group{Title: "Other Income (NONE if N/A)"}
	for _, o := range [][3]string{
		{"unemp", "Unemployment Comp", "Unemployment Compensation"},
		{"workers_comp", "Workers Comp", "Workers Compensation"},
		{"ss_disability", "SS Disability", "SS Disability Benefits"},
		{"other_disability", "Other Disability", "Other Disability Benefits"},
		{"ss_retirement", "SS Retirement", "SS Retirement Benefits"},
		{"other_retirement", "Other Retirement", "Other Retirement Benefits"},
		{"spousal_recv", "Spousal Support Received", "Spousal Support Received"},
		{"interest", "Interest/Dividends", "Interest / Dividend Income"},
		{"other_income", "Other Income", "Other Income (type & source)"},
	} {
		other.Fields = append(other.Fields, text(k(o[0]), l(o[1]), o[2]))
	}

	return Section{Name: name, Groups: []Group{identity, employment, income, other}}
}

func realEstate() Section {
	s := Section{Name: "Real Estate", Groups: []Group{
		{Fields: []Field{choice("has_realestate", "Has Real Estate", "Do either of you own real estate?", yesNo)}},
	}}
	for n := 1; n <= 2; n++ {
		k := func(f string) string { return fmt.Sprintf("re%d_%s", n, f) }
		l := func(f string) string { return fmt.Sprintf("RE #%d %s", n, f) }
		s.Groups = append(s.Groups, Group{
			Title: fmt.Sprintf("Property #%d", n),
			When:  yes("has_realestate"),
			Fields: []Field{
				text(k("address"), l("Address"), "Address"),
				typed(KindMoney, k("fmv"), l("FMV"), "Fair Market Value"),
				typed(KindMoney, k("mortgage"), l("Mortgage"), "Mortgage Balance"),
				typed(KindMoney, k("equity"), l("Equity"), "Equity"),
				text(k("titled"), l("Titled To"), "Titled To"),
				text(k("gets"), l("Who Gets"), "Who Gets It?"),
			},
		})
	}
	s.Groups = append(s.Groups, Group{When: yes("has_realestate"), Fields: []Field{
		typed(KindTextArea, "re_other", "RE Other Arrangements", "Other Arrangements"),
	}})
	return s
}

func vehicles() Section {
	s := Section{Name: "Vehicles", Groups: []Group{
		{Fields: []Field{choice("has_vehicles", "Has Vehicles", "Do either of you own titled vehicles?", yesNo)}},
	}}
	for n := 1; n <= 3; n++ {
		k := func(f string) string { return fmt.Sprintf("veh%d_%s", n, f) }
		l := func(f string) string { return fmt.Sprintf("Veh #%d %s", n, f) }
		s.Groups = append(s.Groups, Group{
			Title: fmt.Sprintf("Vehicle #%d", n),
			When:  yes("has_vehicles"),
			Fields: []Field{
				text(k("year"), l("Year"), "Year"),
				text(k("make"), l("Make"), "Make"),
				text(k("model"), l("Model"), "Model"),
				text(k("vin"), l("VIN"), "VIN / SN"),
				text(k("titled"), l("Titled To"), "Titled To"),
				text(k("gets"), l("Who Gets"), "Who Gets It?"),
				typed(KindMoney, k("value"), l("Value"), "Value"),
			},
		})
	}
	s.Groups = append(s.Groups, Group{When: yes("has_vehicles"), Fields: []Field{
		typed(KindTextArea, "veh_other", "Veh Other Arrangements", "Other Arrangements"),
	}})
	return s
}

func accounts() Section {
	s := Section{Name: "Financial Accounts", Groups: []Group{
		{Fields: []Field{choice("has_accounts", "Has Financial Accounts", "Do either of you have financial accounts?", yesNo)}},
	}}
	for _, p := range []string{"p1", "p2"} {
		tag := "P1"
		if p == "p2" {
			tag = "P2"
		}
		g := Group{Title: "Petitioner " + tag[1:] + " Accounts", When: yes("has_accounts")}
		for n := 1; n <= 3; n++ {
			k := func(f string) string { return fmt.Sprintf("acct_%s_%d_%s", p, n, f) }
			l := func(f string) string { return fmt.Sprintf("%s Acct #%d %s", tag, n, f) }
			g.Fields = append(g.Fields,
				choice(k("type"), l("Type"), fmt.Sprintf("%s Account #%d Type", tag, n),
					[]string{"Checking", "Savings", "Other"}),
				text(k("inst"), l("Institution"), "Institution"),
				text(k("names"), l("Names"), "Name(s) on Account"),
			)
		}
		s.Groups = append(s.Groups, g)
	}
	s.Groups = append(s.Groups, Group{When: yes("has_accounts"), Fields: []Field{
		typed(KindTextArea, "acct_other", "Accounts Other", "Other Arrangements"),
	}})
	return s
}

func retirement() Section {
	s := Section{Name: "Retirement / Pensions", Groups: []Group{
		{Fields: []Field{choice("has_retirement", "Has Retirement", "Do either of you have retirement plans?", yesNo)}},
	}}
	for _, p := range []string{"p1", "p2"} {
		tag := "P1"
		if p == "p2" {
			tag = "P2"
		}
		g := Group{Title: "Petitioner " + tag[1:] + " Plans", When: yes("has_retirement")}
		for n := 1; n <= 2; n++ {
			k := func(f string) string { return fmt.Sprintf("ret_%s_%d_%s", p, n, f) }
			l := func(f string) string { return fmt.Sprintf("%s Ret #%d %s", tag, n, f) }
			g.Fields = append(g.Fields,
				text(k("inst"), l("Inst"), "Institution"),
				text(k("names"), l("Names"), "Name(s) on Plan"),
				text(k("amount"), l("Amount"), "Amount / Share"),
			)
		}
		s.Groups = append(s.Groups, g)
	}
	s.Groups = append(s.Groups, Group{When: yes("has_retirement"), Fields: []Field{
		text("ret_qdro", "QDRO/DOPO By", "QDRO/DOPO Prepared By"),
		text("ret_filing_expenses", "Ret Filing Expenses", "Filing Expenses Paid By"),
		typed(KindTextArea, "ret_other", "Ret Other", "Other Arrangements"),
	}})
	return s
}

func debts() Section {
	s := Section{Name: "Debts", Groups: []Group{
		{Fields: []Field{choice("has_debts", "Has Debts", "Do either of you owe debts?", yesNo)}},
	}}
	for _, p := range []string{"p1", "p2"} {
		tag := "P1"
		if p == "p2" {
			tag = "P2"
		}
		g := Group{Title: "Petitioner " + tag[1:] + " Debts", When: yes("has_debts")}
		for n := 1; n <= 3; n++ {
			g.Fields = append(g.Fields,
				text(DebtKey(p, n, "creditor"), fmt.Sprintf("%s Debt #%d Creditor", tag, n), "Creditor"),
				typed(KindMoney, DebtKey(p, n, "balance"), fmt.Sprintf("%s Debt #%d Balance", tag, n), "Balance"),
				text(DebtKey(p, n, "acct4"), fmt.Sprintf("%s Debt #%d Acct#", tag, n), "Account # (last 4)"),
			)
		}
		s.Groups = append(s.Groups, g)
	}
	s.Groups = append(s.Groups, Group{When: yes("has_debts"), Fields: []Field{
		typed(KindTextArea, "debts_other", "Debts Other", "Other Arrangements"),
	}})
	return s
}

// DebtKey is the templated key for debt n (1-based) of petitioner pfx.
func DebtKey(pfx string, n int, field string) string {
	return fmt.Sprintf("debt_%s_%d_%s", pfx, n, field)
}

func spousal() Section {
	return Section{Name: "Spousal Support", Groups: []Group{
		{Fields: []Field{choice("has_spousal", "Has Spousal Support", "Any spousal support?", yesNo)}},
		{When: yes("has_spousal"), Fields: []Field{
			choice("spousal_direction", "Spousal Direction", "Who Pays Whom?",
				[]string{"Petitioner 1 pays Petitioner 2", "Petitioner 2 pays Petitioner 1"}),
			typed(KindMoney, "spousal_amount", "Spousal Amount/Mo", "Amount Per Month"),
			typed(KindDate, "spousal_start", "Spousal Start", "Commencing On"),
			text("spousal_duration", "Spousal Duration", "Duration (# months or description)"),
			choice("spousal_method", "Spousal Method", "Payment Method",
				[]string{"Direct to recipient", "Through Ohio CSPC"}),
			text("spousal_csea", "CSEA County", "CSEA County (if CSPC)"),
			choice("spousal_collection", "Collection Method", "Collection Method",
				[]string{"Income withholding", "Other"}),
			choice("spousal_term_death", "Term on Death", "Terminates on Death?", noYes),
			choice("spousal_term_cohab", "Term on Cohabitation", "Terminates on Cohabitation?", noYes),
			choice("spousal_term_remarry", "Term on Remarriage", "Terminates on Remarriage?", noYes),
			choice("spousal_jx_amount", "Jx Retain Amount", "Court Retains Jurisdiction over Amount?", noYes),
			choice("spousal_jx_duration", "Jx Retain Duration", "Court Retains Jurisdiction over Duration?", noYes),
			text("spousal_term_other", "Other Term Conditions", "Other Termination Conditions"),
		}},
	}}
}

func expenses() Section {
	money := func(rows [][3]string) []Field {
		out := make([]Field, 0, len(rows))
		for _, r := range rows {
			out = append(out, typed(KindMoney, r[0], r[1], r[2]))
		}
		return out
	}
	return Section{Name: "Monthly Expenses", Groups: []Group{
		{Fields: []Field{
			choice("exp_whose", "Expenses For", "Whose Expenses?", []string{"Petitioner 1", "Petitioner 2"}),
			text("exp_children", "Dependent Children", "# Dependent Children in Household"),
			text("exp_adults", "Adults in Household", "# Adults in Household"),
		}},
		{Title: "Housing", Fields: money([][3]string{
			{"exp_mortgage", "Mortgage/Rent", "Rent / 1st Mortgage"},
			{"exp_mortgage2", "2nd Mortgage", "2nd Mortgage / Equity Line"},
			{"exp_retax", "RE Taxes", "Real Estate Taxes"},
			{"exp_homeins", "Home Insurance", "Homeowner/Renter Insurance"},
			{"exp_hoa", "HOA", "HOA / Condo Fee"},
			{"exp_electric", "Electric", "Electric"},
			{"exp_gas", "Gas/Fuel", "Gas / Fuel / Oil"},
			{"exp_water", "Water", "Water & Sewer"},
			{"exp_phone", "Phone", "Phone / Cell"},
			{"exp_trash", "Trash", "Trash"},
			{"exp_tv", "TV", "Television"},
			{"exp_internet", "Internet", "Internet"},
		})},
		{Title: "Food & Transportation", Fields: money([][3]string{
			{"exp_groceries", "Groceries", "Groceries"},
			{"exp_restaurants", "Restaurants", "Restaurants"},
			{"exp_carloan", "Car Loan", "Vehicle Loan/Lease"},
			{"exp_carmaint", "Car Maintenance", "Vehicle Maintenance"},
			{"exp_cargas", "Car Gas", "Gas (vehicle)"},
			{"exp_parking", "Parking", "Parking"},
		})},
		{Title: "Insurance & Health", Fields: money([][3]string{
			{"exp_life_ins", "Life Insurance", "Life Insurance"},
			{"exp_auto_ins", "Auto Insurance", "Auto Insurance"},
			{"exp_health_ins", "Health Insurance", "Health Insurance"},
			{"exp_doctors", "Physicians", "Physicians"},
			{"exp_dental", "Dental", "Dentist / Orthodontist"},
			{"exp_rx", "Prescriptions", "Prescriptions"},
		})},
		{Title: "Miscellaneous", Fields: money([][3]string{
			{"exp_spousal_paid", "Spousal Paid", "Spousal Support Paid"},
			{"exp_charity", "Charity", "Charitable Contributions"},
			{"exp_pets", "Pets", "Pets"},
			{"exp_attorney", "Attorney Fees", "Attorney Fees"},
			{"exp_travel", "Travel", "Travel / Vacations"},
			{"exp_other_amt", "Other Expenses", "Other"},
		})},
		{Fields: []Field{
			typed(KindTextArea, "exp_other_desc", "Other Expenses (desc)", "Describe any 'Other' expenses"),
		}},
	}}
}
