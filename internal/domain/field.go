package domain

// FieldKind selects the validation rule set applied to a field value.
type FieldKind string

const (
	KindRequiredText FieldKind = "required-text"
	KindEmail        FieldKind = "email"
	KindPhone        FieldKind = "phone"
	KindLongText     FieldKind = "long-text"
	KindSelect       FieldKind = "select"
)

// Step 1 field names
const (
	FieldFullName       = "fullName"
	FieldEmail          = "email"
	FieldPhone          = "phone"
	FieldOrgName        = "orgName"
	FieldOrgType        = "orgType"
	FieldTeamSize       = "teamSize"
	FieldPrimaryGame    = "primaryGame"
	FieldMonthlyRevenue = "monthlyRevenue"
	FieldMainChallenge  = "mainChallenge"
	FieldReferralSource = "referralSource"
)

// FieldSpec describes one input of the wizard.
type FieldSpec struct {
	Name      string
	Label     string
	Kind      FieldKind
	Required  bool
	MinLength int      // long-text only
	Options   []string // select only
}

// HasOption reports whether value is one of the allowed select options.
func (f FieldSpec) HasOption(value string) bool {
	for _, opt := range f.Options {
		if opt == value {
			return true
		}
	}
	return false
}

// Select options
var (
	OrgTypeOptions = []string{
		"esports_team",
		"gaming_studio",
		"content_creator",
		"tournament_organizer",
		"gaming_community",
		"other",
	}
	TeamSizeOptions = []string{
		"1-5",
		"6-15",
		"16-50",
		"51-200",
		"200+",
	}
	MonthlyRevenueOptions = []string{
		"pre_revenue",
		"under_1l",
		"1l_5l",
		"5l_25l",
		"25l_plus",
	}
	ReferralSourceOptions = []string{
		"google",
		"social_media",
		"referral",
		"event",
		"other",
	}
)

// OptionLabels maps select option values to their display text.
var OptionLabels = map[string]string{
	"esports_team":         "Esports Team",
	"gaming_studio":        "Gaming Studio",
	"content_creator":      "Content Creator",
	"tournament_organizer": "Tournament Organizer",
	"gaming_community":     "Gaming Community",
	"pre_revenue":          "Pre-revenue",
	"under_1l":             "Under ₹1 Lakh",
	"1l_5l":                "₹1-5 Lakh",
	"5l_25l":               "₹5-25 Lakh",
	"25l_plus":             "₹25 Lakh+",
	"google":               "Google Search",
	"social_media":         "Social Media",
	"referral":             "Referral",
	"event":                "Event",
	"other":                "Other",
}

// DisplayValue returns the text shown to the user for a field value.
func DisplayValue(value string) string {
	if label, ok := OptionLabels[value]; ok {
		return label
	}
	return value
}

// Step1Fields is the ordered list of qualification fields collected on step 1.
var Step1Fields = []FieldSpec{
	{Name: FieldFullName, Label: "Full Name", Kind: KindRequiredText, Required: true},
	{Name: FieldEmail, Label: "Email", Kind: KindEmail, Required: true},
	{Name: FieldPhone, Label: "Phone", Kind: KindPhone, Required: true},
	{Name: FieldOrgName, Label: "Organization", Kind: KindRequiredText, Required: true},
	{Name: FieldOrgType, Label: "Type", Kind: KindSelect, Required: true, Options: OrgTypeOptions},
	{Name: FieldTeamSize, Label: "Team Size", Kind: KindSelect, Required: true, Options: TeamSizeOptions},
	{Name: FieldPrimaryGame, Label: "Primary Game", Kind: KindRequiredText, Required: true},
	{Name: FieldMonthlyRevenue, Label: "Monthly Revenue", Kind: KindSelect, Required: true, Options: MonthlyRevenueOptions},
	{Name: FieldMainChallenge, Label: "Main Challenge", Kind: KindLongText, Required: true, MinLength: MainChallengeMinLength},
	{Name: FieldReferralSource, Label: "Referral Source", Kind: KindSelect, Required: true, Options: ReferralSourceOptions},
}

// LookupField returns the step 1 field spec by name.
func LookupField(name string) (FieldSpec, bool) {
	for _, f := range Step1Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}
