// Package profile defines the startup and investor records scored by the
// engine, plus decoding from generic records and profile files.
package profile

// Metrics are the traction signals of a startup. Percentages use a 0-100
// scale. Zero means "not reported" for every optional numeric field.
type Metrics struct {
	HasRevenue                      bool    `mapstructure:"has_revenue" json:"has_revenue" yaml:"has_revenue"`
	MRR                             float64 `mapstructure:"mrr" json:"mrr" yaml:"mrr"`
	HasCustomers                    bool    `mapstructure:"has_customers" json:"has_customers" yaml:"has_customers"`
	IsLaunched                      bool    `mapstructure:"is_launched" json:"is_launched" yaml:"is_launched"`
	GrowthRateMonthly               float64 `mapstructure:"growth_rate_monthly" json:"growth_rate_monthly" yaml:"growth_rate_monthly"`
	CustomerGrowthMonthly           float64 `mapstructure:"customer_growth_monthly" json:"customer_growth_monthly" yaml:"customer_growth_monthly"`
	NPSScore                        float64 `mapstructure:"nps_score" json:"nps_score" yaml:"nps_score"`
	UsersWhoWouldBeVeryDisappointed float64 `mapstructure:"users_who_would_be_very_disappointed" json:"users_who_would_be_very_disappointed" yaml:"users_who_would_be_very_disappointed"`
	NRR                             float64 `mapstructure:"nrr" json:"nrr" yaml:"nrr"`
	OrganicReferralRate             float64 `mapstructure:"organic_referral_rate" json:"organic_referral_rate" yaml:"organic_referral_rate"`
	PivotSpeedDays                  float64 `mapstructure:"pivot_speed_days" json:"pivot_speed_days" yaml:"pivot_speed_days"`
	DaysFromIdeaToMVP               float64 `mapstructure:"days_from_idea_to_mvp" json:"days_from_idea_to_mvp" yaml:"days_from_idea_to_mvp"`
	TimeToFirstRevenueMonths        float64 `mapstructure:"time_to_first_revenue_months" json:"time_to_first_revenue_months" yaml:"time_to_first_revenue_months"`
	DeploymentFrequency             string  `mapstructure:"deployment_frequency" json:"deployment_frequency" yaml:"deployment_frequency"`
	TotalGodScore                   float64 `mapstructure:"total_god_score" json:"total_god_score" yaml:"total_god_score"`

	// Provided is set by record decoding when the record carried a
	// non-empty metrics map, even if every value in it is zero.
	Provided bool `mapstructure:"-" json:"provided,omitempty" yaml:"-"`
}

// Reported is true when any metric is set or the metrics were provided
// explicitly.
func (m Metrics) Reported() bool {
	bare := m
	bare.Provided = false
	return m.Provided || bare != (Metrics{})
}

type FundingRound struct {
	RoundType string  `mapstructure:"round_type" json:"round_type" yaml:"round_type"`
	Date      string  `mapstructure:"date" json:"date" yaml:"date"`
	Amount    float64 `mapstructure:"amount" json:"amount" yaml:"amount"`
}

type StartupProfile struct {
	ID            string         `mapstructure:"id" json:"id" yaml:"id"`
	Name          string         `mapstructure:"name" json:"name" yaml:"name"`
	Description   string         `mapstructure:"description" json:"description,omitempty" yaml:"description"`
	Sectors       []string       `mapstructure:"sectors" json:"sectors" yaml:"sectors"`
	Stage         string         `mapstructure:"stage" json:"stage" yaml:"stage"`
	Metrics       Metrics        `mapstructure:"metrics" json:"metrics" yaml:"metrics"`
	FundingRounds []FundingRound `mapstructure:"funding_rounds" json:"funding_rounds,omitempty" yaml:"funding_rounds"`
}

type InvestorProfile struct {
	ID           string   `mapstructure:"id" json:"id" yaml:"id"`
	Name         string   `mapstructure:"name" json:"name" yaml:"name"`
	Firm         string   `mapstructure:"firm" json:"firm,omitempty" yaml:"firm"`
	Sectors      []string `mapstructure:"sectors" json:"sectors" yaml:"sectors"`
	StageFocus   []string `mapstructure:"stage_focus" json:"stage_focus" yaml:"stage_focus"`
	CheckSizeMin float64  `mapstructure:"check_size_min" json:"check_size_min" yaml:"check_size_min"`
	CheckSizeMax float64  `mapstructure:"check_size_max" json:"check_size_max" yaml:"check_size_max"`
	// Tier is the declared accessibility tier, 0 when undeclared.
	Tier int `mapstructure:"tier" json:"tier,omitempty" yaml:"tier"`
}

// Label returns the most descriptive identifier available for logs.
func (s StartupProfile) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

func (i InvestorProfile) Label() string {
	switch {
	case i.Name != "" && i.Firm != "":
		return i.Name + " (" + i.Firm + ")"
	case i.Name != "":
		return i.Name
	case i.Firm != "":
		return i.Firm
	}
	return i.ID
}
