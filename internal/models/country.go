// ABOUTME: Country reference data: currency strategy, terrain packs, payment info and profiles
package models

import "encoding/json"

type Country struct {
	IsoCode           string   `json:"isoCode"`
	NameCN            string   `json:"nameCN"`
	NameEN            string   `json:"nameEN"`
	CurrencyCode      string   `json:"currencyCode"`
	CurrencyName      string   `json:"currencyName"`
	PaymentType       string   `json:"paymentType"`
	ExchangeRateToCNY *float64 `json:"exchangeRateToCNY,omitempty"`
	ExchangeRateToUSD *float64 `json:"exchangeRateToUSD,omitempty"`
}

type CountryList struct {
	Countries []Country `json:"countries"`
	Total     int       `json:"total"`
	HasMore   bool      `json:"hasMore,omitempty"`
	Limit     int       `json:"limit,omitempty"`
	Offset    int       `json:"offset,omitempty"`
}

type CountryQuery struct {
	Q      string
	Limit  int
	Offset int
}

type PaymentAdvice struct {
	Tipping         string   `json:"tipping,omitempty"`
	ATMNetwork      string   `json:"atm_network,omitempty"`
	WalletApps      []string `json:"wallet_apps,omitempty"`
	CashPreparation string   `json:"cash_preparation,omitempty"`
}

type QuickRate struct {
	Local float64 `json:"local"`
	Home  float64 `json:"home"`
}

type CurrencyStrategy struct {
	CountryCode       string         `json:"countryCode"`
	CountryName       string         `json:"countryName"`
	CurrencyCode      string         `json:"currencyCode"`
	CurrencyName      string         `json:"currencyName"`
	PaymentType       string         `json:"paymentType"`
	ExchangeRateToCNY *float64       `json:"exchangeRateToCNY,omitempty"`
	ExchangeRateToUSD *float64       `json:"exchangeRateToUSD,omitempty"`
	QuickRule         string         `json:"quickRule,omitempty"`
	QuickTip          string         `json:"quickTip,omitempty"`
	QuickTable        []QuickRate    `json:"quickTable,omitempty"`
	PaymentAdvice     *PaymentAdvice `json:"paymentAdvice,omitempty"`
}

type RiskThresholds struct {
	HighAltitudeM *float64 `json:"highAltitudeM,omitempty"`
	RapidAscentM  *float64 `json:"rapidAscentM,omitempty"`
	SteepSlopePct *float64 `json:"steepSlopePct,omitempty"`
	BigAscentDayM *float64 `json:"bigAscentDayM,omitempty"`
}

type EffortLevelMapping struct {
	RelaxMax     *float64 `json:"relaxMax,omitempty"`
	ModerateMax  *float64 `json:"moderateMax,omitempty"`
	ChallengeMax *float64 `json:"challengeMax,omitempty"`
	ExtremeMin   *float64 `json:"extremeMin,omitempty"`
}

type TerrainConstraints struct {
	FirstDayMaxElevationM        *float64 `json:"firstDayMaxElevationM,omitempty"`
	MaxDailyAscentM              *float64 `json:"maxDailyAscentM,omitempty"`
	MaxConsecutiveHighAscentDays *int     `json:"maxConsecutiveHighAscentDays,omitempty"`
	HighAltitudeBufferHours      *float64 `json:"highAltitudeBufferHours,omitempty"`
}

type CountryPack struct {
	CountryCode        string              `json:"countryCode"`
	CountryName        string              `json:"countryName"`
	RiskThresholds     *RiskThresholds     `json:"riskThresholds,omitempty"`
	EffortLevelMapping *EffortLevelMapping `json:"effortLevelMapping,omitempty"`
	TerrainConstraints *TerrainConstraints `json:"terrainConstraints,omitempty"`
}

type PaymentInfo struct {
	CountryCode string `json:"countryCode"`
	CountryName string `json:"countryName"`
	Currency    struct {
		Code              string      `json:"code"`
		Name              string      `json:"name"`
		ExchangeRateToCNY *float64    `json:"exchangeRateToCNY,omitempty"`
		ExchangeRateToUSD *float64    `json:"exchangeRateToUSD,omitempty"`
		QuickRule         string      `json:"quickRule,omitempty"`
		QuickTable        []QuickRate `json:"quickTable,omitempty"`
	} `json:"currency"`
	PaymentMethods struct {
		Type   string         `json:"type"`
		Advice *PaymentAdvice `json:"advice,omitempty"`
	} `json:"paymentMethods"`
	PracticalTips struct {
		Tipping         string   `json:"tipping,omitempty"`
		ATMNetworks     string   `json:"atmNetworks,omitempty"`
		WalletApps      []string `json:"walletApps,omitempty"`
		CashPreparation string   `json:"cashPreparation,omitempty"`
	} `json:"practicalTips"`
}

type TerrainAdvice struct {
	CountryCode          string          `json:"countryCode"`
	TerrainConfig        json.RawMessage `json:"terrainConfig"`
	AdaptationStrategies struct {
		HighAltitude string `json:"highAltitude"`
		RouteRisk    string `json:"routeRisk"`
	} `json:"adaptationStrategies"`
}

// CountryProfile is served as an aggregate document whose sections evolve server-side.
type CountryProfile map[string]json.RawMessage
