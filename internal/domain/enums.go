package domain

// Canonical vocabularies shared by all site adapters. Values are the Bulgarian
// spellings used in the normalized CSV output, matching what the sites
// themselves display.

// OfferType is the kind of offer: sale or rent.
type OfferType string

const (
	OfferSale OfferType = "продава"
	OfferRent OfferType = "наем"
)

// PropertyType is the canonical property kind.
type PropertyType string

const (
	PropertyStudio          PropertyType = "студио"
	PropertyOneRoom         PropertyType = "едностаен"
	PropertyTwoRoom         PropertyType = "двустаен"
	PropertyThreeRoom       PropertyType = "тристаен"
	PropertyFourRoom        PropertyType = "четиристаен"
	PropertyMultiRoom       PropertyType = "многостаен"
	PropertyMaisonette      PropertyType = "мезонет"
	PropertyLand            PropertyType = "земя"
	PropertyHouse           PropertyType = "къща"
	PropertyOffice          PropertyType = "офис"
	PropertyStudioApartment PropertyType = "ателие"
	PropertyGarage          PropertyType = "гараж"
	PropertyParking         PropertyType = "паркомясто"
)

// City covers the major cities with dedicated neighborhood tables or enough
// listing volume to matter for deduplication.
type City string

const (
	CitySofia   City = "София"
	CityPlovdiv City = "Пловдив"
	CityVarna   City = "Варна"
	CityBurgas  City = "Бургас"
)

// Currency is a supported price currency.
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyBGN Currency = "BGN"
)

// BGNToEURRate is the fixed lev/euro peg used for price conversion.
const BGNToEURRate = 1.9558
