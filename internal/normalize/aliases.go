package normalize

import (
	"sort"
	"strings"

	"github.com/imotstat/go-estate-crawler/internal/domain"
)

// aliasTable maps lowercased free-text tokens to canonical values and supports
// exact and substring lookup. Substring matching prefers the longest alias;
// equal-length aliases resolve to the lexicographically smaller one, so lookup
// order never depends on map iteration.
type aliasTable struct {
	entries map[string]string
	ordered []string
}

func newAliasTable(entries map[string]string) *aliasTable {
	ordered := make([]string, 0, len(entries))
	for alias := range entries {
		ordered = append(ordered, alias)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if len(ordered[i]) != len(ordered[j]) {
			return len(ordered[i]) > len(ordered[j])
		}
		return ordered[i] < ordered[j]
	})
	return &aliasTable{entries: entries, ordered: ordered}
}

// exact looks up an already lowercased, trimmed token.
func (t *aliasTable) exact(token string) (string, bool) {
	v, ok := t.entries[token]
	return v, ok
}

// substring scans lowercased text for any alias occurrence, longest first.
func (t *aliasTable) substring(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	for _, alias := range t.ordered {
		if strings.Contains(text, alias) {
			return t.entries[alias], true
		}
	}
	return "", false
}

var offerTypeAliases = newAliasTable(map[string]string{
	// Bulgarian text
	"продава":       string(domain.OfferSale),
	"продажба":      string(domain.OfferSale),
	"продаван":      string(domain.OfferSale),
	"за продажба":   string(domain.OfferSale),
	"продажби":      string(domain.OfferSale),
	"наем":          string(domain.OfferRent),
	"под наем":      string(domain.OfferRent),
	"дава под наем": string(domain.OfferRent),
	"наеми":         string(domain.OfferRent),
	// URL slugs (transliterated)
	"prodava":       string(domain.OfferSale),
	"prodajba":      string(domain.OfferSale),
	"prodazhba":     string(domain.OfferSale),
	"prodazhbi":     string(domain.OfferSale),
	"prodajbi":      string(domain.OfferSale),
	"naem":          string(domain.OfferRent),
	"pod-naem":      string(domain.OfferRent),
	"dava-pod-naem": string(domain.OfferRent),
	"naemi":         string(domain.OfferRent),
	// API values (homes.bg)
	"sell":          string(domain.OfferSale),
	"apartmentsell": string(domain.OfferSale),
	"housesell":     string(domain.OfferSale),
	"landsell":      string(domain.OfferSale),
	"landagro":      string(domain.OfferSale),
	"rent":          string(domain.OfferRent),
	"apartmentrent": string(domain.OfferRent),
	"houserent":     string(domain.OfferRent),
})

var propertyTypeAliases = newAliasTable(map[string]string{
	// Bulgarian text
	"студио":           string(domain.PropertyStudio),
	"едностаен":        string(domain.PropertyOneRoom),
	"1-стаен":          string(domain.PropertyOneRoom),
	"1 стаен":          string(domain.PropertyOneRoom),
	"двустаен":         string(domain.PropertyTwoRoom),
	"2-стаен":          string(domain.PropertyTwoRoom),
	"2 стаен":          string(domain.PropertyTwoRoom),
	"тристаен":         string(domain.PropertyThreeRoom),
	"3-стаен":          string(domain.PropertyThreeRoom),
	"3 стаен":          string(domain.PropertyThreeRoom),
	"четиристаен":      string(domain.PropertyFourRoom),
	"4-стаен":          string(domain.PropertyFourRoom),
	"4 стаен":          string(domain.PropertyFourRoom),
	"многостаен":       string(domain.PropertyMultiRoom),
	"5-стаен":          string(domain.PropertyMultiRoom),
	"5 стаен":          string(domain.PropertyMultiRoom),
	"мезонет":          string(domain.PropertyMaisonette),
	"мезонети":         string(domain.PropertyMaisonette),
	"земя":             string(domain.PropertyLand),
	"земеделска":       string(domain.PropertyLand),
	"земеделска земя":  string(domain.PropertyLand),
	"парцел":           string(domain.PropertyLand),
	"къща":             string(domain.PropertyHouse),
	"вила":             string(domain.PropertyHouse),
	"офис":             string(domain.PropertyOffice),
	"ателие":           string(domain.PropertyStudioApartment),
	"гараж":            string(domain.PropertyGarage),
	"паркомясто":       string(domain.PropertyParking),
	// URL slugs
	"studio":          string(domain.PropertyStudio),
	"ednostaen":       string(domain.PropertyOneRoom),
	"ednostayn":       string(domain.PropertyOneRoom),
	"ednostayni":      string(domain.PropertyOneRoom),
	"dvustaen":        string(domain.PropertyTwoRoom),
	"dvustayn":        string(domain.PropertyTwoRoom),
	"dvustayni":       string(domain.PropertyTwoRoom),
	"dvustaini":       string(domain.PropertyTwoRoom),
	"tristaen":        string(domain.PropertyThreeRoom),
	"tristayn":        string(domain.PropertyThreeRoom),
	"tristayni":       string(domain.PropertyThreeRoom),
	"tristaini":       string(domain.PropertyThreeRoom),
	"chetiristaen":    string(domain.PropertyFourRoom),
	"chetiristayn":    string(domain.PropertyFourRoom),
	"chetiristayni":   string(domain.PropertyFourRoom),
	"chetiristaini":   string(domain.PropertyFourRoom),
	"mnogostaen":      string(domain.PropertyMultiRoom),
	"mnogostayn":      string(domain.PropertyMultiRoom),
	"mnogostayni":     string(domain.PropertyMultiRoom),
	"mezonet":         string(domain.PropertyMaisonette),
	"mezoneti":        string(domain.PropertyMaisonette),
	"zemedelska":      string(domain.PropertyLand),
	"zemedelski-zemi": string(domain.PropertyLand),
	"zemya":           string(domain.PropertyLand),
	"kashta":          string(domain.PropertyHouse),
	"kashti":          string(domain.PropertyHouse),
	"ofis":            string(domain.PropertyOffice),
	"atelie":          string(domain.PropertyStudioApartment),
	"garazh":          string(domain.PropertyGarage),
	"parkomyasto":     string(domain.PropertyParking),
})

var cityAliases = newAliasTable(map[string]string{
	"софия":        string(domain.CitySofia),
	"гр. софия":    string(domain.CitySofia),
	"град софия":   string(domain.CitySofia),
	"гр.софия":     string(domain.CitySofia),
	"пловдив":      string(domain.CityPlovdiv),
	"гр. пловдив":  string(domain.CityPlovdiv),
	"град пловдив": string(domain.CityPlovdiv),
	"гр.пловдив":   string(domain.CityPlovdiv),
	"варна":        string(domain.CityVarna),
	"гр. варна":    string(domain.CityVarna),
	"град варна":   string(domain.CityVarna),
	"бургас":       string(domain.CityBurgas),
	"гр. бургас":   string(domain.CityBurgas),
	"град бургас":  string(domain.CityBurgas),
	// Transliterated
	"sofia":        string(domain.CitySofia),
	"sofiya":       string(domain.CitySofia),
	"grad-sofiya":  string(domain.CitySofia),
	"grad-sofia":   string(domain.CitySofia),
	"plovdiv":      string(domain.CityPlovdiv),
	"grad-plovdiv": string(domain.CityPlovdiv),
	"varna":        string(domain.CityVarna),
	"grad-varna":   string(domain.CityVarna),
	"burgas":       string(domain.CityBurgas),
	"grad-burgas":  string(domain.CityBurgas),
})

// Currency aliases are kept as two plain lists because detection has a fixed
// priority: EUR wins when a price line shows both currencies.
var (
	eurAliases = []string{"€", "eur", "евро", "euro"}
	bgnAliases = []string{"лв", "лв.", "bgn", "лева"}
)

var sofiaNeighborhoodAliases = newAliasTable(map[string]string{
	"лозенец":              "Лозенец",
	"кв. лозенец":          "Лозенец",
	"кв.лозенец":           "Лозенец",
	"център":               "Център",
	"центъра":              "Център",
	"иван вазов":           "Иван Вазов",
	"ив. вазов":            "Иван Вазов",
	"ив.вазов":             "Иван Вазов",
	"оборище":              "Оборище",
	"дианабад":             "Дианабад",
	"изток":                "Изток",
	"изгрев":               "Изгрев",
	"яворов":               "Яворов",
	"борово":               "Борово",
	"гоце делчев":          "Гоце Делчев",
	"г. делчев":            "Гоце Делчев",
	"г.делчев":             "Гоце Делчев",
	"стрелбище":            "Стрелбище",
	"хиподрума":            "Хиподрума",
	"хладилника":           "Хладилника",
	"пз хладилника":        "Хладилника",
	"белите брези":         "Белите брези",
	"бели брези":           "Бели брези",
	"витоша":               "Витоша",
	"манастирски ливади":   "Манастирски ливади",
	"студентски град":      "Студентски град",
	"студентски":           "Студентски град",
	"младост":              "Младост",
	"младост 1":            "Младост 1",
	"младост 2":            "Младост 2",
	"младост 3":            "Младост 3",
	"младост 4":            "Младост 4",
	"дружба":               "Дружба",
	"дружба 1":             "Дружба 1",
	"дружба 2":             "Дружба 2",
	"люлин":                "Люлин",
	"надежда":              "Надежда",
	"надежда 1":            "Надежда 1",
	"надежда 2":            "Надежда 2",
	"надежда 3":            "Надежда 3",
	"надежда 4":            "Надежда 4",
	"слатина":              "Слатина",
	"гео милев":            "Гео Милев",
	"редута":               "Редута",
	"подуяне":              "Подуяне",
	"подуене":              "Подуяне",
	"кръстова вада":        "Кръстова вада",
	"малинова долина":      "Малинова долина",
	"драгалевци":           "Драгалевци",
	"бояна":                "Бояна",
	"симеоново":            "Симеоново",
	"княжево":              "Княжево",
	"овча купел":           "Овча купел",
	"красно село":          "Красно село",
	"лагера":               "Лагера",
	"бъкстон":              "Бъкстон",
	"павлово":              "Павлово",
	"хаджи димитър":        "Хаджи Димитър",
	"х. димитър":           "Хаджи Димитър",
	"левски":               "Левски",
	"левски г":             "Левски Г",
	"левски в":             "Левски В",
	"сухата река":          "Сухата река",
	"суха река":            "Сухата река",
	"банишора":             "Банишора",
	"докторски паметник":   "Докторски паметник",
	"докторски":            "Докторски паметник",
	"дървеница":            "Дървеница",
	"мусагеница":           "Мусагеница",
	"медицинска академия":  "Медицинска академия",
	"борисова градина":     "Борисова градина",
	"крива река":           "Крива река",
	"модерно предградие":   "Модерно предградие",
	"зона б-5":             "Зона Б-5",
	"зона б5":              "Зона Б-5",
	"зона б-18":            "Зона Б-18",
	"зона б-19":            "Зона Б-19",
	"света троица":         "Света Троица",
	"св. троица":           "Света Троица",
	"сердика":              "Сердика",
	"триъгълника":          "Триъгълника",
	"полигона":             "Полигона",
	"мотописта":            "Мотописта",
	"свобода":              "Свобода",
	"толстой":              "Толстой",
	"фондови жилища":       "Фондови жилища",
	"западен парк":         "Западен парк",
	"разсадника":           "Разсадника",
	"карпузица":            "Карпузица",
	"илинден":              "Илинден",
	"бенковски":            "Бенковски",
	"орландовци":           "Орландовци",
	"малашевци":            "Малашевци",
	"христо смирненски":    "Христо Смирненски",
	"хр. смирненски":       "Христо Смирненски",
	"горна баня":           "Горна баня",
	"банкя":                "Банкя",
	"илиянци":              "Илиянци",
	"враждебна":            "Враждебна",
	"ботунец":              "Ботунец",
	"панчарево":            "Панчарево",
	"бистрица":             "Бистрица",
	"германа":              "Германа",
	// Transliterated
	"lozenets":           "Лозенец",
	"tsentar":            "Център",
	"centar":             "Център",
	"ivan-vazov":         "Иван Вазов",
	"oborishte":          "Оборище",
	"dianabad":           "Дианабад",
	"iztok":              "Изток",
	"izgrev":             "Изгрев",
	"yavorov":            "Яворов",
	"borovo":             "Борово",
	"gotse-delchev":      "Гоце Делчев",
	"strelbishte":        "Стрелбище",
	"hipodruma":          "Хиподрума",
	"hladilnika":         "Хладилника",
	"vitosha":            "Витоша",
	"manastirski-livadi": "Манастирски ливади",
	"studentski-grad":    "Студентски град",
	"mladost":            "Младост",
	"druzhba":            "Дружба",
	"lyulin":             "Люлин",
	"nadezhda":           "Надежда",
	"slatina":            "Слатина",
	"geo-milev":          "Гео Милев",
	"reduta":             "Редута",
	"poduyane":           "Подуяне",
	"krastova-vada":      "Кръстова вада",
	"malinova-dolina":    "Малинова долина",
	"dragalevtsi":        "Драгалевци",
	"boyana":             "Бояна",
	"simeonovo":          "Симеоново",
	"knyazhevo":          "Княжево",
	"ovcha-kupel":        "Овча купел",
	"krasno-selo":        "Красно село",
	"lagera":             "Лагера",
	"bukston":            "Бъкстон",
	"pavlovo":            "Павлово",
	"hadji-dimitar":      "Хаджи Димитър",
	"levski":             "Левски",
	"suha-reka":          "Сухата река",
	"banishora":          "Банишора",
})

var plovdivNeighborhoodAliases = newAliasTable(map[string]string{
	"център":                 "Център",
	"центъра":                "Център",
	"каменица 1":             "Каменица 1",
	"каменица 2":             "Каменица 2",
	"каменица":               "Каменица 1",
	"мараша":                 "Мараша",
	"младежки хълм":          "Младежки хълм",
	"кършияка":               "Кършияка",
	"тракия":                 "Тракия",
	"смирненски":             "Смирненски",
	"христо смирненски":      "Христо Смирненски",
	"хр. смирненски":         "Смирненски",
	"гребна база":            "Гребна база",
	"въстанически":           "Въстанически",
	"христо ботев":           "Христо Ботев",
	"хр. ботев":              "Христо Ботев",
	"южен":                   "Южен",
	"кючук париж":            "Кючук Париж",
	"гагарин":                "Гагарин",
	"изгрев":                 "Изгрев",
	"захарна фабрика":        "Захарна фабрика",
	"централна гара":         "Централна гара",
	"беломорски":             "Беломорски",
	"вми":                    "ВМИ",
	"пещерско шосе":          "Пещерско шосе",
	"отдих и култура":        "Отдих и Култура",
	"рогошко шосе":           "Рогошко шосе",
	"бунарджика":             "Бунарджика",
	"карловско шосе":         "Карловско шосе",
	"тодор каблешков":        "Тодор Каблешков",
	"цар симеон":             "Цар Симеон",
	"индустриална зона":      "Индустриална зона",
	"батак":                  "Батак",
	"пловдивски университет": "Пловдивски университет",
	"съдийски":               "Съдийски",
	"капана":                 "Капана",
	"филипово":               "Филипово",
	"прослав":                "Прослав",
	"коматево":               "Коматево",
	"остромила":              "Остромила",
	"столипиново":            "Столипиново",
	// Transliterated
	"tsentar":       "Център",
	"centar":        "Център",
	"kamenitsa":     "Каменица 1",
	"marasha":       "Мараша",
	"mladejki-halm": "Младежки хълм",
	"karshiyaka":    "Кършияка",
	"trakia":        "Тракия",
	"smirnenski":    "Смирненски",
	"grebna-baza":   "Гребна база",
	"yuzhen":        "Южен",
	"gagarin":       "Гагарин",
	"izgrev":        "Изгрев",
	"kapana":        "Капана",
})

// knownAgencies canonicalizes agency names that appear under several spellings
// across sites.
var knownAgencies = map[string]string{
	"bulgarian properties": "Bulgarian Properties",
	"bulgarianproperties":  "Bulgarian Properties",
	"suprimmo":             "Suprimmo",
	"luximmo":              "Luximmo",
	"arco real estate":     "Arco Real Estate",
	"arco":                 "Arco Real Estate",
	"address":              "Address",
	"явлена":               "Явлена",
	"yavlena":              "Явлена",
	"мирела":               "Мирела",
	"mirela":               "Мирела",
	"имоти бг":             "Имоти БГ",
	"era":                  "ERA",
	"century 21":           "Century 21",
	"century21":            "Century 21",
	"re/max":               "RE/MAX",
	"remax":                "RE/MAX",
	"home tour":            "Home Tour",
	"imoti.net":            "Imoti.net",
	"homes.bg":             "Homes.bg",
	"imot.bg":              "Imot.bg",
	"частно лице":          "Частно лице",
	"частен":               "Частно лице",
	"private":              "Частно лице",
}
