package gazetteer

var venueKeywords = []string{
	"topgolf", "airport", "terminal", "hotel", "motel", "inn", "resort", "casino", "restaurant",
	"grill", "steakhouse", "cafe", "bar", "pub", "tavern", "lounge", "nightclub", "club",
	"brewery", "winery", "vineyard", "distillery", "church", "chapel", "cathedral", "temple",
	"mosque", "synagogue", "stadium", "arena", "ballpark", "field", "park", "mall", "plaza",
	"hall", "ballroom", "banquet", "venue", "center", "centre", "theater", "theatre", "museum",
	"school", "academy", "university", "college", "campus", "hospital", "station", "depot",
	"marina", "pier", "garden", "gardens", "estate", "ranch", "barn", "lodge", "manor",
	"marriott", "hilton", "hyatt", "sheraton", "westin", "embassy", "doubletree", "fairmont",
	"omni", "ritz", "wynn", "bellagio", "caesars", "aria", "venetian", "cosmopolitan",
	"house", "building", "tower", "office", "headquarters", "hq",
}

var streetWords = []string{
	"st", "street", "ave", "avenue", "rd", "road", "blvd", "boulevard", "dr", "drive", "ln", "lane",
	"way", "pkwy", "parkway", "hwy", "highway", "ct", "court", "pl", "place", "cir", "circle",
	"ter", "terrace", "trl", "trail", "loop", "sq", "square",
}

var eventAliases = []Alias{
	{"wedding", "Wedding"},
	{"reception", "Wedding"},
	{"prom", "Prom"},
	{"homecoming", "Homecoming"},
	{"hoco", "Homecoming"},
	{"birthday", "Birthday"},
	{"bday", "Birthday"},
	{"sweet 16", "Birthday"},
	{"sweet sixteen", "Birthday"},
	{"quinceanera", "Quinceanera"},
	{"quince", "Quinceanera"},
	{"bachelor party", "Bachelor Party"},
	{"bachelor", "Bachelor Party"},
	{"bachelorette", "Bachelorette Party"},
	{"anniversary", "Anniversary"},
	{"graduation", "Graduation"},
	{"grad party", "Graduation"},
	{"funeral", "Funeral"},
	{"concert", "Concert"},
	{"wine tour", "Wine Tour"},
	{"brewery tour", "Brewery Tour"},
	{"bar crawl", "Bar Crawl"},
	{"pub crawl", "Bar Crawl"},
	{"night out", "Night Out"},
	{"girls night", "Night Out"},
	{"date night", "Night Out"},
	{"corporate", "Corporate"},
	{"holiday party", "Holiday Party"},
	{"christmas party", "Holiday Party"},
	{"retirement", "Retirement Party"},
	{"game day", "Sporting Event"},
	{"tailgate", "Sporting Event"},
	{"field trip", "Field Trip"},
	{"airport transfer", "Airport Transfer"},
	{"formal", "Formal"},
}

var vehicleAliases = []Alias{
	{"party bus", "Party Bus"},
	{"partybus", "Party Bus"},
	{"limo bus", "Limo Bus"},
	{"hummer limo", "Hummer Limo"},
	{"hummer", "Hummer Limo"},
	{"escalade limo", "SUV Limo"},
	{"suv limo", "SUV Limo"},
	{"stretch", "Limousine"},
	{"limousine", "Limousine"},
	{"limo", "Limousine"},
	{"sprinter", "Sprinter Van"},
	{"executive van", "Sprinter Van"},
	{"shuttle", "Shuttle Bus"},
	{"motor coach", "Motor Coach"},
	{"motorcoach", "Motor Coach"},
	{"charter bus", "Charter Bus"},
	{"coach bus", "Motor Coach"},
	{"trolley", "Trolley"},
	{"suv", "SUV"},
	{"escalade", "SUV"},
	{"suburban", "SUV"},
	{"sedan", "Sedan"},
	{"town car", "Sedan"},
	{"rolls royce", "Rolls Royce"},
	{"bentley", "Bentley"},
	{"van", "Van"},
}
