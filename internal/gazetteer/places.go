package gazetteer

// suburbMetros maps suburbs and small cities to the metro used for vehicle
// search. Ambiguous names carry their state ("glendale az") so the combined
// key disambiguates.
var suburbMetros = map[string]string{
	// Phoenix
	"mesa": "Phoenix", "scottsdale": "Phoenix", "tempe": "Phoenix", "chandler": "Phoenix",
	"gilbert": "Phoenix", "glendale az": "Phoenix", "peoria az": "Phoenix", "surprise": "Phoenix",
	"goodyear": "Phoenix", "avondale": "Phoenix", "buckeye": "Phoenix", "queen creek": "Phoenix",
	"fountain hills": "Phoenix", "cave creek": "Phoenix", "paradise valley": "Phoenix",
	"sun city": "Phoenix", "apache junction": "Phoenix", "litchfield park": "Phoenix",
	"ahwatukee": "Phoenix", "maricopa": "Phoenix",

	// Chicago
	"naperville": "Chicago", "aurora il": "Chicago", "schaumburg": "Chicago", "evanston": "Chicago",
	"oak brook": "Chicago", "oak park": "Chicago", "joliet": "Chicago", "elgin": "Chicago",
	"skokie": "Chicago", "arlington heights": "Chicago", "palatine": "Chicago", "bolingbrook": "Chicago",
	"orland park": "Chicago", "tinley park": "Chicago", "downers grove": "Chicago", "wheaton": "Chicago",
	"des plaines": "Chicago", "hoffman estates": "Chicago", "cicero": "Chicago", "berwyn": "Chicago",
	"oak lawn": "Chicago", "lombard": "Chicago", "elmhurst": "Chicago", "rosemont": "Chicago",
	"plainfield il": "Chicago", "itasca": "Chicago",

	// Dallas / Fort Worth
	"plano": "Dallas", "frisco": "Dallas", "irving": "Dallas", "arlington tx": "Dallas",
	"garland": "Dallas", "mckinney": "Dallas", "richardson": "Dallas", "carrollton": "Dallas",
	"grand prairie": "Dallas", "mesquite": "Dallas", "denton": "Dallas", "allen": "Dallas",
	"lewisville": "Dallas", "flower mound": "Dallas", "grapevine": "Dallas", "southlake": "Dallas",
	"addison": "Dallas", "rockwall": "Dallas", "prosper": "Dallas", "fort worth": "Dallas",
	"keller": "Dallas", "coppell": "Dallas",

	// Houston
	"sugar land": "Houston", "katy": "Houston", "the woodlands": "Houston", "pearland": "Houston",
	"pasadena tx": "Houston", "baytown": "Houston", "league city": "Houston", "cypress": "Houston",
	"spring tx": "Houston", "humble": "Houston", "conroe": "Houston", "missouri city": "Houston",
	"kingwood": "Houston", "tomball": "Houston", "galveston": "Houston",

	// Atlanta
	"marietta": "Atlanta", "alpharetta": "Atlanta", "roswell": "Atlanta", "sandy springs": "Atlanta",
	"decatur ga": "Atlanta", "smyrna": "Atlanta", "dunwoody": "Atlanta", "kennesaw": "Atlanta",
	"duluth ga": "Atlanta", "lawrenceville": "Atlanta", "buckhead": "Atlanta", "peachtree city": "Atlanta",

	// Denver
	"aurora co": "Denver", "lakewood co": "Denver", "littleton": "Denver", "boulder": "Denver",
	"englewood co": "Denver", "arvada": "Denver", "westminster co": "Denver", "thornton": "Denver",
	"centennial": "Denver", "highlands ranch": "Denver", "parker": "Denver", "castle rock": "Denver",
	"broomfield": "Denver", "golden": "Denver",

	// Las Vegas
	"henderson": "Las Vegas", "north las vegas": "Las Vegas", "summerlin": "Las Vegas",
	"boulder city": "Las Vegas", "paradise nv": "Las Vegas", "spring valley nv": "Las Vegas",

	// Los Angeles
	"santa monica": "Los Angeles", "pasadena ca": "Los Angeles", "long beach": "Los Angeles",
	"burbank": "Los Angeles", "glendale ca": "Los Angeles", "torrance": "Los Angeles",
	"beverly hills": "Los Angeles", "malibu": "Los Angeles", "inglewood": "Los Angeles",
	"anaheim": "Los Angeles", "irvine": "Los Angeles", "santa ana": "Los Angeles",
	"huntington beach": "Los Angeles", "west hollywood": "Los Angeles",

	// San Diego
	"chula vista": "San Diego", "carlsbad": "San Diego", "oceanside": "San Diego",
	"escondido": "San Diego", "la jolla": "San Diego", "el cajon": "San Diego", "encinitas": "San Diego",

	// Austin / San Antonio
	"round rock": "Austin", "cedar park": "Austin", "georgetown tx": "Austin", "pflugerville": "Austin",
	"leander": "Austin", "san marcos": "Austin", "new braunfels": "San Antonio", "boerne": "San Antonio",

	// Nashville
	"franklin tn": "Nashville", "brentwood tn": "Nashville", "murfreesboro": "Nashville",
	"hendersonville": "Nashville", "mount juliet": "Nashville", "smyrna tn": "Nashville",

	// Orlando / Tampa / Miami
	"kissimmee": "Orlando", "winter park": "Orlando", "sanford fl": "Orlando", "lake buena vista": "Orlando",
	"clearwater": "Tampa", "st petersburg": "Tampa", "brandon fl": "Tampa", "wesley chapel": "Tampa",
	"fort lauderdale": "Miami", "hollywood fl": "Miami", "boca raton": "Miami", "coral gables": "Miami",
	"miami beach": "Miami", "hialeah": "Miami", "doral": "Miami",
}

// cityKeywords are metros (and common shorthand for them) recognized on their own
var cityKeywords = map[string]string{
	"phoenix": "Phoenix", "phx": "Phoenix",
	"chicago": "Chicago", "chi": "Chicago", "chitown": "Chicago",
	"dallas": "Dallas", "dfw": "Dallas",
	"houston": "Houston", "htown": "Houston",
	"atlanta": "Atlanta", "atl": "Atlanta",
	"denver": "Denver",
	"las vegas": "Las Vegas", "vegas": "Las Vegas",
	"los angeles": "Los Angeles",
	"san diego": "San Diego",
	"austin": "Austin",
	"san antonio": "San Antonio",
	"nashville": "Nashville",
	"orlando": "Orlando",
	"tampa": "Tampa",
	"miami": "Miami",
	"seattle": "Seattle",
	"portland": "Portland",
	"detroit": "Detroit",
	"minneapolis": "Minneapolis",
	"st louis": "St. Louis", "saint louis": "St. Louis",
	"kansas city": "Kansas City",
	"new york": "New York", "nyc": "New York",
	"boston": "Boston",
	"philadelphia": "Philadelphia", "philly": "Philadelphia",
	"charlotte": "Charlotte",
	"new orleans": "New Orleans", "nola": "New Orleans",
	"salt lake city": "Salt Lake City",
	"tucson": "Tucson",
	"albuquerque": "Albuquerque",
	"indianapolis": "Indianapolis",
	"columbus": "Columbus",
	"cleveland": "Cleveland",
	"milwaukee": "Milwaukee",
	"san francisco": "San Francisco", "sf": "San Francisco",
	"sacramento": "Sacramento",
	"baltimore": "Baltimore",
	"washington dc": "Washington", "dc": "Washington",
}

var stateAbbrevs = map[string]string{
	"al": "Alabama", "ak": "Alaska", "az": "Arizona", "ar": "Arkansas", "ca": "California",
	"co": "Colorado", "ct": "Connecticut", "de": "Delaware", "fl": "Florida", "ga": "Georgia",
	"hi": "Hawaii", "id": "Idaho", "il": "Illinois", "in": "Indiana", "ia": "Iowa",
	"ks": "Kansas", "ky": "Kentucky", "la": "Louisiana", "me": "Maine", "md": "Maryland",
	"ma": "Massachusetts", "mi": "Michigan", "mn": "Minnesota", "ms": "Mississippi", "mo": "Missouri",
	"mt": "Montana", "ne": "Nebraska", "nv": "Nevada", "nh": "New Hampshire", "nj": "New Jersey",
	"nm": "New Mexico", "ny": "New York", "nc": "North Carolina", "nd": "North Dakota", "oh": "Ohio",
	"ok": "Oklahoma", "or": "Oregon", "pa": "Pennsylvania", "ri": "Rhode Island", "sc": "South Carolina",
	"sd": "South Dakota", "tn": "Tennessee", "tx": "Texas", "ut": "Utah", "vt": "Vermont",
	"va": "Virginia", "wa": "Washington", "wv": "West Virginia", "wi": "Wisconsin", "wy": "Wyoming",
}
