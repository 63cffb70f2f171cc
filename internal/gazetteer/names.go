package gazetteer

var firstNames = []string{
	"aaron", "adam", "adrian", "aiden", "alan", "albert", "alex", "alexander", "alexis", "alicia",
	"alison", "allison", "alyssa", "amanda", "amber", "amy", "andrea", "andrew", "angela", "angelica",
	"anna", "anne", "anthony", "antonio", "april", "ariana", "ashley", "austin", "barbara", "ben",
	"benjamin", "beth", "betty", "bill", "billy", "blake", "bob", "bobby", "brad", "bradley",
	"brandon", "brenda", "brian", "brittany", "brooke", "bryan", "caleb", "cameron", "carl", "carlos",
	"carmen", "carol", "caroline", "carrie", "cassandra", "catherine", "chad", "charles", "charlie",
	"chelsea", "cheryl", "chris", "christian", "christina", "christine", "christopher", "cindy", "claire",
	"cody", "cole", "colin", "connor", "courtney", "craig", "crystal", "cynthia", "dakota", "dan",
	"daniel", "danielle", "darius", "dave", "david", "dawn", "deanna", "deborah", "debra", "denise",
	"dennis", "derek", "destiny", "devin", "diana", "diane", "diego", "dominique", "donald", "donna",
	"dorothy", "douglas", "dylan", "eddie", "edward", "elena", "elijah", "elizabeth", "ella", "emily",
	"emma", "eric", "erica", "erik", "erin", "ethan", "eva", "evan", "frank", "gabriel", "gabriela",
	"gary", "george", "grace", "greg", "gregory", "hailey", "haley", "hannah", "heather", "helen",
	"henry", "hunter", "ian", "isaac", "isabella", "jack", "jackson", "jacob", "jacqueline", "jaden",
	"jake", "james", "jamie", "jane", "janet", "jared", "jasmine", "jason", "javier", "jeff",
	"jeffrey", "jenna", "jennifer", "jenny", "jeremy", "jerry", "jesse", "jessica", "jesus", "jill",
	"jim", "jimmy", "joan", "joe", "joel", "john", "johnny", "jon", "jonathan", "jordan", "jorge",
	"jose", "joseph", "joshua", "joyce", "juan", "judy", "julia", "julie", "justin", "kaitlyn",
	"karen", "katherine", "kathleen", "kathy", "katie", "kayla", "keith", "kelly", "ken", "kenneth",
	"kevin", "kim", "kimberly", "kyle", "laura", "lauren", "leah", "lily", "linda", "lisa", "logan",
	"lori", "luis", "luke", "madison", "makayla", "mandy", "marc", "margaret", "maria", "mariah",
	"marie", "mark", "martha", "martin", "mary", "mason", "matt", "matthew", "megan", "melissa",
	"michael", "michelle", "miguel", "mike", "mia", "molly", "monica", "morgan", "nancy", "natalie",
	"nathan", "nicholas", "nick", "nicole", "noah", "olivia", "omar", "pam", "pamela", "patricia",
	"patrick", "paul", "paula", "peter", "rachel", "ralph", "randy", "raymond", "rebecca", "richard",
	"rick", "ricky", "rob", "robert", "robin", "ronald", "rose", "ruth", "ryan", "sabrina", "samantha",
	"samuel", "sandra", "sara", "sarah", "scott", "sean", "sebastian", "shannon", "sharon", "shawn",
	"sofia", "sophia", "stephanie", "stephen", "steve", "steven", "susan", "sydney", "tammy", "taylor",
	"teresa", "terry", "thomas", "tiffany", "tim", "timothy", "tina", "todd", "tom", "tony", "tracy",
	"travis", "trevor", "tyler", "valerie", "vanessa", "victor", "victoria", "vincent", "walter",
	"wayne", "wendy", "william", "xavier", "zachary", "zoe",
}

// agentRoster is the dispatch desk staff list
var agentRoster = []string{"Brianna", "Dominic", "Shae", "Rico", "Tasha", "Marcus"}

var calendarWords = []string{
	"today", "tomorrow", "tonight", "next", "this", "weekend",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"mon", "tue", "tues", "wed", "thu", "thur", "thurs", "fri", "sat", "sun",
	"january", "february", "march", "april", "may", "june", "july", "august",
	"september", "october", "november", "december",
	"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "sept", "oct", "nov", "dec",
}
