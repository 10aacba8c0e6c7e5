package merchant

import "regexp"

// Rule binds a name pattern to a category. Rules are evaluated in declared
// order against the cleaned lowercase merchant name; first match wins.
type Rule struct {
	Pattern  *regexp.Regexp
	Category Category
}

// CategoryRules classifies merchants by name when the feed supplies no
// usable category hint. Order matters: more specific merchants come before
// generic keyword fallbacks.
var CategoryRules = []Rule{
	// Groceries
	{regexp.MustCompile(`(?i)whole foods|trader joe|safeway|kroger|albertsons|wegmans|aldi|costco|sprouts|heb\b|publix|food lion|grocer|supermarket`), CategoryGroceries},

	// Food & drink
	{regexp.MustCompile(`(?i)starbucks|dunkin|chipotle|mcdonald|burger king|wendy'?s|taco bell|subway|panera|sweetgreen|cava\b|shake shack|five guys|in-?n-?out|doordash|uber\s*eats|grubhub|postmates|seamless|instacart|restaurant|pizz(a|eria)|sushi|taqueria|cafe|coffee|brewer|bakery|deli\b|bar & grill`), CategoryFoodAndDrink},

	// Housing
	{regexp.MustCompile(`(?i)rent|mortgage|landlord|property mgmt|property management|apartments|realty|hoa\b|lease`), CategoryHousing},

	// Transportation
	// The Food & Drink rule above claims "uber eats" before this one runs.
	{regexp.MustCompile(`(?i)\buber\b|lyft\b|shell|chevron|exxon|mobil\b|valero|sunoco|bp\b|arco\b|76\b|speedway|wawa|parking|park(mobile|whiz)|metro\b|transit|mta\b|bart\b|amtrak|toll|ezpass|e-zpass`), CategoryTransportation},

	// Entertainment
	{regexp.MustCompile(`(?i)netflix|spotify|hulu|disney|hbo|max\.com|paramount|peacock|youtube|twitch|steam(games| games)?|playstation|nintendo|xbox|amc\b|cinemark|regal|cinema|theatre|theater|ticketmaster|stubhub|concert`), CategoryEntertainment},

	// Shopping
	{regexp.MustCompile(`(?i)amazon|amzn|target|walmart|wal-mart|best buy|ebay|etsy|ikea|home depot|lowe'?s|macy'?s|nordstrom|old navy|gap\b|uniqlo|zara|h&m\b|nike|adidas|rei\b|wayfair|temu|shein`), CategoryShopping},

	// Healthcare
	{regexp.MustCompile(`(?i)cvs|walgreens|rite aid|pharmacy|chemist|doctor|dr\.\s|dental|dentist|medical|clinic|hospital|urgent care|optometr|labcorp|quest diagnostics|kaiser|blue cross|aetna|cigna|united\s*health`), CategoryHealthcare},

	// Utilities
	{regexp.MustCompile(`(?i)verizon|at&t|att\b|t-mobile|tmobile|sprint|comcast|xfinity|spectrum|cox\b|centurylink|frontier|pg&e|pge\b|con\s*ed|coned|duke energy|national grid|water (bill|dept)|sewer|electric|gas company|utility|internet|broadband|mint mobile|visible\b|cricket wireless`), CategoryUtilities},

	// Travel
	{regexp.MustCompile(`(?i)airbnb|vrbo|booking\.com|expedia|priceline|kayak|hotels?\.com|marriott|hilton|hyatt|sheraton|westin|motel|resort|united air|delta air|american air|southwest|jetblue|alaska air|spirit air|frontier air|airline|airways`), CategoryTravel},

	// Personal care
	{regexp.MustCompile(`(?i)gym|fitness|equinox|planet fit|crunch|barre|yoga|pilates|salon|barber|spa\b|nails|massage|sephora|ulta`), CategoryPersonalCare},

	// Gifts
	{regexp.MustCompile(`(?i)gofundme|donation|donat|charity|red cross|unicef|patreon|gift`), CategoryGifts},

	// Education
	{regexp.MustCompile(`(?i)tuition|university|college|school|udemy|coursera|skillshare|masterclass|chegg|duolingo`), CategoryEducation},

	// Income-ish names (direct deposit descriptors)
	{regexp.MustCompile(`(?i)payroll|direct dep|salary|paycheck|gusto|adp\b|paychex|workday`), CategoryIncome},
}

// NoisePatterns match transactions that are bookkeeping noise rather than
// real-world spending or income: card payments, autopay, statement credits,
// interest, internal transfers. Matched both before and after name cleanup.
var NoisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)credit card\s*(pay(ment)?|pmt)`),
	regexp.MustCompile(`(?i)\b(card|cc)\s*payment\b`),
	regexp.MustCompile(`(?i)payment\s*(thank you|received)`),
	regexp.MustCompile(`(?i)\bautopay\b`),
	regexp.MustCompile(`(?i)auto\s*pay(ment)?\b`),
	regexp.MustCompile(`(?i)statement credit`),
	regexp.MustCompile(`(?i)interest (paid|charge[d]?)`),
	regexp.MustCompile(`(?i)\bonline (transfer|pmt)\b`),
	regexp.MustCompile(`(?i)transfer (to|from)\b`),
	regexp.MustCompile(`(?i)\bach pmt\b`),
	regexp.MustCompile(`(?i)internal transfer`),
	regexp.MustCompile(`(?i)balance transfer`),
}

// NeverRecurringPatterns match merchants that charge repeatedly in the
// history without ever being schedulable: airlines, hotels, travel agents,
// freight, and one-off professional services. Tuned to observed real-world
// merchant strings; replace the table to retune.
var NeverRecurringPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)airline|airways|air lines`),
	regexp.MustCompile(`(?i)united air|delta air|american air|southwest|jetblue|alaska air|spirit air|ryanair|lufthansa|emirates`),
	regexp.MustCompile(`(?i)hotel|motel|resort|marriott|hilton|hyatt|sheraton|westin|airbnb|vrbo`),
	regexp.MustCompile(`(?i)expedia|priceline|booking\.com|kayak|travelocity|orbitz`),
	regexp.MustCompile(`(?i)fedex|\bups\b|\busps\b|\bdhl\b`),
	regexp.MustCompile(`(?i)attorney|law office|legal|notary`),
	regexp.MustCompile(`(?i)consulting|contractor\b`),
}

// SubscriptionPatterns match SaaS, streaming, and cloud-infrastructure
// merchants that bill on the exact calendar day with no weekend shift.
var SubscriptionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)netflix|spotify|hulu|disney|hbo|paramount|peacock|youtube (premium|tv)|apple\.com|apple one|icloud|audible|kindle`),
	regexp.MustCompile(`(?i)adobe|figma|notion|slack|zoom|dropbox|github|gitlab|openai|anthropic|canva|grammarly|1password|lastpass`),
	regexp.MustCompile(`(?i)aws|amazon web services|google (cloud|one|storage)|digitalocean|heroku|vercel|netlify|cloudflare|linode`),
	regexp.MustCompile(`(?i)new york times|nyt\b|washington post|wsj\b|economist|substack|medium\b|patreon`),
	regexp.MustCompile(`(?i)planet fit|equinox|crunch|peloton|strava|headspace|calm\b|duolingo`),
}

// incomeVocab marks transfer-labeled deposits that are really income:
// payroll, refunds, reimbursements. Plaid-style feeds commonly tag direct
// deposits as bare transfers.
var incomeVocab = regexp.MustCompile(`(?i)payroll|direct dep|dir dep|\bdd\b|salary|paycheck|wages|refund|reimburse|cash back|cashback|rebate|gusto|adp\b|paychex`)

// payDownVocab marks outgoing transfer-labeled entries that pay down a
// balance already represented by the charges they settle.
var payDownVocab = regexp.MustCompile(`(?i)payment|pay\s*down|pmt\b|epay|bill\s*pay`)

func matchAny(patterns []*regexp.Regexp, name string) bool {
	for _, p := range patterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}

// IsNoise reports whether a raw or cleaned name is bookkeeping noise.
func IsNoise(name string) bool { return matchAny(NoisePatterns, name) }

// IsNeverRecurring reports whether a merchant is excluded from recurring
// detection regardless of how often it appears.
func IsNeverRecurring(name string) bool { return matchAny(NeverRecurringPatterns, name) }

// IsSubscription reports whether a merchant bills on the exact calendar day.
func IsSubscription(name string) bool { return matchAny(SubscriptionPatterns, name) }

// LooksLikeIncome reports whether a transfer-labeled record is really
// income, judged from its raw name and feed category hints.
func LooksLikeIncome(rawName string, hints []string) bool {
	if incomeVocab.MatchString(rawName) {
		return true
	}
	for _, h := range hints {
		if incomeVocab.MatchString(h) {
			return true
		}
	}
	return false
}

// LooksLikePayDown reports whether an outgoing transfer-labeled record is
// the paying-down of a balance rather than new spending.
func LooksLikePayDown(rawName string) bool { return payDownVocab.MatchString(rawName) }

// Categorize resolves a category for a merchant name, preferring the feed's
// category hints and falling back to the ordered name-rule table.
func Categorize(name string, hints []string) Category {
	if c := ParseFeedCategory(hints); c != CategoryOther {
		return c
	}
	for _, r := range CategoryRules {
		if r.Pattern.MatchString(name) {
			return r.Category
		}
	}
	return CategoryOther
}
