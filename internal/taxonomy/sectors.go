package taxonomy

// Key is a canonical sector. Unrecognized marks an open-vocabulary sector whose
// cleaned label travels in Sector.Raw.
type Key uint8

const (
	Unrecognized Key = iota
	AI
	Fintech
	Healthtech
	Biotech
	Medtech
	SaaS
	Enterprise
	Devtools
	Data
	Security
	Robotics
	Hardware
	Crypto
	Gaming
	Media
	Social
	Consumer
	Ecommerce
	Marketplace
	Edtech
	Climate
	Energy
	Mobility
	Proptech
	Foodtech
	Agtech
	Space
	IoT
	Deeptech
	HRtech
	Legaltech
	Insurtech
	Logistics
	Govtech

	keyCount
)

var keyNames = [keyCount]string{
	Unrecognized: "",
	AI:           "ai",
	Fintech:      "fintech",
	Healthtech:   "healthtech",
	Biotech:      "biotech",
	Medtech:      "medtech",
	SaaS:         "saas",
	Enterprise:   "enterprise",
	Devtools:     "devtools",
	Data:         "data",
	Security:     "security",
	Robotics:     "robotics",
	Hardware:     "hardware",
	Crypto:       "crypto",
	Gaming:       "gaming",
	Media:        "media",
	Social:       "social",
	Consumer:     "consumer",
	Ecommerce:    "ecommerce",
	Marketplace:  "marketplace",
	Edtech:       "edtech",
	Climate:      "climate",
	Energy:       "energy",
	Mobility:     "mobility",
	Proptech:     "proptech",
	Foodtech:     "foodtech",
	Agtech:       "agtech",
	Space:        "space",
	IoT:          "iot",
	Deeptech:     "deeptech",
	HRtech:       "hrtech",
	Legaltech:    "legaltech",
	Insurtech:    "insurtech",
	Logistics:    "logistics",
	Govtech:      "govtech",
}

func (k Key) String() string {
	if k >= keyCount {
		return ""
	}
	return keyNames[k]
}

// Keys returns every canonical key in scan order.
func Keys() []Key {
	keys := make([]Key, 0, keyCount-1)
	for k := AI; k < keyCount; k++ {
		keys = append(keys, k)
	}
	return keys
}

// ParseKey resolves an exact canonical key name.
func ParseKey(name string) (Key, bool) {
	for k := AI; k < keyCount; k++ {
		if keyNames[k] == name {
			return k, true
		}
	}
	return Unrecognized, false
}

// Vocabulary is the static data behind a Normalizer.
type Vocabulary struct {
	Keys     []Key
	Synonyms map[Key][]string
	Adjacent map[Key][]Key
}

// DefaultVocabulary returns the built-in sector vocabulary.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Keys: Keys(),
		Synonyms: map[Key][]string{
			AI:          {"artificial intelligence", "machine learning", "ml", "aiml", "deep learning", "generative ai", "genai", "llm", "large language models", "computer vision", "nlp", "natural language processing"},
			Fintech:     {"financial technology", "financial services", "payments", "banking", "neobank", "lending", "wealthtech", "regtech"},
			Healthtech:  {"health tech", "healthcare", "digital health", "health", "telehealth", "telemedicine", "mental health"},
			Biotech:     {"biotechnology", "life sciences", "therapeutics", "pharma", "pharmaceuticals", "drug discovery", "genomics"},
			Medtech:     {"medical devices", "medical device", "medical technology", "diagnostics"},
			SaaS:        {"software as a service", "b2b software", "cloud software", "software"},
			Enterprise:  {"enterprise software", "b2b", "business software", "future of work"},
			Devtools:    {"developer tools", "dev tools", "developer platform", "devops", "open source", "cloud infrastructure"},
			Data:        {"data infrastructure", "analytics", "big data", "data analytics", "business intelligence", "databases"},
			Security:    {"cybersecurity", "cyber security", "infosec", "information security", "identity"},
			Robotics:    {"robots", "automation", "industrial automation", "drones"},
			Hardware:    {"consumer electronics", "electronics", "semiconductors", "chips", "devices"},
			Crypto:      {"web3", "blockchain", "defi", "cryptocurrency", "nft", "digital assets"},
			Gaming:      {"games", "video games", "esports", "game development"},
			Media:       {"entertainment", "content", "creator economy", "streaming", "music", "publishing"},
			Social:      {"social media", "social network", "community", "dating"},
			Consumer:    {"consumer products", "d2c", "dtc", "direct to consumer", "cpg", "consumer goods", "lifestyle"},
			Ecommerce:   {"e commerce", "retail", "online shopping", "commerce"},
			Marketplace: {"marketplaces", "two sided marketplace", "gig economy", "sharing economy"},
			Edtech:      {"education", "education technology", "online learning", "elearning"},
			Climate:     {"climate tech", "climatetech", "sustainability", "carbon", "greentech", "clean tech", "cleantech"},
			Energy:      {"clean energy", "renewable energy", "renewables", "solar", "batteries", "energy storage"},
			Mobility:    {"transportation", "automotive", "electric vehicles", "ev", "autonomous vehicles"},
			Proptech:    {"real estate", "property technology", "construction tech", "construction"},
			Foodtech:    {"food", "food and beverage", "restaurant tech", "food delivery"},
			Agtech:      {"agriculture", "agritech", "farming", "agrifood"},
			Space:       {"spacetech", "space tech", "aerospace", "satellites"},
			IoT:         {"internet of things", "connected devices", "sensors", "smart home"},
			Deeptech:    {"deep tech", "quantum", "quantum computing", "advanced materials", "materials science", "nanotech", "fusion"},
			HRtech:      {"hr", "human resources", "recruiting", "hiring", "talent", "workforce"},
			Legaltech:   {"legal", "legal tech", "law"},
			Insurtech:   {"insurance", "insurance tech"},
			Logistics:   {"supply chain", "shipping", "freight", "last mile"},
			Govtech:     {"government", "public sector", "civic tech", "defense", "defense tech"},
		},
		Adjacent: map[Key][]Key{
			AI:          {Devtools, Enterprise, SaaS, Healthtech, Fintech, Robotics, Data, Security},
			Fintech:     {Crypto, Insurtech, SaaS, Enterprise, Ecommerce, Data},
			Healthtech:  {Biotech, Medtech, AI, Data, Insurtech},
			Biotech:     {Healthtech, Medtech, Deeptech},
			Medtech:     {Healthtech, Biotech, Hardware},
			SaaS:        {Enterprise, Devtools, Data, HRtech, Legaltech, Marketplace},
			Enterprise:  {SaaS, Security, Data, HRtech, Legaltech, Govtech},
			Devtools:    {SaaS, Data, Security, AI},
			Data:        {AI, SaaS, Devtools, Enterprise},
			Security:    {Enterprise, Devtools, Govtech, Crypto},
			Robotics:    {Hardware, AI, Deeptech, Logistics, Agtech},
			Hardware:    {Robotics, IoT, Deeptech, Energy, Mobility},
			Crypto:      {Fintech, Gaming, Security},
			Gaming:      {Crypto, AI, Media, Social},
			Media:       {Gaming, Social, Consumer},
			Social:      {Media, Gaming, Consumer, Marketplace},
			Consumer:    {Ecommerce, Media, Social, Foodtech},
			Ecommerce:   {Marketplace, Consumer, Logistics, Fintech},
			Marketplace: {Ecommerce, SaaS, Social, Logistics},
			Edtech:      {SaaS, Media, HRtech},
			Climate:     {Energy, Agtech, Mobility, Deeptech},
			Energy:      {Climate, Hardware, Deeptech},
			Mobility:    {Logistics, Hardware, Climate, IoT},
			Proptech:    {Fintech, Marketplace, IoT},
			Foodtech:    {Agtech, Consumer, Logistics},
			Agtech:      {Foodtech, Climate, Robotics},
			Space:       {Deeptech, Hardware, Govtech},
			IoT:         {Hardware, Data, Mobility, Proptech},
			Deeptech:    {Biotech, Robotics, Space, Energy, Hardware},
			HRtech:      {SaaS, Enterprise, Edtech},
			Legaltech:   {SaaS, Enterprise, Govtech},
			Insurtech:   {Fintech, Healthtech},
			Logistics:   {Mobility, Ecommerce, Robotics},
			Govtech:     {Security, Enterprise, Space, Legaltech},
		},
	}
}
